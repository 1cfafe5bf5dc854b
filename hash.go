// Content checksums for change detection.
//
// The store remembers a checksum of the encoded file content as of the last
// load or commit. Modified re-encodes the in-memory documents and compares
// checksums, so it reports content changes rather than counting mutations:
// an insert followed by a delete of the same document is not a change.
// Three algorithms are supported, selectable via Config.HashAlgorithm.
package oredb

import (
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// checksum returns a 16 hex character digest of data. Unknown algorithms
// yield "".
func checksum(data []byte, alg int) string {
	switch alg {
	case AlgXXHash3:
		return fmt.Sprintf("%016x", xxh3.Hash(data))
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum(nil))
	default:
		return ""
	}
}
