// Compression for commit backups.
//
// With Config.Backup set, Commit keeps the previously committed file as a
// Zstd frame in <name>.bak.zst before replacing it. The backup is written
// once per commit and read only by Restore, so the encoder favours speed.
package oredb

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// BackupSuffix is appended to the backing file name to form the backup name.
const BackupSuffix = ".bak.zst"

// Shared encoder/decoder; both are safe for concurrent use when driven
// through EncodeAll/DecodeAll.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

func compress(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return zstdEncoder.EncodeAll(data, nil)
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrDecompress, err)
	}
	return out, nil
}
