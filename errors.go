// Package oredb provides an embedded document store backed by a single JSON
// file. The whole file is decoded into memory on Open, documents are read and
// mutated in memory under a reader/writer lock, and Commit rewrites the file
// in full. Nothing is persisted until Commit is called.
//
// Documents are schema-less, insertion-ordered JSON objects. The reserved
// "guid" field identifies a document; Insert generates one when it is
// missing or blank. Every read returns deep copies, so a returned document
// can be modified freely without affecting the store.
//
// The backing file is a pretty-printed JSON array of objects. Field order
// and document order are preserved exactly as held in memory.
package oredb

import "errors"

// Sentinel errors for programmatic handling. Load and commit failures wrap
// ErrLoad or ErrCommit together with the underlying cause, so callers can
// match either with errors.Is.
var (
	ErrLoad           = errors.New("load failed")
	ErrCommit         = errors.New("commit failed")
	ErrNotFound       = errors.New("document not found")
	ErrExists         = errors.New("document already exists")
	ErrClosed         = errors.New("database is closed")
	ErrNilDocument    = errors.New("document is nil")
	ErrMalformed      = errors.New("malformed json")
	ErrNotArray       = errors.New("content is not a json array")
	ErrNotObject      = errors.New("element is not a json object")
	ErrInvalidPattern = errors.New("invalid regex pattern")
	ErrNoBackup       = errors.New("no backup available")
	ErrDecompress     = errors.New("decompression failed")
)
