package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Entry is the in-memory index's value type: enough metadata to locate a
// key's most recent value on disk without parsing anything else.
//
// A tombstone is represented as an Entry with ValueSize == 0 rather than
// by removing the key — see Index.Put/Delete for when each applies.
type Entry struct {
	// FileID identifies which log file holds the value.
	FileID uint64

	// ValueOffset is the byte offset of the first byte of the value
	// within its file — not the record header.
	ValueOffset int64

	// ValueSize is the byte length of the value. Zero means tombstone.
	ValueSize uint32
}

// IsTombstone reports whether e represents a logical delete.
func (e Entry) IsTombstone() bool {
	return e.ValueSize == 0
}

// Index is the ordered, in-memory Key -> Entry mapping. It is backed by a
// skip list rather than a plain hash map so that compaction can traverse
// keys in ascending order without a separate sort pass.
type Index struct {
	log    *zap.SugaredLogger
	list   *skipList
	mu     sync.RWMutex
	closed atomic.Bool
}

// Config holds the parameters needed to construct an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
