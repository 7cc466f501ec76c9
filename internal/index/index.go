// Package index provides the in-memory Key -> Entry index: the structure
// that lets a get resolve to a single positioned disk read. It keeps every
// key, live or tombstoned, in memory, and supports ascending iteration so
// compaction can produce a deterministic output layout.
package index

import (
	"context"
	stdErrors "errors"
	"iter"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

var (
	// ErrIndexClosed is returned when attempting to perform operations on
	// a closed index.
	ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")
)

// New creates an empty Index.
func New(ctx context.Context, config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{log: config.Logger, list: newSkipList()}, nil
}

// Get returns the entry for key, if one exists. It does not special-case
// tombstones; callers that only want live keys check Entry.IsTombstone.
func (idx *Index) Get(key string) (Entry, bool, error) {
	if idx.closed.Load() {
		return Entry{}, false, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entry, ok := idx.list.Get(key)
	return entry, ok, nil
}

// Put inserts or overwrites key's entry and returns the entry it replaced,
// if any. This is the write path used both for live puts/deletes (which
// keep a zero-size tombstone entry) and for recovery-driven inserts of
// non-tombstone records.
func (idx *Index) Put(key string, entry Entry) (Entry, bool, error) {
	if idx.closed.Load() {
		return Entry{}, false, ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	previous, existed := idx.list.Put(key, entry)
	return previous, existed, nil
}

// Delete removes key's mapping entirely. This is used only by recovery
// scans (initial directory open, and the compactor's snapshot-local
// scan) when they encounter a tombstone record — a live Delete call
// during normal engine operation calls Put with a zero-size entry
// instead, so the key remains counted by Size until compaction.
func (idx *Index) Delete(key string) (Entry, bool, error) {
	if idx.closed.Load() {
		return Entry{}, false, ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	previous, existed := idx.list.Delete(key)
	return previous, existed, nil
}

// Size returns the number of keys tracked, tombstones included.
func (idx *Index) Size() (int, error) {
	if idx.closed.Load() {
		return 0, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.list.Size(), nil
}

// All returns an iterator over every (key, entry) pair in ascending key
// order, used by compaction to produce a deterministic output file.
// Callers must not mutate the index while iterating.
func (idx *Index) All() (iter.Seq2[string, Entry], error) {
	if idx.closed.Load() {
		return nil, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.list.All(), nil
}

// Close releases the index. It is idempotent: a second call is a no-op,
// not an error, guarded by an atomic compare-and-swap flag rather than a
// mutex.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return nil
	}

	idx.log.Infow("closing index")

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.list = nil

	return nil
}
