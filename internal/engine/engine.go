// Package engine implements the storage engine: the single object that
// coordinates an index and a file set to provide get/put/delete/size and
// drives the three-phase compaction procedure. It is the leaf consumer of
// internal/index, internal/fileset, and internal/compaction, and the thing
// a façade layer (outside this module's scope) would wrap in its own
// concurrency discipline.
package engine

import (
	"context"
	stdErrors "errors"
	"path/filepath"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/compaction"
	"github.com/iamNilotpal/ignite/internal/fileset"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/options"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

// New opens (or creates) the data directory named in config.Options and
// returns a ready-to-use Engine: the file set's recovery scan has already
// populated the index from whatever was on disk.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	idx, err := index.New(ctx, &index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	fs, err := fileset.FromDisk(ctx, &fileset.Config{
		DataDir:           config.Options.DataDir,
		FileExtension:     config.Options.FileExtension,
		RolloverThreshold: config.Options.RolloverThreshold,
		Logger:            config.Logger,
	}, idx)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}

	config.Logger.Infow("engine opened", "dataDir", config.Options.DataDir)
	return &Engine{opts: config.Options, log: config.Logger, idx: idx, fs: fs}, nil
}

// Get returns the current value for key, or (nil, false) if it is absent or
// tombstoned. A read-time I/O error is logged and surfaced as absent rather
// than propagated, per this engine's read-path contract: a live key whose
// bytes cannot be fetched is observably indistinguishable from deletion.
func (e *Engine) Get(key string) ([]byte, bool, error) {
	if e.closed.Load() {
		return nil, false, ErrEngineClosed
	}

	entry, ok, err := e.idx.Get(key)
	if err != nil {
		return nil, false, err
	}
	if !ok || entry.IsTombstone() {
		return nil, false, nil
	}

	value, err := e.fs.ReadValue(entry.FileID, entry.ValueOffset, entry.ValueSize)
	if err != nil {
		e.log.Warnw("read-time I/O error surfaced as absent", "key", key, "error", err)
		return nil, false, nil
	}

	return value, true, nil
}

// Put writes key=value, subject to opts. NX fails with KeyExistsError if
// the index already has a live (non-tombstone) entry for key; XX fails with
// KeyNotFoundError if it has no entry, or only a tombstone. The disk append
// happens before the index is updated, so a failed append leaves the index
// untouched.
func (e *Engine) Put(key string, value []byte, opts PutOptions) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	entry, ok, err := e.idx.Get(key)
	if err != nil {
		return err
	}

	if opts.NX && ok && !entry.IsTombstone() {
		return errors.NewKeyExistsError(key)
	}
	if opts.XX && (!ok || entry.IsTombstone()) {
		return errors.NewKeyNotFoundError(key)
	}

	fileID, offset, err := e.fs.Append(codec.NewRecord([]byte(key), value))
	if err != nil {
		return err
	}

	_, _, err = e.idx.Put(key, index.Entry{FileID: fileID, ValueOffset: offset, ValueSize: uint32(len(value))})
	return err
}

// Delete appends a tombstone for key and records a zero-size entry in the
// index, even if the key was already absent — the append-only invariant
// never omits a tombstone just because there was nothing to delete.
func (e *Engine) Delete(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	fileID, offset, err := e.fs.Append(codec.NewTombstone([]byte(key)))
	if err != nil {
		return err
	}

	_, _, err = e.idx.Put(key, index.Entry{FileID: fileID, ValueOffset: offset, ValueSize: 0})
	return err
}

// Size returns the number of keys tracked by the index, tombstones
// included.
func (e *Engine) Size() (int, error) {
	if e.closed.Load() {
		return 0, ErrEngineClosed
	}
	return e.idx.Size()
}

// Phase reports the current stage of an in-flight compaction, or
// compaction.PhaseNormal when none is running. It exists purely for
// observability: a caller wrapping the engine in its own lock discipline
// can assert the expected phase in tests.
func (e *Engine) Phase() compaction.Phase {
	e.phaseMu.Lock()
	defer e.phaseMu.Unlock()
	return e.phase
}

func (e *Engine) setPhase(p compaction.Phase) {
	e.phaseMu.Lock()
	e.phase = p
	e.phaseMu.Unlock()
}

// CompactTo builds a fresh, dead-record-free copy of the engine's data into
// newDir and swaps the engine's file set and index to point at it. It does
// not remove the original directory; the caller owns that decision.
//
// Per this package's single-owner, externally-synchronized concurrency
// model, CompactTo itself does not drop or reacquire any lock mid-call: a
// caller wanting concurrent writers during the expensive build phase holds
// its exclusive lock only around Phase()-observed Preparing/Finishing
// windows at the façade layer, outside this function. Here the three
// phases simply run back-to-back.
func (e *Engine) CompactTo(ctx context.Context, newDir string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	newDir, err := filepath.Abs(newDir)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to resolve compaction target directory").
			WithPath(newDir)
	}

	e.setPhase(compaction.PhasePreparing)
	snapshot, err := compaction.Prepare(e.fs)
	if err != nil {
		e.setPhase(compaction.PhaseNormal)
		return err
	}

	e.setPhase(compaction.PhaseCompacting)
	if err := compaction.Build(ctx, snapshot, newDir, e.opts.FileExtension, e.log); err != nil {
		e.setPhase(compaction.PhaseNormal)
		return err
	}

	e.setPhase(compaction.PhaseFinishing)
	newSet, newIdx, err := compaction.Finish(ctx, e.fs, snapshot, newDir, e.opts.FileExtension, e.log)
	if err != nil {
		e.setPhase(compaction.PhaseNormal)
		return err
	}

	oldFs, oldIdx := e.fs, e.idx
	e.fs, e.idx = newSet, newIdx
	e.opts.DataDir = newDir
	e.setPhase(compaction.PhaseNormal)

	_ = oldFs.Close()
	_ = oldIdx.Close()

	e.log.Infow("compaction complete", "newDataDir", newDir)
	return nil
}

// Close releases the engine's held file handles and index memory. It is
// idempotent: a second call is a no-op, not an error.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}

	e.log.Infow("closing engine", "dataDir", e.opts.DataDir)

	var firstErr error
	if err := e.fs.Close(); err != nil {
		firstErr = err
	}
	if err := e.idx.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
