// Package compaction builds a fresh, dead-record-free directory out of a
// frozen snapshot of a file set's immutable files. It runs the three-phase
// prepare/build/finish sequence described by the engine's compaction
// contract. The engine calls the three phases back-to-back and takes no
// lock of its own; exclusive access around phases 1 and 3 is left to
// whoever owns the engine.
package compaction

import (
	"context"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/fileset"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"go.uber.org/zap"
)

// Phase names the stage of compaction currently in flight, exposed by the
// engine for observability.
type Phase int

const (
	// PhaseNormal means no compaction is running.
	PhaseNormal Phase = iota
	// PhasePreparing is rolling the active file forward and snapshotting
	// the immutable file list, under the engine's write lock.
	PhasePreparing
	// PhaseCompacting is building the new directory from the snapshot,
	// with the engine unlocked.
	PhaseCompacting
	// PhaseFinishing is copying in concurrent writes and swapping the
	// engine's file set and index, under the engine's write lock.
	PhaseFinishing
)

func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhasePreparing:
		return "preparing"
	case PhaseCompacting:
		return "compacting"
	case PhaseFinishing:
		return "finishing"
	default:
		return "unknown"
	}
}

// Prepare rolls fs's active file forward so nothing written from this point
// on lands in an already-snapshotted file, then returns the paths of every
// file excluding the new active one. It takes no lock itself; it must not
// run concurrently with writes to fs.
func Prepare(fs *fileset.FileSet) ([]string, error) {
	if err := fs.CreateNewFile(); err != nil {
		return nil, err
	}
	return fs.ImmutableFiles(), nil
}

// Build creates newDir, opens a fresh file id 0 inside it, and folds the
// live, non-tombstone entries of snapshot into that single file in
// ascending key order. It runs without any lock held on the live engine: it
// only ever reads from the frozen snapshot files.
func Build(ctx context.Context, snapshot []string, newDir, extension string, log *zap.SugaredLogger) error {
	if err := filesys.CreateDir(newDir, 0755, true); err != nil {
		return errors.ClassifyDirectoryCreationError(err, newDir)
	}

	localIdx, err := index.New(ctx, &index.Config{Logger: log})
	if err != nil {
		return err
	}
	defer func() { _ = localIdx.Close() }()

	snapshotSet, err := fileset.ImmutableInit(
		ctx, snapshot, &fileset.Config{FileExtension: extension, Logger: log}, localIdx,
	)
	if err != nil {
		return err
	}
	defer func() { _ = snapshotSet.Close() }()

	newSet, err := fileset.FromDisk(
		ctx, &fileset.Config{
			DataDir: newDir, FileExtension: extension, RolloverThreshold: ^uint64(0), Logger: log,
		}, localIdx,
	)
	if err != nil {
		return err
	}
	defer func() { _ = newSet.Close() }()

	entries, err := localIdx.All()
	if err != nil {
		return err
	}

	var written int
	for key, entry := range entries {
		if entry.IsTombstone() {
			continue
		}

		value, err := snapshotSet.ReadValue(entry.FileID, entry.ValueOffset, entry.ValueSize)
		if err != nil {
			return err
		}

		rec := codec.NewRecord([]byte(key), value)
		if _, _, err := newSet.Append(rec); err != nil {
			return err
		}
		written++
	}

	log.Infow("compaction build phase complete", "newDir", newDir, "recordsWritten", written)
	return nil
}

// Finish copies every file in fs that is not part of snapshot into newDir —
// the writes that landed concurrently with Build — then opens a fresh file
// set and index rooted at newDir. It takes no lock itself; it must not run
// concurrently with writes to fs.
func Finish(
	ctx context.Context, fs *fileset.FileSet, snapshot []string, newDir, extension string, log *zap.SugaredLogger,
) (*fileset.FileSet, *index.Index, error) {
	if err := fs.CopyFilesToNewDir(snapshot, newDir); err != nil {
		return nil, nil, err
	}

	newIdx, err := index.New(ctx, &index.Config{Logger: log})
	if err != nil {
		return nil, nil, err
	}

	newSet, err := fileset.FromDisk(ctx, &fileset.Config{
		DataDir: newDir, FileExtension: extension, RolloverThreshold: fs.RolloverThreshold(), Logger: log,
	}, newIdx)
	if err != nil {
		_ = newIdx.Close()
		return nil, nil, err
	}

	log.Infow("compaction finish phase complete", "newDir", newDir)
	return newSet, newIdx, nil
}
