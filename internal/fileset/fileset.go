// Package fileset manages the ordered collection of log files that make up
// one data directory: discovery and recovery on open, append-time
// rollover, and the snapshot/copy primitives compaction is built from.
package fileset

import (
	"context"
	stdErrors "errors"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/logfile"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/seginfo"
	"go.uber.org/zap"
)

// ErrFileSetClosed is returned when attempting to perform operations on a
// closed file set.
var ErrFileSetClosed = stdErrors.New("operation failed: cannot access closed file set")

// ErrImmutable is returned by Append on a file set built by ImmutableInit:
// appending to the transient snapshot used during compaction is a
// programmer error, not a recoverable condition.
var ErrImmutable = stdErrors.New("operation failed: file set is immutable")

// Config holds the parameters needed to construct a FileSet.
type Config struct {
	DataDir           string
	FileExtension     string
	RolloverThreshold uint64
	Logger            *zap.SugaredLogger
}

// FileSet is the ordered collection of log files backing one data
// directory. Files are keyed by id rather than stored in a position-
// indexed slice: a file set rebuilt after compaction can contain
// non-contiguous ids (a concurrently-written file copied in during finish
// keeps its pre-compaction id), so lookup by id must not assume
// contiguity.
type FileSet struct {
	dataDir           string
	extension         string
	rolloverThreshold uint64
	log               *zap.SugaredLogger

	mu              sync.Mutex
	files           map[uint64]*logfile.LogFile
	activeID        uint64
	currentFileSize int64
	immutable       bool
	closed          atomic.Bool
}

// FromDisk opens every log file already present in config.DataDir, in
// ascending id order, scanning each into idx. If the directory is empty
// it creates file id 0 as the active file. The returned set is mutable.
func FromDisk(ctx context.Context, config *Config, idx *index.Index) (*FileSet, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "file set configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	if err := filesys.CreateDir(config.DataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, config.DataDir)
	}

	ids, paths, err := seginfo.ListFileIDs(config.DataDir, config.FileExtension)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to discover log files").
			WithPath(config.DataDir)
	}

	fs := &FileSet{
		dataDir:           config.DataDir,
		extension:         config.FileExtension,
		rolloverThreshold: config.RolloverThreshold,
		log:               config.Logger,
		files:             make(map[uint64]*logfile.LogFile, len(ids)+1),
	}

	if len(ids) == 0 {
		active, err := logfile.Create(config.DataDir, 0, config.FileExtension, config.Logger)
		if err != nil {
			return nil, err
		}
		fs.files[0] = active
		fs.activeID = 0
		config.Logger.Infow("file set bootstrapped with a fresh active file", "dataDir", config.DataDir)
		return fs, nil
	}

	for _, id := range ids {
		lf, err := logfile.Open(paths[id], id, config.Logger, idx)
		if err != nil {
			return nil, err
		}
		fs.files[id] = lf
	}

	fs.activeID = ids[len(ids)-1]
	size, err := fs.files[fs.activeID].Size()
	if err != nil {
		return nil, err
	}
	fs.currentFileSize = size

	config.Logger.Infow(
		"file set recovered from disk",
		"dataDir", config.DataDir, "fileCount", len(ids), "activeFileId", fs.activeID,
	)
	return fs, nil
}

// ImmutableInit opens the given file paths, in ascending id order,
// scanning each into idx, and marks the resulting set immutable. It is
// used only transiently, during the build phase of compaction, to read
// values out of a frozen snapshot.
func ImmutableInit(ctx context.Context, paths []string, config *Config, idx *index.Index) (*FileSet, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "file set configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	type idPath struct {
		id   uint64
		path string
	}
	entries := make([]idPath, 0, len(paths))
	for _, p := range paths {
		id, ok := seginfo.ParseFileID(p, config.FileExtension)
		if !ok {
			continue
		}
		entries = append(entries, idPath{id: id, path: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	fs := &FileSet{
		extension: config.FileExtension,
		log:       config.Logger,
		files:     make(map[uint64]*logfile.LogFile, len(entries)),
		immutable: true,
	}

	for _, e := range entries {
		lf, err := logfile.Open(e.path, e.id, config.Logger, idx)
		if err != nil {
			return nil, err
		}
		fs.files[e.id] = lf
		fs.dataDir = filepath.Dir(e.path)
	}

	return fs, nil
}

// Append writes rec to the active file, then rolls over to a fresh active
// file if the tracked size now exceeds the rollover threshold and the
// actual on-disk size confirms it. It returns the file id and value offset
// the caller should record in the index: the file rec was written to, even
// when that append triggered a rollover.
func (fs *FileSet) Append(rec codec.Record) (uint64, int64, error) {
	if fs.closed.Load() {
		return 0, 0, ErrFileSetClosed
	}
	if fs.immutable {
		return 0, 0, ErrImmutable
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	active := fs.files[fs.activeID]
	valueOffset, err := active.Append(rec)
	if err != nil {
		return 0, 0, err
	}

	fs.currentFileSize += rec.Size()
	if uint64(fs.currentFileSize) > fs.rolloverThreshold {
		if err := fs.checkRolloverLocked(); err != nil {
			return 0, 0, err
		}
	}

	return fs.activeID, valueOffset, nil
}

// checkRolloverLocked re-checks the active file's actual size — the
// tracked counter is only a hint — and rolls over if it is still past
// the threshold. Caller must hold fs.mu.
func (fs *FileSet) checkRolloverLocked() error {
	active := fs.files[fs.activeID]
	size, err := active.Size()
	if err != nil {
		return err
	}
	if uint64(size) <= fs.rolloverThreshold {
		return nil
	}
	return fs.createNewFileLocked()
}

// createNewFileLocked creates a new active file with id one past the
// current maximum. The +1-over-max scheme guarantees no collision with
// past ids regardless of whether those ids are contiguous.
func (fs *FileSet) createNewFileLocked() error {
	newID := fs.activeID + 1

	lf, err := logfile.Create(fs.dataDir, newID, fs.extension, fs.log)
	if err != nil {
		return err
	}

	fs.files[newID] = lf
	fs.activeID = newID
	fs.currentFileSize = 0

	fs.log.Infow("log file rolled over", "newActiveFileId", newID)
	return nil
}

// ReadValue reads size bytes at offset from the named file.
func (fs *FileSet) ReadValue(fileID uint64, offset int64, size uint32) ([]byte, error) {
	if fs.closed.Load() {
		return nil, ErrFileSetClosed
	}

	fs.mu.Lock()
	lf, ok := fs.files[fileID]
	fs.mu.Unlock()

	if !ok {
		return nil, errors.NewIndexCorruptionError("ReadValue", len(fs.files), nil).
			WithDetail("fileId", fileID).WithCode(errors.ErrorCodeIndexInvalidFileID)
	}

	return lf.ReadValue(offset, size)
}

// ActiveFileID returns the id of the file currently receiving appends.
func (fs *FileSet) ActiveFileID() uint64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.activeID
}

// ImmutableFiles returns the paths of every file except the active one:
// the snapshot compaction may collapse into a single coalesced file.
func (fs *FileSet) ImmutableFiles() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	paths := make([]string, 0, len(fs.files))
	for id, lf := range fs.files {
		if id == fs.activeID {
			continue
		}
		paths = append(paths, lf.Path())
	}
	sort.Strings(paths)
	return paths
}

// CreateNewFile rolls the active file forward unconditionally, used by
// the compactor's prepare phase to freeze a snapshot that excludes
// anything written from this point on.
func (fs *FileSet) CreateNewFile() error {
	if fs.closed.Load() {
		return ErrFileSetClosed
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.createNewFileLocked()
}

// CopyFilesToNewDir copies every current file whose path is not present
// in snapshot into newDir, preserving each file's original name. It is
// used by the compactor's finish phase to fold in writes that landed
// concurrently with the build phase.
func (fs *FileSet) CopyFilesToNewDir(snapshot []string, newDir string) error {
	if fs.closed.Load() {
		return ErrFileSetClosed
	}

	inSnapshot := make(map[string]bool, len(snapshot))
	for _, p := range snapshot {
		inSnapshot[p] = true
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, lf := range fs.files {
		if inSnapshot[lf.Path()] {
			continue
		}
		dest := filepath.Join(newDir, filepath.Base(lf.Path()))
		if err := filesys.CopyFile(lf.Path(), dest); err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to copy file during compaction finish").
				WithFileID(lf.FileID()).WithPath(lf.Path())
		}
	}

	return nil
}

// DataDir returns the directory this file set is rooted at.
func (fs *FileSet) DataDir() string {
	return fs.dataDir
}

// RolloverThreshold returns the configured rollover threshold in bytes.
func (fs *FileSet) RolloverThreshold() uint64 {
	return fs.rolloverThreshold
}

// Close releases every open file handle. It is idempotent: a second call
// is a no-op, not an error.
func (fs *FileSet) Close() error {
	if !fs.closed.CompareAndSwap(false, true) {
		return nil
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	var firstErr error
	for _, lf := range fs.files {
		if err := lf.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	fs.files = nil

	return firstErr
}
