// Package logfile manages a single numbered, append-only log file: create,
// open, append, positioned read, and the recovery scan that rebuilds an
// in-memory index from what's already on disk.
package logfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/seginfo"
	"go.uber.org/zap"
)

// LogFile is one numbered append-only file in a file set.
type LogFile struct {
	fileID uint64
	path   string
	file   *os.File
	log    *zap.SugaredLogger
}

// Create opens a new log file with id fileID inside dir, creating it if it
// doesn't already exist. Appends always land at end-of-file; reads use
// explicit positioning.
func Create(dir string, fileID uint64, extension string, log *zap.SugaredLogger) (*LogFile, error) {
	name := seginfo.GenerateName(fileID, extension)
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		classified := errors.ClassifyFileOpenError(err, path, name)
		if se, ok := errors.AsStorageError(classified); ok {
			return nil, se.WithFileID(fileID)
		}
		return nil, classified
	}

	log.Infow("log file created", "fileId", fileID, "path", path)
	return &LogFile{fileID: fileID, path: path, file: file, log: log}, nil
}

// Open opens the existing log file at path for reading and appending, then
// runs its recovery scan against idx. A corruption error encountered
// during the scan is fatal and the file is closed before returning.
func Open(path string, fileID uint64, log *zap.SugaredLogger, idx *index.Index) (*LogFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		classified := errors.ClassifyFileOpenError(err, path, filepath.Base(path))
		if se, ok := errors.AsStorageError(classified); ok {
			return nil, se.WithFileID(fileID)
		}
		return nil, classified
	}

	lf := &LogFile{fileID: fileID, path: path, file: file, log: log}
	if err := lf.Recover(idx); err != nil {
		_ = file.Close()
		return nil, err
	}

	return lf, nil
}

// FileID returns the file's identifier.
func (lf *LogFile) FileID() uint64 {
	return lf.fileID
}

// Path returns the file's on-disk path.
func (lf *LogFile) Path() string {
	return lf.path
}

// Size returns the file's current on-disk length, authoritative over any
// tracked byte counter a caller keeps alongside it.
func (lf *LogFile) Size() (int64, error) {
	info, err := lf.file.Stat()
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat log file").
			WithFileID(lf.fileID).WithPath(lf.path)
	}
	return info.Size(), nil
}

// Append serializes rec to the end of the file and flushes it to disk
// before returning, so every completed append is durable. It returns the
// byte offset of the value payload within the file.
func (lf *LogFile) Append(rec codec.Record) (int64, error) {
	end, err := lf.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to end of log file").
			WithFileID(lf.fileID).WithPath(lf.path)
	}

	if _, err := lf.file.Write(codec.Encode(rec)); err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record").
			WithFileID(lf.fileID).WithPath(lf.path).WithOffset(end)
	}

	if err := lf.file.Sync(); err != nil {
		classified := errors.ClassifySyncError(err, filepath.Base(lf.path), lf.path, end)
		if se, ok := errors.AsStorageError(classified); ok {
			return 0, se.WithFileID(lf.fileID)
		}
		return 0, classified
	}

	return end + rec.ValueByteOffset(), nil
}

// ReadValue reads exactly size bytes starting at offset, with no header
// parsing: the index already tells the caller exactly where the value
// lives and how large it is.
func (lf *LogFile) ReadValue(offset int64, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := lf.file.ReadAt(buf, offset); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read value").
			WithFileID(lf.fileID).WithPath(lf.path).WithOffset(offset)
	}
	return buf, nil
}

// Recover scans the file from byte 0, inserting or removing index entries
// for every record it finds. Insert for a value record; remove for a
// tombstone. A corruption error during the scan is fatal.
func (lf *LogFile) Recover(idx *index.Index) error {
	size, err := lf.Size()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(io.NewSectionReader(lf.file, 0, size))

	var cursor int64
	for cursor < size {
		rec, n, err := codec.Decode(reader)
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.NewCorruptionError(err, "recovery scan failed").
				WithFileID(lf.fileID).WithOffset(cursor).WithCode(errors.ErrorCodeRecoveryFailed)
		}

		key := string(rec.Key)
		if rec.IsTombstone() {
			if _, _, err := idx.Delete(key); err != nil {
				return err
			}
		} else {
			entry := index.Entry{
				FileID:      lf.fileID,
				ValueOffset: cursor + rec.ValueByteOffset(),
				ValueSize:   uint32(len(rec.Value)),
			}
			if _, _, err := idx.Put(key, entry); err != nil {
				return err
			}
		}

		cursor += n
	}

	lf.log.Debugw("recovery scan complete", "fileId", lf.fileID, "path", lf.path, "bytesScanned", cursor)
	return nil
}

// Close releases the file's handle.
func (lf *LogFile) Close() error {
	return lf.file.Close()
}
