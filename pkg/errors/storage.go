package errors

// StorageError is a specialized error type for log-file and file-set
// operations. It embeds baseError to inherit the standard error
// functionality, then adds fields that pinpoint exactly where on disk a
// problem occurred.
type StorageError struct {
	*baseError
	fileID   uint64 // Which log file was being accessed when the error occurred.
	offset   int64  // Byte offset within the file where the problem happened.
	fileName string // Name of the file that caused the issue.
	path     string // Path of the file that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithCode sets the error code while preserving the StorageError type.
func (se *StorageError) WithCode(code ErrorCode) *StorageError {
	se.baseError.WithCode(code)
	return se
}

// WithDetail adds contextual information while maintaining the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithFileID sets which log file was involved in the error.
func (se *StorageError) WithFileID(id uint64) *StorageError {
	se.fileID = id
	return se
}

// WithOffset records the byte position where the error occurred.
func (se *StorageError) WithOffset(offset int64) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// FileID returns the log file identifier where the error occurred.
func (se *StorageError) FileID() uint64 {
	return se.fileID
}

// Offset returns the byte offset within the file where the error happened.
// Combined with FileID, this gives you the exact location of the problem.
func (se *StorageError) Offset() int64 {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}
