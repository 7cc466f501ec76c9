package errors

// CorruptionError reports a record that failed deserialization or checksum
// validation — the taxonomy's "Corrupted data" kind. It always carries a
// human-readable cause string in addition to the wrapped error, per the
// record codec's contract.
type CorruptionError struct {
	*baseError
	fileID uint64
	offset int64
}

// NewCorruptionError creates a corruption error with a descriptive message.
func NewCorruptionError(err error, msg string) *CorruptionError {
	return &CorruptionError{baseError: NewBaseError(err, ErrorCodeCorrupted, msg)}
}

// WithCode sets the error code while preserving the CorruptionError type.
func (ce *CorruptionError) WithCode(code ErrorCode) *CorruptionError {
	ce.baseError.WithCode(code)
	return ce
}

// WithDetail adds contextual information while maintaining the CorruptionError type.
func (ce *CorruptionError) WithDetail(key string, value any) *CorruptionError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithFileID records which log file the corrupt record was read from.
func (ce *CorruptionError) WithFileID(id uint64) *CorruptionError {
	ce.fileID = id
	return ce
}

// WithOffset records the byte offset of the corrupt record within its file.
func (ce *CorruptionError) WithOffset(offset int64) *CorruptionError {
	ce.offset = offset
	return ce
}

// FileID returns the log file identifier the corrupt record was read from.
func (ce *CorruptionError) FileID() uint64 {
	return ce.fileID
}

// Offset returns the byte offset of the corrupt record within its file.
func (ce *CorruptionError) Offset() int64 {
	return ce.offset
}

// KeyExistsError reports that an NX put found a live, non-tombstone key.
type KeyExistsError struct {
	*baseError
	key string
}

// NewKeyExistsError creates a KeyExists error for the given key.
func NewKeyExistsError(key string) *KeyExistsError {
	return &KeyExistsError{
		baseError: NewBaseError(nil, ErrorCodeIndexKeyExists, "key already exists"),
		key:       key,
	}
}

// Key returns the key that already existed.
func (ke *KeyExistsError) Key() string {
	return ke.key
}

// KeyNotFoundError reports that an XX put, or any other operation requiring
// an existing live key, found none.
type KeyNotFoundError struct {
	*baseError
	key string
}

// NewKeyNotFoundError creates a KeyNotFound error for the given key.
func NewKeyNotFoundError(key string) *KeyNotFoundError {
	return &KeyNotFoundError{
		baseError: NewBaseError(nil, ErrorCodeIndexKeyNotFound, "key not found"),
		key:       key,
	}
}

// Key returns the key that was not found.
func (ke *KeyNotFoundError) Key() string {
	return ke.key
}
