package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary: opening, reading, writing, seeking, flushing, or
	// stat-ing a log file, creating a directory, or copying a file during
	// compaction.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories — the taxonomy's catch-all "Unexpected" kind.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in an append-only log file set.
const (
	// ErrorCodeCorrupted indicates a record failed its checksum or could not
	// be deserialized (short read, unparseable file id).
	ErrorCodeCorrupted ErrorCode = "CORRUPTED_DATA"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the
	// 20-byte record header.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the key or value
	// bytes of a record after successfully reading its header.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that a recovery scan over a log file
	// could not complete.
	ErrorCodeRecoveryFailed ErrorCode = "RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes.
const (
	// ErrorCodeIndexKeyNotFound indicates an XX put or other operation that
	// required an existing key found none.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexKeyExists indicates an NX put found a live (non-tombstone) key.
	ErrorCodeIndexKeyExists ErrorCode = "INDEX_KEY_EXISTS"

	// ErrorCodeIndexInvalidFileID indicates an index entry referenced a file
	// id that is not present in the owning file set.
	ErrorCodeIndexInvalidFileID ErrorCode = "INDEX_INVALID_FILE_ID"

	// ErrorCodeIndexCorrupted indicates the in-memory index structure itself
	// is in an inconsistent state.
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"
)
