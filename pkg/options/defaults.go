package options

const (
	// DefaultDataDir is the base directory used when no data directory is
	// supplied via WithDataDir.
	DefaultDataDir = "/var/lib/ignitedb"

	// MinRolloverThreshold is the smallest allowed active-file size before
	// a rollover is considered, in bytes (1MB).
	MinRolloverThreshold uint64 = 1 * 1024 * 1024

	// MaxRolloverThreshold is the largest allowed active-file size before
	// a rollover is considered, in bytes (4GB).
	MaxRolloverThreshold uint64 = 4 * 1024 * 1024 * 1024

	// DefaultRolloverThreshold is the size, in bytes, at which a log file
	// is rolled over to a fresh active file (1GiB, per the on-disk format).
	DefaultRolloverThreshold uint64 = 1 * 1024 * 1024 * 1024

	// DefaultFileExtension is the extension every log file name carries.
	DefaultFileExtension = "ignite"
)

// defaultOptions holds the baseline configuration applied before any
// OptionFunc runs.
var defaultOptions = Options{
	DataDir:           DefaultDataDir,
	RolloverThreshold: DefaultRolloverThreshold,
	FileExtension:     DefaultFileExtension,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
