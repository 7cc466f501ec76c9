// Package options provides functional-options configuration for the
// storage engine: data directory, log-file rollover threshold, file
// extension, and logger. There is no environment-variable or config-file
// loading here — the engine is a library with a programmatic configuration
// surface only; options are validated eagerly, at construction time.
package options

import (
	"strings"

	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"go.uber.org/zap"
)

// Options holds every configurable parameter of the storage engine.
type Options struct {
	// DataDir is the directory log files live in.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// RolloverThreshold is the active-file size, in bytes, past which the
	// file set rolls over to a fresh active file.
	//
	//  - Default: 1GiB
	//  - Minimum: 1MB
	//  - Maximum: 4GB
	RolloverThreshold uint64 `json:"rolloverThreshold"`

	// FileExtension is the fixed suffix every log file name carries, e.g.
	// a file with id 3 and extension "ignite" is named "3.ignite".
	//
	// Default: "ignite"
	FileExtension string `json:"fileExtension"`

	// Logger receives structured logs from every engine subsystem.
	Logger *zap.SugaredLogger `json:"-"`
}

// OptionFunc modifies an in-progress Options value.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its default value.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		defaults := NewDefaultOptions()
		o.DataDir = defaults.DataDir
		o.RolloverThreshold = defaults.RolloverThreshold
		o.FileExtension = defaults.FileExtension
	}
}

// WithDataDir sets the directory log files are stored in.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithRolloverThreshold sets the active-file size that triggers a rollover.
func WithRolloverThreshold(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinRolloverThreshold && size <= MaxRolloverThreshold {
			o.RolloverThreshold = size
		}
	}
}

// WithFileExtension sets the fixed extension log file names carry.
func WithFileExtension(extension string) OptionFunc {
	return func(o *Options) {
		extension = strings.TrimSpace(strings.TrimPrefix(extension, "."))
		if extension != "" {
			o.FileExtension = extension
		}
	}
}

// WithLogger sets the structured logger passed to every engine subsystem.
func WithLogger(log *zap.SugaredLogger) OptionFunc {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

// Build applies opts over the defaults and validates the result.
func Build(opts ...OptionFunc) (*Options, error) {
	o := NewDefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.Logger == nil {
		o.Logger = logger.Noop()
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate checks that every field holds an engine-usable value.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.DataDir) == "" {
		return errors.NewConfigurationValidationError("dataDir", "must not be empty")
	}
	if o.RolloverThreshold < MinRolloverThreshold || o.RolloverThreshold > MaxRolloverThreshold {
		return errors.NewFieldRangeError(
			"rolloverThreshold", o.RolloverThreshold, MinRolloverThreshold, MaxRolloverThreshold,
		)
	}
	if strings.TrimSpace(o.FileExtension) == "" {
		return errors.NewConfigurationValidationError("fileExtension", "must not be empty")
	}
	return nil
}
