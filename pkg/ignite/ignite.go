// Package ignite provides a high-performance key/value data store designed
// for fast read and write operations, inspired by Bitcask. It combines an
// in-memory ordered index with an append-only log structure on disk to
// achieve high throughput.
//
// Instance is a thin, single-owner wrapper around internal/engine: it adds
// no concurrency discipline, transactions, TTLs, or background workers of
// its own — those are explicitly out of this store's scope, left to outer
// collaborators that choose to build them on top.
package ignite

import (
	"context"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
)

// Instance is the primary entry point for interacting with the Ignite
// store, providing methods for setting, getting, and deleting key-value
// pairs. It encapsulates the core engine responsible for data handling and
// the configuration options for this specific database instance.
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// NewInstance builds the engine's options from opts, bootstraps a logger
// tagged with service, and opens (or recovers) the configured data
// directory.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log, err := logger.New(service)
	if err != nil {
		return nil, err
	}

	built, err := options.Build(append([]options.OptionFunc{options.WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: built.Logger, Options: built})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: built}, nil
}

// Set stores a key-value pair in the database. If the key already exists,
// its value is overwritten. The write is durable by the time Set returns:
// it has been appended to the log and flushed.
func (i *Instance) Set(ctx context.Context, key string, value []byte) error {
	return i.engine.Put(key, value, engine.PutOptions{})
}

// SetNX stores key=value only if key is currently absent or tombstoned,
// failing with a KeyExistsError otherwise.
func (i *Instance) SetNX(ctx context.Context, key string, value []byte) error {
	return i.engine.Put(key, value, engine.PutOptions{NX: true})
}

// SetXX stores key=value only if key currently holds a live value, failing
// with a KeyNotFoundError otherwise.
func (i *Instance) SetXX(ctx context.Context, key string, value []byte) error {
	return i.engine.Put(key, value, engine.PutOptions{XX: true})
}

// Get retrieves the value associated with key. The returned bool reports
// whether the key was live; a false return (nil error) means absent or
// tombstoned, not a failure.
func (i *Instance) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return i.engine.Get(key)
}

// Delete removes a key-value pair from the database by appending a
// tombstone. It succeeds even if the key was already absent.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Delete(key)
}

// Size reports the number of keys tracked by the store's index, tombstones
// included until the next compaction.
func (i *Instance) Size() (int, error) {
	return i.engine.Size()
}

// Compact builds a fresh, dead-record-free copy of the store's data into
// newDir and swaps the instance over to it. The original directory is left
// untouched; the caller decides whether to remove it.
func (i *Instance) Compact(ctx context.Context, newDir string) error {
	return i.engine.CompactTo(ctx, newDir)
}

// Close gracefully shuts down the Ignite instance, releasing open file
// handles and in-memory index state.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
