package engine

import (
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/internal/compaction"
	"github.com/iamNilotpal/ignite/internal/fileset"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

// Engine coordinates one file set and one index to implement the storage
// engine's get/put/delete/size/compact operations. It is a single-owner
// object: its methods are not internally synchronized. Callers sharing an
// Engine across goroutines wrap it in their own readers-writer discipline
// — get/size need shared access, put/delete/compact_to need exclusive
// access — per this package's documented concurrency contract.
type Engine struct {
	opts *options.Options
	log  *zap.SugaredLogger

	closed atomic.Bool

	// phaseMu guards phase, which compaction transitions through and
	// callers may read for observability via Phase().
	phaseMu sync.Mutex
	phase   compaction.Phase

	idx *index.Index
	fs  *fileset.FileSet
}

// Config holds the parameters needed to construct an Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// PutOptions selects the conditional-write behavior of Put. At most one of
// NX/XX should be set; both false means an unconditional upsert.
type PutOptions struct {
	// NX requires the key to be absent (or tombstoned) before the write.
	NX bool
	// XX requires the key to be present and live before the write.
	XX bool
}
