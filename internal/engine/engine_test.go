package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignite/internal/compaction"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
)

func newTestEngine(t *testing.T, dir string) *Engine {
	t.Helper()

	opts, err := options.Build(
		options.WithDataDir(dir),
		options.WithRolloverThreshold(options.MinRolloverThreshold),
		options.WithLogger(logger.Noop()),
	)
	if err != nil {
		t.Fatalf("options.Build() error = %v", err)
	}

	e, err := New(context.Background(), &Config{Options: opts, Logger: logger.Noop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func mustGet(t *testing.T, e *Engine, key string) ([]byte, bool) {
	t.Helper()
	value, ok, err := e.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", key, err)
	}
	return value, ok
}

// Scenario A: put/get, delete, size.
func TestEngine_ScenarioA(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	if err := e.Put("a", []byte("1"), PutOptions{}); err != nil {
		t.Fatalf("Put(a) error = %v", err)
	}
	if err := e.Put("b", []byte("2"), PutOptions{}); err != nil {
		t.Fatalf("Put(b) error = %v", err)
	}

	if v, ok := mustGet(t, e, "a"); !ok || string(v) != "1" {
		t.Fatalf("Get(a) = (%q, %v), want (1, true)", v, ok)
	}
	if v, ok := mustGet(t, e, "b"); !ok || string(v) != "2" {
		t.Fatalf("Get(b) = (%q, %v), want (2, true)", v, ok)
	}

	if err := e.Delete("a"); err != nil {
		t.Fatalf("Delete(a) error = %v", err)
	}
	if _, ok := mustGet(t, e, "a"); ok {
		t.Fatal("Get(a) after Delete should be absent")
	}

	size, err := e.Size()
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if size != 2 {
		t.Fatalf("Size() = %d, want 2", size)
	}
}

// Scenario B: NX/XX conditional writes against an existing live key.
func TestEngine_ScenarioB(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	if err := e.Put("k", []byte("v1"), PutOptions{}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	err := e.Put("k", []byte("v2"), PutOptions{NX: true})
	if _, ok := err.(*errors.KeyExistsError); !ok {
		t.Fatalf("Put(nx) over a live key = %v, want KeyExistsError", err)
	}

	if err := e.Put("k", []byte("v3"), PutOptions{XX: true}); err != nil {
		t.Fatalf("Put(xx) error = %v", err)
	}

	if v, ok := mustGet(t, e, "k"); !ok || string(v) != "v3" {
		t.Fatalf("Get(k) = (%q, %v), want (v3, true)", v, ok)
	}
}

// Scenario C: XX against an absent key, then NX twice.
func TestEngine_ScenarioC(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	err := e.Put("k", []byte("v1"), PutOptions{XX: true})
	if _, ok := err.(*errors.KeyNotFoundError); !ok {
		t.Fatalf("Put(xx) over an absent key = %v, want KeyNotFoundError", err)
	}

	if err := e.Put("k", []byte("v1"), PutOptions{NX: true}); err != nil {
		t.Fatalf("Put(nx) over an absent key error = %v", err)
	}

	err = e.Put("k", []byte("v2"), PutOptions{NX: true})
	if _, ok := err.(*errors.KeyExistsError); !ok {
		t.Fatalf("second Put(nx) = %v, want KeyExistsError", err)
	}
}

// Scenario D: rollover produces two files, both retrievable.
func TestEngine_ScenarioD_Rollover(t *testing.T) {
	dir := t.TempDir()
	opts, err := options.Build(
		options.WithDataDir(dir),
		options.WithRolloverThreshold(options.MinRolloverThreshold),
		options.WithLogger(logger.Noop()),
	)
	if err != nil {
		t.Fatalf("options.Build() error = %v", err)
	}
	e, err := New(context.Background(), &Config{Options: opts, Logger: logger.Noop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })

	big := bytes.Repeat([]byte("x"), int(options.MinRolloverThreshold))
	if err := e.Put("first", big, PutOptions{}); err != nil {
		t.Fatalf("Put(first) error = %v", err)
	}
	if err := e.Put("second", []byte("small"), PutOptions{}); err != nil {
		t.Fatalf("Put(second) error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "0.ignite")); err != nil {
		t.Fatalf("expected 0.ignite to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1.ignite")); err != nil {
		t.Fatalf("expected 1.ignite to exist after rollover: %v", err)
	}

	if v, ok := mustGet(t, e, "first"); !ok || !bytes.Equal(v, big) {
		t.Fatal("Get(first) did not return the original large value")
	}
	if v, ok := mustGet(t, e, "second"); !ok || string(v) != "small" {
		t.Fatalf("Get(second) = (%q, %v), want (small, true)", v, ok)
	}
}

// Scenario E: compaction drops tombstones and superseded writes.
func TestEngine_ScenarioE_Compaction(t *testing.T) {
	srcDir := t.TempDir()
	e := newTestEngine(t, srcDir)

	if err := e.Put("x", []byte("1"), PutOptions{}); err != nil {
		t.Fatalf("Put(x) error = %v", err)
	}
	if err := e.Put("y", []byte("2"), PutOptions{}); err != nil {
		t.Fatalf("Put(y) error = %v", err)
	}
	if err := e.Delete("x"); err != nil {
		t.Fatalf("Delete(x) error = %v", err)
	}

	newDir := filepath.Join(t.TempDir(), "compacted")
	if err := e.CompactTo(context.Background(), newDir); err != nil {
		t.Fatalf("CompactTo() error = %v", err)
	}
	if e.Phase() != compaction.PhaseNormal {
		t.Fatalf("Phase() after CompactTo = %v, want PhaseNormal", e.Phase())
	}

	if _, err := os.Stat(filepath.Join(newDir, "0.ignite")); err != nil {
		t.Fatalf("expected compacted dir to contain 0.ignite: %v", err)
	}

	if _, ok := mustGet(t, e, "x"); ok {
		t.Fatal("Get(x) after compaction should still be absent")
	}
	if v, ok := mustGet(t, e, "y"); !ok || string(v) != "2" {
		t.Fatalf("Get(y) after compaction = (%q, %v), want (2, true)", v, ok)
	}

	size, err := e.Size()
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if size != 1 {
		t.Fatalf("Size() after compaction = %d, want 1", size)
	}
}

// Property 5: durability across reopen.
func TestEngine_DurabilityAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	e1 := newTestEngine(t, dir)
	if err := e1.Put("k", []byte("v"), PutOptions{}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := e1.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := e1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	e2 := newTestEngine(t, dir)
	if v, ok := mustGet(t, e2, "k"); !ok || string(v) != "v" {
		t.Fatalf("Get(k) after reopen = (%q, %v), want (v, true)", v, ok)
	}
	if _, ok := mustGet(t, e2, "gone"); ok {
		t.Fatal("Get(gone) after reopen should remain absent")
	}
}

// Property 9: CRC detects corruption on the next open.
func TestEngine_CRCDetectsCorruption(t *testing.T) {
	dir := t.TempDir()

	e := newTestEngine(t, dir)
	if err := e.Put("k", []byte("value"), PutOptions{}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	path := filepath.Join(dir, "0.ignite")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	opts, err := options.Build(options.WithDataDir(dir), options.WithLogger(logger.Noop()))
	if err != nil {
		t.Fatalf("options.Build() error = %v", err)
	}
	if _, err := New(context.Background(), &Config{Options: opts, Logger: logger.Noop()}); err == nil {
		t.Fatal("New() should fail to recover a directory with a corrupted value")
	}
}

func TestEngine_CloseIsIdempotent(t *testing.T) {
	opts, err := options.Build(options.WithDataDir(t.TempDir()), options.WithLogger(logger.Noop()))
	if err != nil {
		t.Fatalf("options.Build() error = %v", err)
	}
	e, err := New(context.Background(), &Config{Options: opts, Logger: logger.Noop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close() should be a no-op, got error = %v", err)
	}

	if _, _, err := e.Get("k"); err != ErrEngineClosed {
		t.Fatalf("Get() after Close() = %v, want ErrEngineClosed", err)
	}
}
