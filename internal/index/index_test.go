package index

import (
	"context"
	"testing"

	"github.com/iamNilotpal/ignite/pkg/logger"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(context.Background(), &Config{Logger: logger.Noop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndex_PutGet(t *testing.T) {
	idx := newTestIndex(t)

	entry := Entry{FileID: 1, ValueOffset: 20, ValueSize: 5}
	if _, existed, err := idx.Put("a", entry); err != nil || existed {
		t.Fatalf("Put() = (existed=%v, err=%v), want (false, nil)", existed, err)
	}

	got, ok, err := idx.Get("a")
	if err != nil || !ok || got != entry {
		t.Fatalf("Get() = (%v, %v, %v), want (%v, true, nil)", got, ok, err, entry)
	}

	if _, ok, _ := idx.Get("missing"); ok {
		t.Fatal("Get() of a missing key should report not found")
	}
}

func TestIndex_PutReplacesAndReturnsPrevious(t *testing.T) {
	idx := newTestIndex(t)

	first := Entry{FileID: 1, ValueOffset: 20, ValueSize: 5}
	second := Entry{FileID: 1, ValueOffset: 40, ValueSize: 7}

	if _, _, err := idx.Put("k", first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	previous, existed, err := idx.Put("k", second)
	if err != nil || !existed || previous != first {
		t.Fatalf("Put() = (%v, %v, %v), want (%v, true, nil)", previous, existed, err, first)
	}

	got, _, _ := idx.Get("k")
	if got != second {
		t.Fatalf("Get() after replace = %v, want %v", got, second)
	}
}

func TestIndex_Delete(t *testing.T) {
	idx := newTestIndex(t)

	entry := Entry{FileID: 1, ValueOffset: 20, ValueSize: 5}
	if _, _, err := idx.Put("k", entry); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	previous, existed, err := idx.Delete("k")
	if err != nil || !existed || previous != entry {
		t.Fatalf("Delete() = (%v, %v, %v), want (%v, true, nil)", previous, existed, err, entry)
	}

	if _, ok, _ := idx.Get("k"); ok {
		t.Fatal("Get() after Delete() should report not found")
	}

	if size, _ := idx.Size(); size != 0 {
		t.Fatalf("Size() after Delete() = %d, want 0", size)
	}
}

func TestIndex_SizeCountsTombstones(t *testing.T) {
	idx := newTestIndex(t)

	if _, _, err := idx.Put("k", Entry{FileID: 1, ValueOffset: 20, ValueSize: 5}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	// A live tombstone is a zero-size Put, not a Delete.
	if _, _, err := idx.Put("k", Entry{FileID: 2, ValueOffset: 20, ValueSize: 0}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	size, err := idx.Size()
	if err != nil || size != 1 {
		t.Fatalf("Size() = (%d, %v), want (1, nil)", size, err)
	}

	got, ok, _ := idx.Get("k")
	if !ok || !got.IsTombstone() {
		t.Fatal("tombstoned key should remain present with IsTombstone() true")
	}
}

func TestIndex_AllIteratesInAscendingKeyOrder(t *testing.T) {
	idx := newTestIndex(t)

	keys := []string{"banana", "apple", "cherry", "date"}
	for i, k := range keys {
		if _, _, err := idx.Put(k, Entry{FileID: 0, ValueOffset: int64(i), ValueSize: 1}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	all, err := idx.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	var seen []string
	for k := range all {
		seen = append(seen, k)
	}

	want := []string{"apple", "banana", "cherry", "date"}
	if len(seen) != len(want) {
		t.Fatalf("iterated %d keys, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("iteration order = %v, want %v", seen, want)
		}
	}
}

func TestIndex_CloseIsIdempotent(t *testing.T) {
	idx, err := New(context.Background(), &Config{Logger: logger.Noop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := idx.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("second Close() should be a no-op, got error = %v", err)
	}
}

func TestIndex_OperationsAfterCloseFail(t *testing.T) {
	idx, err := New(context.Background(), &Config{Logger: logger.Noop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, _, err := idx.Get("k"); err != ErrIndexClosed {
		t.Fatalf("Get() after Close() = %v, want ErrIndexClosed", err)
	}
	if _, _, err := idx.Put("k", Entry{}); err != ErrIndexClosed {
		t.Fatalf("Put() after Close() = %v, want ErrIndexClosed", err)
	}
}
