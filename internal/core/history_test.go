package core

import (
	"fmt"
	"testing"
)

func TestHistoryBufferEvictsOldestFirst(t *testing.T) {
	buf := NewHistoryBuffer(3)

	for i := 1; i <= 3; i++ {
		if evicted := buf.Append(&Message{ID: int64(i)}); evicted != nil {
			t.Fatalf("no eviction expected at %d, got %v", i, evicted.ID)
		}
	}
	if buf.Len() != 3 {
		t.Fatalf("expected len 3, got %d", buf.Len())
	}

	evicted := buf.Append(&Message{ID: 4})
	if evicted == nil || evicted.ID != 1 {
		t.Fatalf("expected message 1 evicted, got %+v", evicted)
	}
	if buf.Len() != 3 {
		t.Fatalf("capacity must hold after eviction, got %d", buf.Len())
	}

	snap := buf.Snapshot()
	for i, want := range []int64{2, 3, 4} {
		if snap[i].ID != want {
			t.Fatalf("order broken at %d: got %d want %d", i, snap[i].ID, want)
		}
	}
}

func TestHistoryBufferSnapshotIsACopy(t *testing.T) {
	buf := NewHistoryBuffer(2)
	buf.Append(&Message{ID: 1})

	snap := buf.Snapshot()
	buf.Append(&Message{ID: 2})
	buf.Append(&Message{ID: 3}) // evicts 1

	if len(snap) != 1 || snap[0].ID != 1 {
		t.Fatalf("snapshot changed retroactively: %+v", snap)
	}
}

func TestHistoryBufferNeverExceedsCapacity(t *testing.T) {
	buf := NewHistoryBuffer(100)
	for i := 0; i < 250; i++ {
		buf.Append(&Message{ID: int64(i), Text: fmt.Sprintf("m%d", i)})
		if buf.Len() > 100 {
			t.Fatalf("capacity exceeded at %d: %d", i, buf.Len())
		}
	}
	snap := buf.Snapshot()
	if snap[0].ID != 150 || snap[99].ID != 249 {
		t.Fatalf("unexpected window: head %d tail %d", snap[0].ID, snap[99].ID)
	}
}
