package store

import (
	"fmt"
	"testing"
)

func TestSeenStore_Basic(t *testing.T) {
	store := NewSeenStore(100, 0.001)

	if store.Seen("chat1:msg1") {
		t.Error("empty store should not report any key as seen")
	}
	if store.Size() != 0 {
		t.Errorf("Size() = %d, want 0", store.Size())
	}

	store.Mark("chat1:msg1")

	if !store.Seen("chat1:msg1") {
		t.Error("marked key should be reported as seen")
	}
	if store.Seen("chat1:msg2") {
		t.Error("unmarked key should not be reported as seen")
	}
	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1", store.Size())
	}
}

func TestSeenStore_MarkIsIdempotent(t *testing.T) {
	store := NewSeenStore(100, 0.001)

	store.Mark("chat1:msg1")
	store.Mark("chat1:msg1")
	store.Mark("chat1:msg1")

	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1 after repeated marks", store.Size())
	}
}

func TestSeenStore_EvictsOldestAtCapacity(t *testing.T) {
	store := NewSeenStore(10, 0.001)

	for i := 0; i < 15; i++ {
		store.Mark(fmt.Sprintf("chat1:msg%d", i))
	}

	if store.Size() != 10 {
		t.Errorf("Size() = %d, want 10", store.Size())
	}
	if store.Seen("chat1:msg0") {
		t.Error("oldest key should have been evicted")
	}
	if !store.Seen("chat1:msg14") {
		t.Error("newest key should still be present")
	}
}
