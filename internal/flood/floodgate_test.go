package flood

import (
	"testing"
	"time"
)

func newTestGate(limit int) (*Floodgate, *time.Time) {
	fg := New(limit)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fg.now = func() time.Time { return current }
	return fg, &current
}

func TestAllowRequest_UnderLimit(t *testing.T) {
	fg, _ := newTestGate(3)
	defer fg.Stop()

	for i := 0; i < 3; i++ {
		if !fg.AllowRequest("chat1", "user1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestAllowRequest_BlocksOverLimit(t *testing.T) {
	fg, _ := newTestGate(2)
	defer fg.Stop()

	fg.AllowRequest("chat1", "user1")
	fg.AllowRequest("chat1", "user1")

	if fg.AllowRequest("chat1", "user1") {
		t.Error("third request within the window should be blocked")
	}
}

func TestAllowRequest_WindowSlides(t *testing.T) {
	fg, clock := newTestGate(1)
	defer fg.Stop()

	if !fg.AllowRequest("chat1", "user1") {
		t.Fatal("first request should be allowed")
	}
	if fg.AllowRequest("chat1", "user1") {
		t.Fatal("second request should be blocked")
	}

	*clock = clock.Add(windowDuration + time.Second)

	if !fg.AllowRequest("chat1", "user1") {
		t.Error("request after the window passed should be allowed")
	}
}

func TestAllowRequest_IndependentBudgets(t *testing.T) {
	fg, _ := newTestGate(1)
	defer fg.Stop()

	fg.AllowRequest("chat1", "user1")

	if !fg.AllowRequest("chat1", "user2") {
		t.Error("other users should have their own budget")
	}
	if !fg.AllowRequest("chat2", "user1") {
		t.Error("same user in another chat should have their own budget")
	}
}

func TestSweep_RemovesIdleRequesters(t *testing.T) {
	fg, clock := newTestGate(5)
	defer fg.Stop()

	fg.AllowRequest("chat1", "user1")
	*clock = clock.Add(idleTimeout + time.Minute)
	fg.AllowRequest("chat1", "user2")

	fg.sweep()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()
	if _, ok := fg.requesters["chat1:user1"]; ok {
		t.Error("idle requester should be swept")
	}
	if _, ok := fg.requesters["chat1:user2"]; !ok {
		t.Error("active requester should be kept")
	}
}
