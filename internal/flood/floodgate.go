// Package flood rate-limits download requests per user to keep a single
// chat member from monopolizing the pipeline.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the sliding window for request counting
	windowDuration = 60 * time.Second
	// cleanupInterval is how often idle entries are swept
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long before an idle requester entry is removed
	idleTimeout = 10 * time.Minute
)

// Floodgate limits how many download requests a user may start per minute.
// Each chat counts separately, so a user active in two chats gets two
// independent budgets.
type Floodgate struct {
	limitPerMinute int
	requesters     map[string]*requesterEntry // key: "chatID:userID"
	mutex          sync.Mutex
	stopCleanup    chan struct{}

	now func() time.Time // injectable for tests
}

type requesterEntry struct {
	requests []time.Time // request timestamps inside the window
	lastSeen time.Time
}

// New creates a Floodgate allowing limitPerMinute requests per user per chat.
func New(limitPerMinute int) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		requesters:     make(map[string]*requesterEntry),
		stopCleanup:    make(chan struct{}),
		now:            time.Now,
	}

	go fg.cleanupLoop()

	return fg
}

// Stop terminates the background cleanup goroutine.
func (fg *Floodgate) Stop() {
	close(fg.stopCleanup)
}

// AllowRequest reports whether the user may start another download request
// now, recording the request when allowed.
func (fg *Floodgate) AllowRequest(chatID, userID string) bool {
	key := chatID + ":" + userID
	now := fg.now()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	entry, exists := fg.requesters[key]
	if !exists {
		entry = &requesterEntry{
			requests: make([]time.Time, 0, fg.limitPerMinute+1),
		}
		fg.requesters[key] = entry
	}

	entry.lastSeen = now

	windowStart := now.Add(-windowDuration)
	inWindow := entry.requests[:0]
	for _, ts := range entry.requests {
		if ts.After(windowStart) {
			inWindow = append(inWindow, ts)
		}
	}
	entry.requests = inWindow

	if len(entry.requests) >= fg.limitPerMinute {
		return false
	}

	entry.requests = append(entry.requests, now)
	return true
}

func (fg *Floodgate) cleanupLoop() {
	fg.sweep()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.sweep()
		case <-fg.stopCleanup:
			return
		}
	}
}

// sweep removes requesters that have been idle past the timeout.
func (fg *Floodgate) sweep() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for key, entry := range fg.requesters {
		if entry.lastSeen.Before(cutoff) {
			delete(fg.requesters, key)
		}
	}
}
