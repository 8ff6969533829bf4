package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Wortexhf/spotify-downloader/internal/chat"
)

// fakeFrontend records every outbound call so tests can assert on the
// message flow without a live bot.
type fakeFrontend struct {
	mu         sync.Mutex
	nextMsgID  int
	texts      []string
	edits      []string
	deleted    []string
	photos     []string
	audios     []*chat.AudioFile
	audioErr   error
	photoErr   error
	sendErr    error
	msgHandler func(*chat.Message)
}

func (f *fakeFrontend) Start(context.Context) error { return nil }

func (f *fakeFrontend) Listen(ctx context.Context, handler func(*chat.Message)) error {
	f.msgHandler = handler
	<-ctx.Done()
	return nil
}

func (f *fakeFrontend) SendText(_ context.Context, _, _, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextMsgID++
	f.texts = append(f.texts, text)
	return strconv.Itoa(f.nextMsgID), nil
}

func (f *fakeFrontend) EditMessage(_ context.Context, _, _, newText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, newText)
	return nil
}

func (f *fakeFrontend) DeleteMessage(_ context.Context, _, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeFrontend) SendPhoto(_ context.Context, _, photoPath, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.photoErr != nil {
		return f.photoErr
	}
	f.photos = append(f.photos, photoPath)
	return nil
}

func (f *fakeFrontend) SendAudio(_ context.Context, _ string, audio *chat.AudioFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.audioErr != nil {
		return f.audioErr
	}
	f.audios = append(f.audios, audio)
	return nil
}

// fakeCover writes a stub file unless err is set.
type fakeCover struct {
	err   error
	calls int
}

func (f *fakeCover) Fetch(_ context.Context, _, dest string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err := os.WriteFile(dest, []byte("jpeg"), 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

// fakeAudio writes a stub mp3 unless err is set, or fails for the listed
// queries.
type fakeAudio struct {
	err      error
	failFor  map[string]bool
	degraded bool
	queries  []string
}

func (f *fakeAudio) Download(_ context.Context, query, outputDir string) (*AudioResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if f.failFor[query] {
		return nil, fmt.Errorf("no rendition found for %q", query)
	}
	ext := ".mp3"
	if f.degraded {
		ext = ".opus"
	}
	path := filepath.Join(outputDir, "audio"+ext)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return nil, err
	}
	return &AudioResult{Path: path, Degraded: f.degraded}, nil
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_, _ string, _ *TrackRecord) error {
	f.calls++
	return f.err
}

// fakeRecorder counts recorder callbacks.
type fakeRecorder struct {
	mu         sync.Mutex
	started    int
	finished   map[string]int
	batchItems map[string]int
	errors     map[string]int
	requests   map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		finished:   make(map[string]int),
		batchItems: make(map[string]int),
		errors:     make(map[string]int),
		requests:   make(map[string]int),
	}
}

func (f *fakeRecorder) Request(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[kind]++
}

func (f *fakeRecorder) DeliveryStarted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
}

func (f *fakeRecorder) DeliveryFinished(status string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished[status]++
}

func (f *fakeRecorder) BatchItem(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchItems[status]++
}

func (f *fakeRecorder) ComponentError(component string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[component]++
}

func stubThumbnailer(coverPath string) (string, error) {
	return coverPath, nil
}

func testDownloadConfig(dir string) *DownloadConfig {
	return &DownloadConfig{
		Dir:              dir,
		BinaryPath:       "yt-dlp",
		AudioBitrate:     "192",
		ItemTimeoutSecs:  300,
		BatchDelaySecs:   0,
		CleanupDelaySecs: 0,
	}
}
