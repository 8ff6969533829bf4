package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestCoverClient_Fetch(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != coverUserAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "cover.jpg")
	client := NewCoverClient(zap.NewNop())

	got, err := client.Fetch(context.Background(), server.URL, dest)
	if err != nil {
		t.Fatal(err)
	}
	if got != dest {
		t.Errorf("Fetch() = %q, want %q", got, dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(payload) {
		t.Error("downloaded content does not match served payload")
	}
}

func TestCoverClient_Fetch_EmptyURL(t *testing.T) {
	client := NewCoverClient(zap.NewNop())
	if _, err := client.Fetch(context.Background(), "", filepath.Join(t.TempDir(), "c.jpg")); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestCoverClient_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "cover.jpg")
	client := NewCoverClient(zap.NewNop())

	if _, err := client.Fetch(context.Background(), server.URL, dest); err == nil {
		t.Error("expected error for 404 response")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should remain after a failed fetch")
	}
}
