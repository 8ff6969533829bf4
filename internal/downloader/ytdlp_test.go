package downloader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSnapshotDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "existing.mp3")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	snapshot, err := snapshotDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if !snapshot["existing.mp3"] {
		t.Error("expected existing.mp3 in snapshot")
	}
	if snapshot["sub"] {
		t.Error("directories should not appear in snapshot")
	}
}

func TestSnapshotDir_MissingDirIsEmpty(t *testing.T) {
	snapshot, err := snapshotDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot) != 0 {
		t.Errorf("expected empty snapshot, got %d entries", len(snapshot))
	}
}

func TestDiffDir_FindsNewFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.mp3")

	before, err := snapshotDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := writeFile(t, dir, "New Song.mp3")

	got, err := diffDir(dir, before)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("diffDir() = %q, want %q", got, want)
	}
}

func TestDiffDir_PrefersMP3(t *testing.T) {
	dir := t.TempDir()
	before, err := snapshotDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "song.webm")
	want := writeFile(t, dir, "song.mp3")

	got, err := diffDir(dir, before)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("diffDir() = %q, want mp3 preferred", got)
	}
}

func TestDiffDir_IgnoresNonAudio(t *testing.T) {
	dir := t.TempDir()
	before, err := snapshotDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "song.mp3.part")
	writeFile(t, dir, "cover.jpg")

	if _, err := diffDir(dir, before); err == nil {
		t.Error("expected error when only non-audio files appeared")
	}
}

func TestDiffDir_DegradedExtension(t *testing.T) {
	dir := t.TempDir()
	before, err := snapshotDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := writeFile(t, dir, "song.opus")

	got, err := diffDir(dir, before)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("diffDir() = %q, want %q", got, want)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ERROR: video unavailable\nmore context", "ERROR: video unavailable"},
		{"single line", "single line"},
		{"  padded  \n", "padded"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
