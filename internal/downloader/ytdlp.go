package downloader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Wortexhf/spotify-downloader/internal/core"
)

// audioExtensions are container extensions the extractor may emit when the
// mp3 postprocessing step is unavailable on the host.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".opus": true,
	".ogg":  true,
	".webm": true,
	".aac":  true,
	".flac": true,
	".wav":  true,
}

// YTDLP drives the yt-dlp binary to search for and extract audio.
type YTDLP struct {
	binaryPath string
	bitrate    string
	logger     *zap.Logger
}

func NewYTDLP(binaryPath, bitrate string, logger *zap.Logger) *YTDLP {
	return &YTDLP{
		binaryPath: binaryPath,
		bitrate:    bitrate,
		logger:     logger,
	}
}

// Download searches the backend for query, extracts the best match as mp3
// into outputDir and returns the resulting file. The backend reports the
// final output path on stdout; if that report is missing or unusable the
// output directory is diffed against a pre-run snapshot instead.
func (y *YTDLP) Download(ctx context.Context, query, outputDir string) (*core.AudioResult, error) {
	before, err := snapshotDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot output dir: %w", err)
	}

	args := []string{
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", y.bitrate + "K",
		"--no-playlist",
		"--no-simulate",
		"--print", "after_move:filepath",
		"-o", filepath.Join(outputDir, "%(title)s.%(ext)s"),
		"ytsearch1:" + query,
	}

	cmd := exec.CommandContext(ctx, y.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	y.logger.Debug("Running audio extraction",
		zap.String("query", query),
		zap.String("outputDir", outputDir))

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, firstLine(stderr.String()))
	}

	path := strings.TrimSpace(stdout.String())
	if path == "" || !fileExists(path) {
		path, err = diffDir(outputDir, before)
		if err != nil {
			return nil, fmt.Errorf("no output file found: %w", err)
		}
		y.logger.Debug("Recovered output path from directory diff",
			zap.String("path", path))
	}

	result := &core.AudioResult{Path: path}
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		result.Degraded = true
		y.logger.Warn("Extractor produced non-mp3 output, delivering as-is",
			zap.String("path", path),
			zap.String("ext", filepath.Ext(path)))
	}

	y.logger.Info("Audio extracted",
		zap.String("query", query),
		zap.String("path", result.Path),
		zap.Bool("degraded", result.Degraded))

	return result, nil
}

// snapshotDir records the file names currently in dir. A missing dir is
// treated as empty so the first download in a fresh request dir works.
func snapshotDir(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}

	snapshot := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			snapshot[entry.Name()] = true
		}
	}
	return snapshot, nil
}

// diffDir returns the path of the audio file that appeared in dir since the
// snapshot was taken. Partial artifacts like .part files are ignored.
func diffDir(dir string, before map[string]bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || before[entry.Name()] {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			candidates = append(candidates, entry.Name())
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no new audio file in %s", dir)
	}

	// Prefer an mp3 when the postprocessor ran but the path report did not.
	for _, name := range candidates {
		if strings.EqualFold(filepath.Ext(name), ".mp3") {
			return filepath.Join(dir, name), nil
		}
	}
	return filepath.Join(dir, candidates[0]), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}
