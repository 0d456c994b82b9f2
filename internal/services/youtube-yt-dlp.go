package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/sangnt1552314/ytbeat/internal/models"
)

// CommandRunner runs an external program and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		slog.Warn("command failed", slog.String("cmd", name), slog.String("stderr", string(exitErr.Stderr)))
	}
	return out, err
}

// YtDlpSearcher searches through the yt-dlp CLI; it needs no API key.
type YtDlpSearcher struct {
	path string
	run  CommandRunner
}

func NewYtDlpSearcher(path string) *YtDlpSearcher {
	return &YtDlpSearcher{path: path, run: execRunner}
}

func (s *YtDlpSearcher) SearchTracks(ctx context.Context, query string, maxResults int) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if maxResults <= 0 || maxResults > maxAPIResults {
		maxResults = DefaultMaxResults
	}

	args := []string{
		"--no-warnings",
		"--no-playlist",
		"--skip-download",
		"--quiet",
		"-j",
		fmt.Sprintf("ytsearch%d:%s", maxResults, query+querySuffix),
	}

	stdout, err := s.run(ctx, s.path, args...)
	if err != nil {
		slog.Warn("yt-dlp search failed", slog.String("query", query), slog.Any("error", err))
		return nil, fmt.Errorf("%w: yt-dlp: %w", ErrSearchFailed, err)
	}

	tracks := []models.Track{}
	for _, line := range bytes.Split(stdout, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var item models.YtDlpVideoResponse
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("%w: decode yt-dlp output: %w", ErrSearchFailed, err)
		}
		tracks = append(tracks, item.Track())
	}

	return tracks, nil
}

// YtDlpResolver asks yt-dlp for the direct URL of the best audio stream.
type YtDlpResolver struct {
	path string
	run  CommandRunner
}

func NewYtDlpResolver(path string) *YtDlpResolver {
	return &YtDlpResolver{path: path, run: execRunner}
}

func (r *YtDlpResolver) Resolve(ctx context.Context, videoID string) (string, error) {
	out, err := r.run(ctx, r.path, "--no-warnings", "-f", "bestaudio", "-g", WatchURL(videoID))
	if err != nil {
		return "", fmt.Errorf("yt-dlp resolve %s: %w", videoID, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("yt-dlp resolve %s: empty output", videoID)
}
