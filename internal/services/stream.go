package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kkdai/youtube/v2"
)

// Resolver turns a video id into a URL the media player can open.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) (string, error)
}

// WatchURL is the public page address of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// KkdaiResolver picks the first format carrying audio and returns its
// stream URL.
type KkdaiResolver struct {
	client *youtube.Client
}

func NewKkdaiResolver() *KkdaiResolver {
	return &KkdaiResolver{client: &youtube.Client{}}
}

func (r *KkdaiResolver) Resolve(ctx context.Context, videoID string) (string, error) {
	video, err := r.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("failed to get video: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return "", fmt.Errorf("video %s has no audio formats", videoID)
	}

	url, err := r.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return "", fmt.Errorf("failed to get stream url: %w", err)
	}
	return url, nil
}

// DirectResolver hands mpv the watch page and lets its ytdl hook do the work.
type DirectResolver struct{}

func (DirectResolver) Resolve(_ context.Context, videoID string) (string, error) {
	if videoID == "" {
		return "", errors.New("empty video id")
	}
	return WatchURL(videoID), nil
}

// ChainResolver returns the first successful resolution.
type ChainResolver []Resolver

func (c ChainResolver) Resolve(ctx context.Context, videoID string) (string, error) {
	var errs []error
	for _, r := range c {
		url, err := r.Resolve(ctx, videoID)
		if err == nil {
			return url, nil
		}
		slog.Debug("resolver failed, trying next", slog.String("video", videoID), slog.Any("error", err))
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return "", errors.New("no stream resolvers configured")
	}
	return "", errors.Join(errs...)
}

// NewResolver builds a chain from names: kkdai, ytdlp, direct. Unknown names
// are skipped.
func NewResolver(names []string, ytDlpPath string) ChainResolver {
	var chain ChainResolver
	for _, name := range names {
		switch name {
		case "kkdai":
			chain = append(chain, NewKkdaiResolver())
		case "ytdlp", "yt-dlp":
			chain = append(chain, NewYtDlpResolver(ytDlpPath))
		case "direct":
			chain = append(chain, DirectResolver{})
		default:
			slog.Warn("unknown stream resolver", slog.String("name", name))
		}
	}
	return chain
}
