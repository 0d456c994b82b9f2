package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sangnt1552314/ytbeat/internal/models"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// ErrSearchFailed is returned for any failed search; callers do not
// distinguish error kinds beyond it.
var ErrSearchFailed = errors.New("search request failed")

const (
	DefaultMaxResults = 20
	maxAPIResults     = 50
	querySuffix       = " music"
)

// YouTubeSearcher searches through the YouTube Data API v3: one search.list
// call followed by one batched videos.list call for durations.
type YouTubeSearcher struct {
	service *ytapi.Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewYouTubeSearcher builds a Data API client authenticated with apiKey.
// rps paces outgoing calls; extra options are passed to the client (an
// endpoint override, for example).
func NewYouTubeSearcher(ctx context.Context, apiKey string, rps float64, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	if apiKey == "" {
		return nil, errors.New("youtube api key is required")
	}
	if rps <= 0 {
		rps = 2
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &YouTubeSearcher{
		service: service,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  slog.Default().With(slog.String("component", "youtube")),
	}, nil
}

// SearchTracks returns the tracks matching query. A blank query performs no
// request and yields no tracks.
func (s *YouTubeSearcher) SearchTracks(ctx context.Context, query string, maxResults int) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if maxResults <= 0 || maxResults > maxAPIResults {
		maxResults = DefaultMaxResults
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	searchResp, err := s.service.Search.List([]string{"snippet"}).
		Q(query + querySuffix).
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Warn("search.list failed", slog.String("query", query), slog.Any("error", err))
		return nil, fmt.Errorf("%w: search: %w", ErrSearchFailed, err)
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return []models.Track{}, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	detailsResp, err := s.service.Videos.List([]string{"contentDetails", "snippet"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Warn("videos.list failed", slog.Int("ids", len(ids)), slog.Any("error", err))
		return nil, fmt.Errorf("%w: video details: %w", ErrSearchFailed, err)
	}

	tracks := make([]models.Track, 0, len(detailsResp.Items))
	for _, item := range detailsResp.Items {
		tracks = append(tracks, trackFromVideo(item))
	}

	s.logger.Debug("search done", slog.String("query", query), slog.Int("tracks", len(tracks)))
	return tracks, nil
}

func trackFromVideo(v *ytapi.Video) models.Track {
	t := models.Track{
		ID:       v.Id,
		VideoID:  v.Id,
		Duration: "0:00",
	}
	if v.Snippet != nil {
		t.Title = v.Snippet.Title
		t.Artist = v.Snippet.ChannelTitle
		t.Thumbnail = pickThumbnail(v.Snippet.Thumbnails)
	}
	if v.ContentDetails != nil {
		t.Duration = models.FormatDuration(v.ContentDetails.Duration)
	}
	return t
}

// pickThumbnail prefers the medium size, then high, then default.
func pickThumbnail(th *ytapi.ThumbnailDetails) string {
	if th == nil {
		return ""
	}
	for _, c := range []*ytapi.Thumbnail{th.Medium, th.High, th.Default} {
		if c != nil && c.Url != "" {
			return c.Url
		}
	}
	return ""
}
