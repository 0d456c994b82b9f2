package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sangnt1552314/ytbeat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const searchBody = `{
	"items": [
		{"id": {"videoId": "vid1"}, "snippet": {"title": "ignored", "channelTitle": "ignored"}},
		{"id": {"videoId": "vid2"}, "snippet": {"title": "ignored", "channelTitle": "ignored"}}
	]
}`

const videosBody = `{
	"items": [
		{
			"id": "vid1",
			"snippet": {"title": "Track 1", "channelTitle": "Artist 1",
				"thumbnails": {"medium": {"url": "http://img/m1"}, "high": {"url": "http://img/h1"}}},
			"contentDetails": {"duration": "PT4M13S"}
		},
		{
			"id": "vid2",
			"snippet": {"title": "Track 2", "channelTitle": "Artist 2",
				"thumbnails": {"high": {"url": "http://img/h2"}}},
			"contentDetails": {"duration": "PT1H2M3S"}
		}
	]
}`

// flatParam reads a query parameter that may be sent repeated or comma
// separated.
func flatParam(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *YouTubeSearcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewYouTubeSearcher(context.Background(), "test-key", 1000, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return s
}

func TestYouTubeSearcherSearchTracks(t *testing.T) {
	var searchCalls, videoCalls int32
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			atomic.AddInt32(&searchCalls, 1)
			assert.Equal(t, "adele music", r.URL.Query().Get("q"))
			assert.Equal(t, "video", r.URL.Query().Get("type"))
			assert.Equal(t, "20", r.URL.Query().Get("maxResults"))
			assert.Equal(t, []string{"snippet"}, flatParam(r, "part"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			_, _ = w.Write([]byte(searchBody))
		case strings.HasSuffix(r.URL.Path, "/videos"):
			atomic.AddInt32(&videoCalls, 1)
			assert.Equal(t, []string{"vid1", "vid2"}, flatParam(r, "id"))
			assert.ElementsMatch(t, []string{"contentDetails", "snippet"}, flatParam(r, "part"))
			_, _ = w.Write([]byte(videosBody))
		default:
			http.NotFound(w, r)
		}
	})

	tracks, err := s.SearchTracks(context.Background(), "  adele ", 0)
	require.NoError(t, err)

	assert.Equal(t, []models.Track{
		{ID: "vid1", VideoID: "vid1", Title: "Track 1", Artist: "Artist 1", Thumbnail: "http://img/m1", Duration: "4:13"},
		{ID: "vid2", VideoID: "vid2", Title: "Track 2", Artist: "Artist 2", Thumbnail: "http://img/h2", Duration: "1:02:03"},
	}, tracks)
	assert.EqualValues(t, 1, atomic.LoadInt32(&searchCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&videoCalls))
}

func TestYouTubeSearcherBlankQueryPerformsNoRequest(t *testing.T) {
	var calls int32
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	for _, q := range []string{"", "   ", "\t\n"} {
		tracks, err := s.SearchTracks(context.Background(), q, 20)
		assert.NoError(t, err)
		assert.Nil(t, tracks)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestYouTubeSearcherNoResultsSkipsDetails(t *testing.T) {
	var videoCalls int32
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/videos") {
			atomic.AddInt32(&videoCalls, 1)
		}
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	tracks, err := s.SearchTracks(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Empty(t, tracks)
	assert.Zero(t, atomic.LoadInt32(&videoCalls))
}

func TestYouTubeSearcherFailures(t *testing.T) {
	t.Run("search status", func(t *testing.T) {
		s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": {"code": 403, "message": "quota"}}`, http.StatusForbidden)
		})

		tracks, err := s.SearchTracks(context.Background(), "q", 5)
		assert.ErrorIs(t, err, ErrSearchFailed)
		assert.Nil(t, tracks)
	})

	t.Run("details status", func(t *testing.T) {
		s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/videos") {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchBody))
		})

		tracks, err := s.SearchTracks(context.Background(), "q", 5)
		assert.ErrorIs(t, err, ErrSearchFailed)
		assert.Nil(t, tracks)
	})

	t.Run("canceled context", func(t *testing.T) {
		s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.SearchTracks(ctx, "q", 5)
		assert.ErrorIs(t, err, ErrSearchFailed)
	})
}

func TestNewYouTubeSearcherRequiresKey(t *testing.T) {
	_, err := NewYouTubeSearcher(context.Background(), "", 1)
	assert.Error(t, err)
}
