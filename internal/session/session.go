// Package session holds the now-playing state of the page: the current
// search results, the selected track and the controls bound to the player
// widget.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sangnt1552314/ytbeat/internal/models"
	"github.com/sangnt1552314/ytbeat/internal/player"
)

const (
	DefaultVolume = 75
	PollInterval  = time.Second
)

// Section is the active sidebar entry.
type Section string

const (
	SectionHome    Section = "home"
	SectionSearch  Section = "search"
	SectionLibrary Section = "library"
)

// PopularSearches are offered while there are no results.
var PopularSearches = []string{
	"Ed Sheeran Perfect",
	"Billie Eilish Bad Guy",
	"The Weeknd Blinding Lights",
	"Taylor Swift Anti-Hero",
	"Harry Styles As It Was",
	"Dua Lipa Levitating",
}

type Searcher interface {
	SearchTracks(ctx context.Context, query string, maxResults int) ([]models.Track, error)
}

type Library interface {
	Like(ctx context.Context, t models.Track) error
	Unlike(ctx context.Context, id string) error
	IsLiked(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.Track, error)
}

// Notification is a short user-facing message.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

type Notifier interface {
	Notify(n Notification)
}

// Snapshot is a copy of the session state handed to listeners.
type Snapshot struct {
	Section  Section
	Query    string
	Tracks   []models.Track
	Current  *models.Track
	Playing  bool
	Loading  bool
	Liked    bool
	Volume   int
	Muted    bool
	Position time.Duration
	Duration time.Duration
	Progress float64
}

func (s Snapshot) IsCurrent(t models.Track) bool {
	return s.Current != nil && s.Current.ID == t.ID
}

// TotalLabel is the widget duration once known, else the track's own
// duration string.
func (s Snapshot) TotalLabel() string {
	if s.Duration > 0 {
		return models.FormatClock(s.Duration)
	}
	if s.Current != nil {
		return s.Current.Duration
	}
	return "0:00"
}

type Config struct {
	Searcher   Searcher
	Widget     player.Widget
	Notifier   Notifier
	Library    Library
	MaxResults int
	Volume     int
	Logger     *slog.Logger
}

// Session is safe for concurrent use.
type Session struct {
	searcher   Searcher
	widget     player.Widget
	notifier   Notifier
	library    Library
	maxResults int
	logger     *slog.Logger

	mu        sync.Mutex
	section   Section
	query     string
	tracks    []models.Track
	current   *models.Track
	playing   bool
	loading   bool
	liked     bool
	volume    int
	muted     bool
	position  time.Duration
	duration  time.Duration
	searchSeq uint64
	listeners []func(Snapshot)
}

func New(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	volume := cfg.Volume
	if volume <= 0 || volume > 100 {
		volume = DefaultVolume
	}
	return &Session{
		searcher:   cfg.Searcher,
		widget:     cfg.Widget,
		notifier:   cfg.Notifier,
		library:    cfg.Library,
		maxResults: cfg.MaxResults,
		logger:     cfg.Logger.With(slog.String("component", "session")),
		section:    SectionSearch,
		volume:     volume,
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// Subscribe registers fn to receive a snapshot after every change.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Section:  s.section,
		Query:    s.query,
		Tracks:   append([]models.Track(nil), s.tracks...),
		Playing:  s.playing,
		Loading:  s.loading,
		Liked:    s.liked,
		Volume:   s.volume,
		Muted:    s.muted,
		Position: s.position,
		Duration: s.duration,
	}
	if s.current != nil {
		cur := *s.current
		snap.Current = &cur
	}
	if s.duration > 0 {
		snap.Progress = float64(s.position) / float64(s.duration) * 100
	}
	return snap
}

// changed must be called without holding mu.
func (s *Session) changed() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Session) SetSection(section Section) {
	s.mu.Lock()
	s.section = section
	s.mu.Unlock()
	s.changed()
}

func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
}

// Search runs the current query. A blank query does nothing.
func (s *Session) Search(ctx context.Context) error {
	s.mu.Lock()
	query := s.query
	if strings.TrimSpace(query) == "" {
		s.mu.Unlock()
		return nil
	}
	s.searchSeq++
	seq := s.searchSeq
	s.loading = true
	s.section = SectionSearch
	s.mu.Unlock()
	s.changed()

	tracks, err := s.searcher.SearchTracks(ctx, query, s.maxResults)

	s.mu.Lock()
	if seq != s.searchSeq {
		// a newer search owns the results and the loading flag
		s.mu.Unlock()
		return err
	}
	s.loading = false
	if err != nil {
		s.tracks = nil
	} else {
		s.tracks = tracks
	}
	s.mu.Unlock()
	s.changed()

	if err != nil {
		s.logger.Warn("search failed", slog.String("query", query), slog.Any("error", err))
		s.notifier.Notify(Notification{
			Title:       "Search failed",
			Description: "Please try again later",
			Destructive: true,
		})
		return err
	}
	if len(tracks) == 0 {
		s.notifier.Notify(Notification{
			Title:       "No results found",
			Description: "Try searching for different keywords",
		})
	}
	return nil
}

func (s *Session) SearchFor(ctx context.Context, term string) error {
	s.SetQuery(term)
	return s.Search(ctx)
}

// PlayTrack makes t the now-playing track and starts it.
func (s *Session) PlayTrack(ctx context.Context, t models.Track) error {
	s.mu.Lock()
	prev, prevPlaying := s.current, s.playing
	cur := t
	s.current = &cur
	s.playing = true
	s.position = 0
	s.duration = 0
	s.mu.Unlock()

	s.refreshLiked(ctx)
	s.changed()

	s.notifier.Notify(Notification{
		Title:       "Now Playing",
		Description: fmt.Sprintf("%s by %s", t.Title, t.Artist),
	})

	if s.widget == nil {
		return nil
	}
	if err := s.widget.LoadVideoByID(ctx, t.VideoID); err != nil {
		s.logger.Error("load video failed", slog.String("video", t.VideoID), slog.Any("error", err))

		// the widget still holds the previous file
		s.mu.Lock()
		if s.current == &cur {
			s.current, s.playing = prev, prevPlaying
		}
		s.mu.Unlock()
		s.refreshLiked(ctx)
		s.changed()
		s.notifier.Notify(Notification{
			Title:       "Playback failed",
			Description: t.Title,
			Destructive: true,
		})
		return err
	}
	return s.applyVolume()
}

// PlayPause toggles playback of the current track.
func (s *Session) PlayPause() error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil
	}
	s.playing = !s.playing
	playing := s.playing
	s.mu.Unlock()
	s.changed()

	return s.forwardPlaying(playing)
}

func (s *Session) Pause() error {
	s.mu.Lock()
	if s.current == nil || !s.playing {
		s.mu.Unlock()
		return nil
	}
	s.playing = false
	s.mu.Unlock()
	s.changed()

	return s.forwardPlaying(false)
}

func (s *Session) forwardPlaying(playing bool) error {
	if s.widget == nil {
		return nil
	}
	var err error
	if playing {
		err = s.widget.Play()
	} else {
		err = s.widget.Pause()
	}
	if err != nil {
		s.logger.Warn("play/pause failed", slog.Bool("playing", playing), slog.Any("error", err))
	}
	return err
}

// indexOfCurrentLocked returns the position of the current track in the
// result list, or -1.
func (s *Session) indexOfCurrentLocked() int {
	for i, t := range s.tracks {
		if t.ID == s.current.ID {
			return i
		}
	}
	return -1
}

// Next plays the following result, wrapping to the first.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil || len(s.tracks) == 0 {
		s.mu.Unlock()
		return nil
	}
	next := s.tracks[(s.indexOfCurrentLocked()+1)%len(s.tracks)]
	s.mu.Unlock()

	return s.PlayTrack(ctx, next)
}

// Previous plays the preceding result, wrapping to the last.
func (s *Session) Previous(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil || len(s.tracks) == 0 {
		s.mu.Unlock()
		return nil
	}
	i := s.indexOfCurrentLocked()
	if i <= 0 {
		i = len(s.tracks)
	}
	prev := s.tracks[i-1]
	s.mu.Unlock()

	return s.PlayTrack(ctx, prev)
}

// Seek moves to percent (0..100) of the known duration.
func (s *Session) Seek(percent float64) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	s.mu.Lock()
	if s.duration <= 0 || s.widget == nil {
		s.mu.Unlock()
		return nil
	}
	target := time.Duration(percent / 100 * float64(s.duration))
	s.position = target
	s.mu.Unlock()
	s.changed()

	if err := s.widget.SeekTo(target); err != nil {
		s.logger.Warn("seek failed", slog.Duration("target", target), slog.Any("error", err))
		return err
	}
	return nil
}

// SeekBy moves the progress by delta percentage points.
func (s *Session) SeekBy(delta float64) error {
	return s.Seek(s.Snapshot().Progress + delta)
}

func (s *Session) SetVolume(volume int) error {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
	s.changed()

	return s.applyVolume()
}

func (s *Session) ToggleMute() error {
	s.mu.Lock()
	s.muted = !s.muted
	s.mu.Unlock()
	s.changed()

	return s.applyVolume()
}

// applyVolume sends 0 while muted, else the chosen volume.
func (s *Session) applyVolume() error {
	if s.widget == nil {
		return nil
	}
	s.mu.Lock()
	v := s.volume
	if s.muted {
		v = 0
	}
	s.mu.Unlock()

	if err := s.widget.SetVolume(v); err != nil {
		s.logger.Warn("set volume failed", slog.Int("volume", v), slog.Any("error", err))
		return err
	}
	return nil
}

// Poll reads position and duration from the widget while playing.
func (s *Session) Poll() {
	s.mu.Lock()
	active := s.playing && s.current != nil && s.widget != nil
	s.mu.Unlock()
	if !active {
		return
	}

	pos, err := s.widget.CurrentTime()
	if err != nil {
		s.logger.Debug("read position failed", slog.Any("error", err))
		return
	}
	dur, err := s.widget.Duration()
	if err != nil {
		s.logger.Debug("read duration failed", slog.Any("error", err))
		return
	}

	s.mu.Lock()
	s.position = pos
	s.duration = dur
	s.mu.Unlock()
	s.changed()
}

// HandleEvent reacts to a player state change. Reaching the end of a track
// advances to the next result.
func (s *Session) HandleEvent(ctx context.Context, ev player.Event) {
	if ev.Err != nil {
		s.logger.Error("player error", slog.Any("error", ev.Err))
		return
	}
	s.logger.Debug("player state changed", slog.String("state", ev.State.String()))

	if ev.State == player.StateEnded {
		if err := s.Next(ctx); err != nil {
			s.logger.Warn("advance to next track failed", slog.Any("error", err))
		}
	}
}

// Run polls the widget every PollInterval and consumes its events until ctx
// is done.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	var events <-chan player.Event
	if s.widget != nil {
		events = s.widget.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Poll()
		case ev := <-events:
			s.HandleEvent(ctx, ev)
		}
	}
}

// ToggleLike stores or removes the current track in the library.
func (s *Session) ToggleLike(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil || s.library == nil {
		s.mu.Unlock()
		return nil
	}
	cur := *s.current
	liked := s.liked
	s.mu.Unlock()

	var err error
	if liked {
		err = s.library.Unlike(ctx, cur.ID)
	} else {
		err = s.library.Like(ctx, cur)
	}
	if err != nil {
		s.logger.Warn("library update failed", slog.String("track", cur.ID), slog.Any("error", err))
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == cur.ID {
		s.liked = !liked
	}
	s.mu.Unlock()
	s.changed()

	title := "Added to Liked Songs"
	if liked {
		title = "Removed from Liked Songs"
	}
	s.notifier.Notify(Notification{Title: title, Description: cur.Title})
	return nil
}

// LibraryTracks lists liked tracks; without a library it returns none.
func (s *Session) LibraryTracks(ctx context.Context) ([]models.Track, error) {
	if s.library == nil {
		return nil, nil
	}
	return s.library.List(ctx)
}

func (s *Session) refreshLiked(ctx context.Context) {
	if s.library == nil {
		return
	}
	s.mu.Lock()
	if s.current == nil {
		s.liked = false
		s.mu.Unlock()
		return
	}
	id := s.current.ID
	s.mu.Unlock()

	liked, err := s.library.IsLiked(ctx, id)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug("library lookup failed", slog.String("track", id), slog.Any("error", err))
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.liked = liked
	}
	s.mu.Unlock()
}
