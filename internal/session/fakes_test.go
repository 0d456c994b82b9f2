package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sangnt1552314/ytbeat/internal/models"
	"github.com/sangnt1552314/ytbeat/internal/player"
	"github.com/stretchr/testify/mock"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchTracks(ctx context.Context, query string, maxResults int) ([]models.Track, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Track), args.Error(1)
}

// fakeWidget records every control call.
type fakeWidget struct {
	mu       sync.Mutex
	calls    []string
	position time.Duration
	duration time.Duration
	loadErr  error
	events   chan player.Event
}

func newFakeWidget() *fakeWidget {
	return &fakeWidget{events: make(chan player.Event, 8)}
}

func (w *fakeWidget) record(call string) {
	w.mu.Lock()
	w.calls = append(w.calls, call)
	w.mu.Unlock()
}

func (w *fakeWidget) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

func (w *fakeWidget) LoadVideoByID(_ context.Context, id string) error {
	w.record("load:" + id)
	return w.loadErr
}

func (w *fakeWidget) Play() error { w.record("play"); return nil }
func (w *fakeWidget) Pause() error { w.record("pause"); return nil }

func (w *fakeWidget) SeekTo(d time.Duration) error {
	w.record(fmt.Sprintf("seek:%s", d))
	return nil
}

func (w *fakeWidget) SetVolume(v int) error {
	w.record(fmt.Sprintf("volume:%d", v))
	return nil
}

func (w *fakeWidget) CurrentTime() (time.Duration, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.position, nil
}

func (w *fakeWidget) Duration() (time.Duration, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.duration, nil
}

func (w *fakeWidget) Events() <-chan player.Event { return w.events }
func (w *fakeWidget) Close() error { return nil }

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *recordingNotifier) Notify(note Notification) {
	n.mu.Lock()
	n.sent = append(n.sent, note)
	n.mu.Unlock()
}

func (n *recordingNotifier) All() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

type memoryLibrary struct {
	liked map[string]models.Track
}

func (l *memoryLibrary) Like(_ context.Context, t models.Track) error {
	l.liked[t.ID] = t
	return nil
}

func (l *memoryLibrary) Unlike(_ context.Context, id string) error {
	delete(l.liked, id)
	return nil
}

func (l *memoryLibrary) IsLiked(_ context.Context, id string) (bool, error) {
	_, ok := l.liked[id]
	return ok, nil
}

func (l *memoryLibrary) List(context.Context) ([]models.Track, error) {
	var out []models.Track
	for _, t := range l.liked {
		out = append(out, t)
	}
	return out, nil
}

type searcherFunc func(ctx context.Context, query string, maxResults int) ([]models.Track, error)

func (f searcherFunc) SearchTracks(ctx context.Context, query string, maxResults int) ([]models.Track, error) {
	return f(ctx, query, maxResults)
}
