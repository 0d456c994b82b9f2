// Package player controls the external media player that owns playback.
//
// The application never decodes media itself. It loads a video by id, sends
// play/pause/seek/volume commands and listens for state changes.
package player

import (
	"context"
	"time"
)

// State follows the numbering of the embedded YouTube player.
type State int

const (
	StateUnstarted State = -1
	StateEnded     State = 0
	StatePlaying   State = 1
	StatePaused    State = 2
	StateBuffering State = 3
	StateCued      State = 5
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateCued:
		return "cued"
	}
	return "unknown"
}

// Event is a state-change notification. Err is set when the player reports
// an error instead of a state.
type Event struct {
	State State
	Err   error
}

// Widget is the control API of the external player.
type Widget interface {
	LoadVideoByID(ctx context.Context, videoID string) error
	Play() error
	Pause() error
	SeekTo(position time.Duration) error
	SetVolume(volume int) error
	CurrentTime() (time.Duration, error)
	Duration() (time.Duration, error)
	Events() <-chan Event
	Close() error
}

// Resolver maps a video id to something the player can open.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) (string, error)
}
