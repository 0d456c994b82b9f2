package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	"github.com/sangnt1552314/ytbeat/internal/models"
	"github.com/sangnt1552314/ytbeat/internal/session"
)

const (
	pageHome    = "home"
	pageResults = "results"
	pageLoading = "loading"
	pagePopular = "popular"
	pageLibrary = "library"
)

// pageFor picks the content page shown for a snapshot.
func pageFor(s session.Snapshot) string {
	switch s.Section {
	case session.SectionHome:
		return pageHome
	case session.SectionLibrary:
		return pageLibrary
	}
	switch {
	case s.Loading:
		return pageLoading
	case len(s.Tracks) > 0:
		return pageResults
	}
	return pagePopular
}

// pauseOnSelect: choosing the track that is already playing pauses it
// instead of restarting it.
func pauseOnSelect(s session.Snapshot, t models.Track) bool {
	return s.IsCurrent(t) && s.Playing
}

func marker(s session.Snapshot, t models.Track) string {
	if !s.IsCurrent(t) {
		return ""
	}
	if s.Playing {
		return "▶"
	}
	return "⏸"
}

// progressBar draws percent (0..100) into width cells.
func progressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	if filled >= width {
		return strings.Repeat("━", width-1) + "●"
	}
	return strings.Repeat("━", filled) + "●" + strings.Repeat("─", width-filled-1)
}

func clockLabel(s session.Snapshot) string {
	return fmt.Sprintf(" %s / %s ", models.FormatClock(s.Position), s.TotalLabel())
}

func volumeLabel(s session.Snapshot) string {
	if s.Muted {
		return "🔇 muted"
	}
	return fmt.Sprintf("🔊 %d%%", s.Volume)
}

func nowPlayingText(s session.Snapshot) string {
	if s.Current == nil {
		return "No Playing Song"
	}
	heart := "♡"
	if s.Liked {
		heart = "♥"
	}
	return fmt.Sprintf("%s %s - %s", heart, tview.Escape(s.Current.Title), tview.Escape(s.Current.Artist))
}

func sameTracks(a, b []models.Track) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
