package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PT4M13S", "4:13"},
		{"PT3M", "3:00"},
		{"PT45S", "0:45"},
		{"PT1H", "1:00:00"},
		{"PT1H2M3S", "1:02:03"},
		{"PT10M5S", "10:05"},
		{"PT", "0:00"},
		{"invalid", "0:00"},
		{"", "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0:00", FormatSeconds(0))
	assert.Equal(t, "3:33", FormatSeconds(213))
	assert.Equal(t, "1:00:01", FormatSeconds(3601))
	assert.Equal(t, "0:00", FormatSeconds(-5))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "1:05", FormatClock(65*time.Second+900*time.Millisecond))
	assert.Equal(t, "75:00", FormatClock(75*time.Minute))
	assert.Equal(t, "0:00", FormatClock(-time.Second))
}

func TestYtDlpVideoResponseTrack(t *testing.T) {
	r := YtDlpVideoResponse{ID: "abc", Title: "Song", Duration: 125.4, Uploader: "Someone", Thumbnail: "http://img"}
	got := r.Track()

	assert.Equal(t, Track{
		ID:        "abc",
		Title:     "Song",
		Artist:    "Someone",
		Thumbnail: "http://img",
		Duration:  "2:05",
		VideoID:   "abc",
	}, got)
}
