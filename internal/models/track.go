package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Track is the display record for one search result.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
	VideoID   string `json:"videoId"`
}

var isoDuration = regexp.MustCompile(`PT(\d+H)?(\d+M)?(\d+S)?`)

// FormatDuration converts a YouTube contentDetails duration such as PT4M13S
// into 4:13 (or 1:02:03 when there is an hour part).
func FormatDuration(duration string) string {
	match := isoDuration.FindStringSubmatch(duration)
	if match == nil {
		return "0:00"
	}

	h := leadingInt(match[1])
	m := leadingInt(match[2])
	s := leadingInt(match[3])

	return formatHMS(h, m, s)
}

// FormatSeconds formats a duration reported in whole seconds the same way
// FormatDuration does.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	return formatHMS(total/3600, total%3600/60, total%60)
}

// FormatClock renders the player clock: total minutes, then seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func formatHMS(h, m, s int) string {
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// leadingInt parses "12M" as 12; an empty component counts as zero.
func leadingInt(part string) int {
	if len(part) < 2 {
		return 0
	}
	n, err := strconv.Atoi(part[:len(part)-1])
	if err != nil {
		return 0
	}
	return n
}
