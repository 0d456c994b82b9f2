package models

// YtDlpVideoResponse is one line of `yt-dlp -j` output.
type YtDlpVideoResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Views     int     `json:"view_count"`
	Channel   string  `json:"channel"`
	Uploader  string  `json:"uploader"`
	Thumbnail string  `json:"thumbnail"`
}

// Track maps the yt-dlp metadata to a display record.
func (r YtDlpVideoResponse) Track() Track {
	artist := r.Channel
	if artist == "" {
		artist = r.Uploader
	}
	return Track{
		ID:        r.ID,
		Title:     r.Title,
		Artist:    artist,
		Thumbnail: r.Thumbnail,
		Duration:  FormatSeconds(int(r.Duration)),
		VideoID:   r.ID,
	}
}
