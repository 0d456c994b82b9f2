package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sangnt1552314/ytbeat/internal/models"
	_ "modernc.org/sqlite"
)

// Library keeps liked tracks in a local SQLite file.
type Library struct {
	db *sql.DB
}

// OpenLibrary opens (or creates) the library database at path.
func OpenLibrary(path string) (*Library, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("library: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("library: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS liked_tracks (
		id        TEXT PRIMARY KEY,
		video_id  TEXT NOT NULL,
		title     TEXT NOT NULL,
		artist    TEXT NOT NULL,
		thumbnail TEXT NOT NULL,
		duration  TEXT NOT NULL,
		liked_at  INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("library: init schema: %w", err)
	}

	return &Library{db: db}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// Like stores t. Liking a track twice keeps the first entry.
func (l *Library) Like(ctx context.Context, t models.Track) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO liked_tracks (id, video_id, title, artist, thumbnail, duration, liked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.VideoID, t.Title, t.Artist, t.Thumbnail, t.Duration, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("library: like %s: %w", t.ID, err)
	}
	return nil
}

func (l *Library) Unlike(ctx context.Context, id string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM liked_tracks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("library: unlike %s: %w", id, err)
	}
	return nil
}

func (l *Library) IsLiked(ctx context.Context, id string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM liked_tracks WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("library: lookup %s: %w", id, err)
	}
	return n > 0, nil
}

// List returns liked tracks, most recent first.
func (l *Library) List(ctx context.Context) ([]models.Track, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, video_id, title, artist, thumbnail, duration FROM liked_tracks ORDER BY liked_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.ID, &t.VideoID, &t.Title, &t.Artist, &t.Thumbnail, &t.Duration); err != nil {
			return nil, fmt.Errorf("library: scan: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
