package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sangnt1552314/ytbeat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := OpenLibrary(filepath.Join(t.TempDir(), "nested", "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func TestLibraryLikeListUnlike(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	first := models.Track{ID: "a", VideoID: "a", Title: "A", Artist: "X", Thumbnail: "http://a", Duration: "3:00"}
	second := models.Track{ID: "b", VideoID: "b", Title: "B", Artist: "Y", Thumbnail: "http://b", Duration: "4:00"}

	require.NoError(t, lib.Like(ctx, first))
	require.NoError(t, lib.Like(ctx, second))
	require.NoError(t, lib.Like(ctx, first))

	tracks, err := lib.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Track{second, first}, tracks)

	liked, err := lib.IsLiked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, lib.Unlike(ctx, "a"))
	liked, err = lib.IsLiked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, liked)

	tracks, err = lib.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Track{second}, tracks)
}

func TestLibraryEmpty(t *testing.T) {
	tracks, err := openTestLibrary(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestLibraryPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library.db")

	lib, err := OpenLibrary(path)
	require.NoError(t, err)
	require.NoError(t, lib.Like(ctx, models.Track{ID: "z", VideoID: "z", Title: "Z"}))
	require.NoError(t, lib.Close())

	lib, err = OpenLibrary(path)
	require.NoError(t, err)
	defer lib.Close()

	liked, err := lib.IsLiked(ctx, "z")
	require.NoError(t, err)
	assert.True(t, liked)
}
