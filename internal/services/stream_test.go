package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, videoID string) (string, error)

func (f resolverFunc) Resolve(ctx context.Context, videoID string) (string, error) {
	return f(ctx, videoID)
}

func TestChainResolverFirstSuccessWins(t *testing.T) {
	var tried []string
	failing := resolverFunc(func(_ context.Context, id string) (string, error) {
		tried = append(tried, "failing")
		return "", errors.New("nope")
	})
	working := resolverFunc(func(_ context.Context, id string) (string, error) {
		tried = append(tried, "working")
		return "https://cdn/" + id, nil
	})
	unused := resolverFunc(func(_ context.Context, id string) (string, error) {
		tried = append(tried, "unused")
		return "", nil
	})

	url, err := ChainResolver{failing, working, unused}.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/abc", url)
	assert.Equal(t, []string{"failing", "working"}, tried)
}

func TestChainResolverJoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	chain := ChainResolver{
		resolverFunc(func(context.Context, string) (string, error) { return "", errA }),
		resolverFunc(func(context.Context, string) (string, error) { return "", errB }),
	}

	_, err := chain.Resolve(context.Background(), "abc")
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)

	_, err = ChainResolver{}.Resolve(context.Background(), "abc")
	assert.Error(t, err)
}

func TestDirectResolver(t *testing.T) {
	url, err := DirectResolver{}.Resolve(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=xyz", url)

	_, err = DirectResolver{}.Resolve(context.Background(), "")
	assert.Error(t, err)
}

func TestNewResolverSkipsUnknownNames(t *testing.T) {
	chain := NewResolver([]string{"kkdai", "bogus", "ytdlp", "direct"}, "yt-dlp")
	require.Len(t, chain, 3)
	assert.IsType(t, &KkdaiResolver{}, chain[0])
	assert.IsType(t, &YtDlpResolver{}, chain[1])
	assert.IsType(t, DirectResolver{}, chain[2])
}
