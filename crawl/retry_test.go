package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	noDelays := []time.Duration{0, 0, 0}

	t.Run("returns the first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "<html></html>", nil
		}

		html, err := crawl.FetchWithRetry(context.Background(), "https://shop.example/", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after every delay is used", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", errors.New("timeout")
		}

		_, err := crawl.FetchWithRetry(context.Background(), "https://shop.example/", fetch, nil, noDelays)

		require.EqualError(t, err, "timeout")
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry missing pages", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", prodex.Errorf(prodex.ENOTFOUND, "HTTP 404")
		}

		_, err := crawl.FetchWithRetry(context.Background(), "https://shop.example/gone", fetch, nil, noDelays)

		require.Error(t, err)
		assert.Equal(t, prodex.ENOTFOUND, prodex.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when the context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, _ string) (string, error) {
			cancel()
			return "", errors.New("timeout")
		}

		_, err := crawl.FetchWithRetry(ctx, "https://shop.example/", fetch, nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
	})
}
