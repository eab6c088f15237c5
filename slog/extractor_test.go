package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/mock"
	prodexslog "github.com/fwojciec/prodex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_ExtractProducts(t *testing.T) {
	t.Parallel()

	newLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	t.Run("logs the product count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ProductExtractor{
			ExtractProductsFn: func(html, pageURL string) ([]*prodex.Product, error) {
				return []*prodex.Product{{ID: "a"}, {ID: "b"}}, nil
			},
		}

		products, err := prodexslog.NewLoggingExtractor(inner, newLogger(&buf)).ExtractProducts("<html></html>", "https://shop.example/")

		require.NoError(t, err)
		assert.Len(t, products, 2)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, `msg="product extraction"`)
		assert.Contains(t, output, "url=https://shop.example/")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs empty pages at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ProductExtractor{
			ExtractProductsFn: func(html, pageURL string) ([]*prodex.Product, error) {
				return []*prodex.Product{}, nil
			},
		}

		_, err := prodexslog.NewLoggingExtractor(inner, newLogger(&buf)).ExtractProducts("<html></html>", "")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "count=0")
	})

	t.Run("logs failures at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ProductExtractor{
			ExtractProductsFn: func(html, pageURL string) ([]*prodex.Product, error) {
				return nil, errors.New("unreadable")
			},
		}

		_, err := prodexslog.NewLoggingExtractor(inner, newLogger(&buf)).ExtractProducts("", "")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "err=unreadable")
	})
}
