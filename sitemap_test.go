package prodex_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter passes everything", func(t *testing.T) {
		t.Parallel()

		var f *prodex.URLFilter
		assert.True(t, f.Match("https://shop.example/anything"))
	})

	t.Run("include keeps only matching URLs", func(t *testing.T) {
		t.Parallel()

		f := &prodex.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`/products/`)}}

		assert.True(t, f.Match("https://shop.example/products/shoe"))
		assert.False(t, f.Match("https://shop.example/blog/post"))
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		t.Parallel()

		f := &prodex.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/products/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`\?page=`)},
		}

		assert.True(t, f.Match("https://shop.example/products/shoe"))
		assert.False(t, f.Match("https://shop.example/products/?page=2"))
	})

	t.Run("exclude alone drops matching URLs", func(t *testing.T) {
		t.Parallel()

		f := &prodex.URLFilter{Exclude: []*regexp.Regexp{regexp.MustCompile(`/cart`)}}

		assert.False(t, f.Match("https://shop.example/cart"))
		assert.True(t, f.Match("https://shop.example/products/shoe"))
	})
}

func TestNewURLFilter(t *testing.T) {
	t.Parallel()

	t.Run("returns nil without patterns", func(t *testing.T) {
		t.Parallel()

		f, err := prodex.NewURLFilter(nil, nil)

		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("compiles patterns", func(t *testing.T) {
		t.Parallel()

		f, err := prodex.NewURLFilter([]string{`/p/\d+`}, []string{`draft`})

		require.NoError(t, err)
		assert.True(t, f.Match("https://shop.example/p/12"))
		assert.False(t, f.Match("https://shop.example/p/12-draft"))
		assert.False(t, f.Match("https://shop.example/about"))
	})

	t.Run("rejects invalid patterns", func(t *testing.T) {
		t.Parallel()

		_, err := prodex.NewURLFilter([]string{`(`}, nil)

		require.Error(t, err)
		assert.Equal(t, prodex.EINVALID, prodex.ErrorCode(err))
	})
}
