package goquery_test

import (
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderCollector_CollectHeaders(t *testing.T) {
	t.Parallel()

	t.Run("keeps the last heading of each level", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>Shop</h1>
<h2>First</h2>
<h2>
	Second
	<script>track()</script>
	<span>part</span>
</h2>
<h6>Fine print</h6>
</body></html>`

		headers, err := goquery.NewHeaderCollector().CollectHeaders(html)

		require.NoError(t, err)
		assert.Equal(t, prodex.Headers{
			"H1": "Shop",
			"H2": "Second part",
			"H6": "Fine print",
		}, headers)
	})

	t.Run("returns an empty map when there are no headings", func(t *testing.T) {
		t.Parallel()

		headers, err := goquery.NewHeaderCollector().CollectHeaders(`<p>plain</p>`)

		require.NoError(t, err)
		require.NotNil(t, headers)
		assert.Empty(t, headers)
	})
}
