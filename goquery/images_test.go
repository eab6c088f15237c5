package goquery_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectImages(t *testing.T) {
	t.Parallel()

	t.Run("labels images without alt text after their product", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, `<html><body><div class="product">
<img src="/front.jpg" width="400">
<img src="/side.jpg" alt="Side view" style="width: 300px; height: 200px">
<img data-src="/back.jpg">
</div></body></html>`)
		base, err := url.Parse("https://shop.example/widgets")
		require.NoError(t, err)

		images := goquery.CollectImages(doc.Find(".product"), 3, base)

		assert.Equal(t, []prodex.ImageAsset{
			{URL: "https://shop.example/front.jpg", Alt: "Product image 3", Width: 400, Height: prodex.SizeUnknown},
			{URL: "https://shop.example/side.jpg", Alt: "Side view", Width: 300, Height: 200},
			{URL: "https://shop.example/back.jpg", Alt: "Product image 3", Width: prodex.SizeUnknown, Height: prodex.SizeUnknown},
		}, images)
	})

	t.Run("keeps images of unstated size", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, `<html><body><div class="product">
<img src="https://cdn.example/pixel.gif">
<img src="https://cdn.example/icon.png" width="16">
</div></body></html>`)

		images := goquery.CollectImages(doc.Find(".product"), 0, nil)

		require.Len(t, images, 2)
		assert.Equal(t, prodex.SizeUnknown, images[0].Width)
		assert.Equal(t, 16, images[1].Width)
	})
}
