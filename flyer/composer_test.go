package flyer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flyer-builder/models"
	"flyer-builder/theme"
)

type fakeFetcher struct {
	mu     sync.Mutex
	images map[string]image.Image
	calls  []string
}

func (f *fakeFetcher) FetchImage(_ context.Context, url string) image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	return f.images[url]
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
}

func sampleBatch(n int) models.Batch {
	recs := make([]models.ProductRecord, n)
	for i := range recs {
		recs[i] = models.ProductRecord{
			Row:          i,
			GroupKey:     "Store A",
			Brand:        "Oster",
			Title:        "Licuadora de vaso de vidrio con 10 velocidades y función pulso",
			ImageURL:     "https://cdn.example.test/p.png",
			RegularPrice: "S/. 199.90",
			SalePrice:    "14990",
			SKU:          "OST-1234",
		}
	}
	return models.Batch{GroupKey: "Store A", Sequence: 1, Records: recs}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderIsDeterministic(t *testing.T) {
	th := theme.DefaultTheme()
	require.NoError(t, theme.Resolve(&th))

	fetcher := &fakeFetcher{images: map[string]image.Image{
		"https://cdn.example.test/p.png": imaging.New(300, 180, color.NRGBA{R: 0x20, G: 0x80, B: 0xd0, A: 0xff}),
	}}
	assets := Assets{
		Logo:        imaging.New(120, 120, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		HeaderImage: imaging.New(600, 200, color.NRGBA{R: 0x90, G: 0x10, B: 0x40, A: 0xff}),
	}
	composer := NewComposer(fetcher, NewFontSet(nil), WithClock(fixedClock))

	first, err := composer.Render(context.Background(), sampleBatch(6), th, assets)
	require.NoError(t, err)
	second, err := composer.Render(context.Background(), sampleBatch(6), th, assets)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 1200, 1800), first.Bounds())
	assert.True(t, bytes.Equal(encodePNG(t, first), encodePNG(t, second)))
	assert.Len(t, fetcher.calls, 12)
}

func TestRenderWithoutAnyImages(t *testing.T) {
	th := theme.DefaultTheme()
	require.NoError(t, theme.Resolve(&th))

	batch := sampleBatch(6)
	for i := range batch.Records {
		batch.Records[i].ImageURL = ""
	}

	composer := NewComposer(&fakeFetcher{}, NewFontSet(nil), WithClock(fixedClock))
	img, err := composer.Render(context.Background(), batch, th, Assets{})
	require.NoError(t, err)
	require.NotNil(t, img)

	// image region stays card-colored
	assert.Equal(t, th.Palette.CardBackground, img.NRGBAAt(310, 570))
}

func TestRenderPlacesImageAndLeavesTrailingCellsEmpty(t *testing.T) {
	th := theme.DefaultTheme()
	require.NoError(t, theme.Resolve(&th))

	red := color.NRGBA{R: 0xff, A: 0xff}
	fetcher := &fakeFetcher{images: map[string]image.Image{
		"https://cdn.example.test/p.png": imaging.New(100, 100, red),
	}}
	composer := NewComposer(fetcher, nil, WithClock(fixedClock))

	img, err := composer.Render(context.Background(), sampleBatch(1), th, Assets{})
	require.NoError(t, err)

	// cell 0 image box is centered at (310, 570)
	assert.Equal(t, red, img.NRGBAAt(310, 570))
	// cell 5 is not drawn at all
	assert.Equal(t, th.Palette.Background, img.NRGBAAt(885, 1560))
	// header band
	assert.Equal(t, th.Palette.HeaderBackground, img.NRGBAAt(5, 395))
}

func TestRenderRejectsBadBatches(t *testing.T) {
	th := theme.DefaultTheme()
	require.NoError(t, theme.Resolve(&th))
	composer := NewComposer(nil, nil)

	_, err := composer.Render(context.Background(), models.Batch{GroupKey: "x", Sequence: 1}, th, Assets{})
	assert.True(t, errors.Is(err, ErrEmptyBatch))

	_, err = composer.Render(context.Background(), sampleBatch(7), th, Assets{})
	assert.True(t, errors.Is(err, ErrBatchTooLarge))
}

// longestRun returns the longest horizontal run of exactly c inside r
func longestRun(img *image.NRGBA, r image.Rectangle, c color.NRGBA) int {
	best := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		run := 0
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.NRGBAAt(x, y) == c {
				run++
				best = max(best, run)
			} else {
				run = 0
			}
		}
	}
	return best
}

func TestRenderStrikesRegularPriceOnlyWhenDiscounted(t *testing.T) {
	th := theme.DefaultTheme()
	require.NoError(t, theme.Resolve(&th))
	composer := NewComposer(nil, NewFontSet(nil), WithClock(fixedClock))

	// price row of cell 0
	priceRow := image.Rect(70, 790, 550, 850)

	discounted := sampleBatch(1)
	img, err := composer.Render(context.Background(), discounted, th, Assets{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, longestRun(img, priceRow, th.Palette.RegularText), 60)

	samePrice := sampleBatch(1)
	samePrice.Records[0].SalePrice = "19990"
	img, err = composer.Render(context.Background(), samePrice, th, Assets{})
	require.NoError(t, err)
	assert.Less(t, longestRun(img, priceRow, th.Palette.RegularText), 20)
}
