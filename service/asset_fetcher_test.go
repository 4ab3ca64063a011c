package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func response(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchImageDecodesToNRGBA(t *testing.T) {
	body := pngBytes(t, 4, 3, color.RGBA{R: 0xff, A: 0xff})
	var seen *http.Request
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return response(http.StatusOK, body), nil
	})}

	img := NewImageFetcherWithClient(client, 0).FetchImage(context.Background(), " https://cdn.example.test/p.png ")
	require.NotNil(t, img)

	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 4, 3), nrgba.Bounds())
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, nrgba.NRGBAAt(1, 1))

	require.NotNil(t, seen)
	assert.True(t, strings.HasPrefix(seen.Header.Get("User-Agent"), "Mozilla/5.0"))
	assert.Equal(t, "image/*", seen.Header.Get("Accept"))
	assert.Equal(t, "https://cdn.example.test/p.png", seen.URL.String())
}

func TestFetchImageSkipsMissingMarkersWithoutNetwork(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected request to %s", r.URL)
		return nil, nil
	})}
	fetcher := NewImageFetcherWithClient(client, 0)

	for _, url := range []string{"", "   ", "nan", "NaN", "none", "null", "-"} {
		assert.Nil(t, fetcher.FetchImage(context.Background(), url), url)
	}
}

func TestFetchImageFailuresAreAbsent(t *testing.T) {
	cases := map[string]roundTripFunc{
		"not found": func(*http.Request) (*http.Response, error) {
			return response(http.StatusNotFound, []byte("missing")), nil
		},
		"transport error": func(*http.Request) (*http.Response, error) {
			return nil, io.ErrUnexpectedEOF
		},
		"not an image": func(*http.Request) (*http.Response, error) {
			return response(http.StatusOK, []byte("<html>blocked</html>")), nil
		},
		"too large": func(*http.Request) (*http.Response, error) {
			return response(http.StatusOK, bytes.Repeat([]byte{0}, 2048)), nil
		},
	}
	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			fetcher := NewImageFetcherWithClient(&http.Client{Transport: rt}, 1024)
			assert.Nil(t, fetcher.FetchImage(context.Background(), "https://cdn.example.test/x.jpg"))
		})
	}
}

func TestFetchImageTimeoutIsAbsent(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	fetcher := NewImageFetcher(200*time.Millisecond, 0)

	start := time.Now()
	img := fetcher.FetchImage(context.Background(), srv.URL+"/slow.jpg")
	elapsed := time.Since(start)

	assert.Nil(t, img)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}
