package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"flyer-builder/flyer"
	"flyer-builder/logger"
	"flyer-builder/metrics"
	"flyer-builder/utils"
)

const (
	// browserUserAgent keeps CDNs that reject bot clients serving images
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	defaultMaxBytes  = 15 << 20
)

// ImageFetcher downloads product images over HTTP. Every failure yields a nil
// image; the composer leaves that slot undecorated.
type ImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

// Ensure ImageFetcher implements flyer.ImageFetcher
var _ flyer.ImageFetcher = (*ImageFetcher)(nil)

// NewImageFetcher creates a fetcher with a per-request timeout and a body size cap
func NewImageFetcher(timeout time.Duration, maxBytes int64) *ImageFetcher {
	return NewImageFetcherWithClient(&http.Client{Timeout: timeout}, maxBytes)
}

// NewImageFetcherWithClient creates a fetcher on top of an existing client
func NewImageFetcherWithClient(client *http.Client, maxBytes int64) *ImageFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &ImageFetcher{client: client, maxBytes: maxBytes}
}

// FetchImage returns the decoded image at url as *image.NRGBA, or nil
func (f *ImageFetcher) FetchImage(ctx context.Context, url string) image.Image {
	url = strings.TrimSpace(url)
	if utils.IsMissing(url) {
		metrics.ImageFetches.WithLabelValues(metrics.FetchSkipped).Inc()
		return nil
	}
	log := logger.FromContext(ctx)

	data, err := httpGet(ctx, f.client, url, f.maxBytes, "image/*")
	if err != nil {
		result := metrics.FetchError
		var se *statusError
		if errors.As(err, &se) {
			result = metrics.FetchStatus
		}
		metrics.ImageFetches.WithLabelValues(result).Inc()
		log.Warn("⚠️  Product image unavailable", zap.String("url", url), zap.Error(err))
		return nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		metrics.ImageFetches.WithLabelValues(metrics.FetchDecode).Inc()
		log.Warn("⚠️  Product image could not be decoded", zap.String("url", url), zap.Error(err))
		return nil
	}

	metrics.ImageFetches.WithLabelValues(metrics.FetchOK).Inc()
	return imaging.Clone(img)
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// httpGet performs a browser-like GET and reads at most maxBytes of the body
func httpGet(ctx context.Context, client *http.Client, url string, maxBytes int64, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("body larger than %d bytes", maxBytes)
	}
	return data, nil
}
