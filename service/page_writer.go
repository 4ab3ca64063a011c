package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"flyer-builder/logger"
	"flyer-builder/models"
	"flyer-builder/utils"
)

// PageWriter persists rendered pages and documents into the output directory
// and derives their public URLs from the base URL.
type PageWriter struct {
	outputDir string
	baseURL   string
}

// NewPageWriter creates a new PageWriter
func NewPageWriter(outputDir, baseURL string) *PageWriter {
	return &PageWriter{outputDir: outputDir, baseURL: baseURL}
}

// OutputDir returns the directory files are written to
func (w *PageWriter) OutputDir() string {
	return w.outputDir
}

// Save encodes img in the theme's output format and writes it as
// <slug>_<sequence>.<ext>. A batch without a slug uses its sanitized group key.
func (w *PageWriter) Save(ctx context.Context, batch models.Batch, img image.Image, out models.OutputFormat) (models.FlyerPage, error) {
	data, err := EncodeImage(img, out)
	if err != nil {
		return models.FlyerPage{}, err
	}

	slug := batch.Slug
	if slug == "" {
		slug = utils.SanitizeGroupKey(batch.GroupKey)
	}
	name := utils.PageFileName(slug, batch.Sequence, out.Extension())
	path, url, err := w.WriteFile(ctx, name, data)
	if err != nil {
		return models.FlyerPage{}, err
	}

	rows := make([]int, len(batch.Records))
	for i, rec := range batch.Records {
		rows[i] = rec.Row
	}

	return models.FlyerPage{
		GroupKey: batch.GroupKey,
		Slug:     slug,
		Sequence: batch.Sequence,
		FileName: name,
		Path:     path,
		URL:      url,
		Rows:     rows,
		Image:    img,
	}, nil
}

// WriteFile writes data under the output directory, creating it if needed
func (w *PageWriter) WriteFile(ctx context.Context, name string, data []byte) (path, url string, err error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path = filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	logger.FromContext(ctx).Info("💾 File written", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, utils.PublicURL(w.baseURL, name), nil
}

// EncodeImage encodes img as JPEG (with the configured quality) or PNG
func EncodeImage(img image.Image, out models.OutputFormat) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if out.Format == "png" {
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		quality := out.Quality
		if quality <= 0 {
			quality = 85
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	return buf.Bytes(), nil
}
