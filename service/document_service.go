package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"flyer-builder/logger"
	"flyer-builder/metrics"
	"flyer-builder/models"
	"flyer-builder/utils"
)

// PDFBundler writes one PDF page per flyer, each page sized to its image
// (1 px = 1 pt).
type PDFBundler struct {
	writer *PageWriter
	prefix string
}

// Ensure PDFBundler implements Bundler
var _ Bundler = (*PDFBundler)(nil)

// NewPDFBundler creates a new PDFBundler
func NewPDFBundler(writer *PageWriter, prefix string) *PDFBundler {
	return &PDFBundler{writer: writer, prefix: prefix}
}

// Bundle embeds the encoded page files into <prefix>_<group>.pdf
func (b *PDFBundler) Bundle(ctx context.Context, groupKey string, pages []models.FlyerPage) (*models.Document, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)
	log.Info("📄 Bundling pages", zap.String("group", groupKey), zap.Int("pages", len(pages)))

	var pdf *fpdf.Fpdf
	for i, p := range pages {
		data, err := os.ReadFile(p.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", p.FileName, err)
		}
		w, h, err := pageSize(p, data)
		if err != nil {
			return nil, err
		}

		size := fpdf.SizeType{Wd: float64(w), Ht: float64(h)}
		if pdf == nil {
			pdf = fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", Size: size})
			pdf.SetMargins(0, 0, 0)
			pdf.SetAutoPageBreak(false, 0)
		}
		pdf.AddPageFormat("P", size)

		opts := fpdf.ImageOptions{ImageType: imageType(p.FileName)}
		name := fmt.Sprintf("page_%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		pdf.ImageOptions(name, 0, 0, size.Wd, size.Ht, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to add page %s: %w", p.FileName, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return writeDocument(ctx, b.writer, b.prefix, groupKey, pages, buf.Bytes())
}

// writeDocument stores a finished bundle under the slug its pages were saved with
func writeDocument(ctx context.Context, writer *PageWriter, prefix, groupKey string, pages []models.FlyerPage, data []byte) (*models.Document, error) {
	slug := pages[0].Slug
	if slug == "" {
		slug = utils.SanitizeGroupKey(groupKey)
	}
	name := utils.DocumentFileName(prefix, slug, "pdf")
	path, url, err := writer.WriteFile(ctx, name, data)
	if err != nil {
		return nil, err
	}
	metrics.DocumentsBundled.Inc()

	return &models.Document{
		GroupKey:  groupKey,
		FileName:  name,
		Path:      path,
		URL:       url,
		PageCount: len(pages),
	}, nil
}

// pageSize prefers the in-memory image and falls back to the encoded header
func pageSize(p models.FlyerPage, data []byte) (int, int, error) {
	if p.Image != nil {
		b := p.Image.Bounds()
		return b.Dx(), b.Dy(), nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read page size of %s: %w", p.FileName, err)
	}
	return cfg.Width, cfg.Height, nil
}

func imageType(fileName string) string {
	if strings.EqualFold(filepath.Ext(fileName), ".png") {
		return "PNG"
	}
	return "JPG"
}

func mimeType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}
