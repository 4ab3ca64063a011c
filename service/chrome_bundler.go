package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"flyer-builder/logger"
	"flyer-builder/models"
)

var pagesTemplate = template.Must(template.New("pages").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
@page { size: {{.Width}}px {{.Height}}px; margin: 0; }
html, body { margin: 0; padding: 0; }
.page { width: {{.Width}}px; height: {{.Height}}px; overflow: hidden; page-break-after: always; }
.page:last-child { page-break-after: auto; }
.page img { display: block; width: 100%; height: 100%; }
</style>
</head>
<body>
{{range .Pages}}<section class="page"><img src="{{.}}"></section>
{{end}}</body>
</html>`))

// ChromeBundler prints an HTML page list through headless Chrome
type ChromeBundler struct {
	writer     *PageWriter
	prefix     string
	chromePath string
	timeout    time.Duration
}

// Ensure ChromeBundler implements Bundler
var _ Bundler = (*ChromeBundler)(nil)

// NewChromeBundler creates a new ChromeBundler. An empty chromePath probes the usual install locations.
func NewChromeBundler(writer *PageWriter, prefix, chromePath string) *ChromeBundler {
	return &ChromeBundler{writer: writer, prefix: prefix, chromePath: chromePath, timeout: 60 * time.Second}
}

// detectChromePath returns the configured browser when it exists, else the first common install path
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Bundle renders every page as a full-bleed <section> and prints it to PDF
func (b *ChromeBundler) Bundle(ctx context.Context, groupKey string, pages []models.FlyerPage) (*models.Document, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	html, width, height, err := renderPagesHTML(pages)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // required in containers
	)
	if chromePath := detectChromePath(b.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	log.Info("🖨️  Printing pages with Chrome", zap.String("group", groupKey), zap.Int("pages", len(pages)))

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// paper size in inches at 96 px per inch
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(float64(width) / 96).
				WithPaperHeight(float64(height) / 96).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return writeDocument(ctx, b.writer, b.prefix, groupKey, pages, pdfBuf)
}

// renderPagesHTML inlines the page files as data URIs. The sheet size is taken from the first page.
func renderPagesHTML(pages []models.FlyerPage) (string, int, int, error) {
	sources := make([]template.URL, 0, len(pages))
	width, height := 0, 0
	for i, p := range pages {
		data, err := os.ReadFile(p.Path)
		if err != nil {
			return "", 0, 0, fmt.Errorf("failed to read page %s: %w", p.FileName, err)
		}
		if i == 0 {
			if width, height, err = pageSize(p, data); err != nil {
				return "", 0, 0, err
			}
		}
		dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType(p.FileName), base64.StdEncoding.EncodeToString(data))
		sources = append(sources, template.URL(dataURI))
	}

	var buf bytes.Buffer
	err := pagesTemplate.Execute(&buf, struct {
		Width  int
		Height int
		Pages  []template.URL
	}{width, height, sources})
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), width, height, nil
}
