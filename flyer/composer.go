package flyer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/sync/errgroup"

	"flyer-builder/models"
	"flyer-builder/utils"
)

var (
	// ErrEmptyBatch is returned when a batch has no records
	ErrEmptyBatch = errors.New("flyer: empty batch")
	// ErrBatchTooLarge is returned when a batch has more records than grid cells
	ErrBatchTooLarge = errors.New("flyer: batch larger than grid")
)

// ImageFetcher resolves a product image URL. A nil image means "absent".
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) image.Image
}

// Assets are the theme images loaded once per group. Either may be nil.
type Assets struct {
	Logo        image.Image
	HeaderImage image.Image
}

// Composer renders batches into flyer canvases
type Composer struct {
	fetcher    ImageFetcher
	fonts      *FontSet
	now        func() time.Time
	fetchLimit int
}

// Option configures a Composer
type Option func(*Composer)

// WithClock sets the clock used for the "generated at" stamp
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithFetchLimit caps concurrent product image fetches per batch
func WithFetchLimit(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.fetchLimit = n
		}
	}
}

// NewComposer creates a Composer
func NewComposer(fetcher ImageFetcher, fonts *FontSet, opts ...Option) *Composer {
	if fonts == nil {
		fonts = NewFontSet(nil)
	}
	c := &Composer{
		fetcher:    fetcher,
		fonts:      fonts,
		now:        time.Now,
		fetchLimit: BatchSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render composes one flyer page for batch using theme th.
// Missing product images, logo or header image only leave their region undecorated.
func (c *Composer) Render(ctx context.Context, batch models.Batch, th models.Theme, assets Assets) (*image.NRGBA, error) {
	if len(batch.Records) == 0 {
		return nil, ErrEmptyBatch
	}
	if cells := th.Grid.Columns * th.Grid.Rows; len(batch.Records) > cells {
		return nil, fmt.Errorf("%w: %d records for %d cells", ErrBatchTooLarge, len(batch.Records), cells)
	}

	images := c.fetchProductImages(ctx, batch.Records)

	canvas := imaging.New(th.Canvas.Width, th.Canvas.Height, th.Palette.Background)
	canvas = c.drawHeader(ctx, canvas, batch.GroupKey, th, assets)
	for i, rec := range batch.Records {
		c.drawCell(ctx, canvas, i, rec, images[i], th)
	}
	return canvas, nil
}

// fetchProductImages fetches concurrently into index-addressed slots so the
// result does not depend on completion order
func (c *Composer) fetchProductImages(ctx context.Context, records []models.ProductRecord) []image.Image {
	images := make([]image.Image, len(records))
	if c.fetcher == nil {
		return images
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fetchLimit)
	for i, rec := range records {
		g.Go(func() error {
			images[i] = c.fetcher.FetchImage(gctx, rec.ImageURL)
			return nil
		})
	}
	_ = g.Wait()
	return images
}

func (c *Composer) drawHeader(ctx context.Context, canvas *image.NRGBA, groupKey string, th models.Theme, assets Assets) *image.NRGBA {
	h := th.Header
	width := th.Canvas.Width
	headerRect := image.Rect(0, 0, width, h.Height)

	fillRect(canvas, headerRect, th.Palette.HeaderBackground)

	if assets.HeaderImage != nil && h.Height > 0 {
		bg := imaging.Fill(assets.HeaderImage, width, h.Height, imaging.Center, imaging.Lanczos)
		pasteOver(canvas, bg, image.Pt(0, 0))
		if h.OverlayOpacity > 0 {
			shade := imaging.New(width, h.Height, color.NRGBA{A: 0xff})
			canvas = imaging.Overlay(canvas, shade, image.Pt(0, 0), h.OverlayOpacity)
		}
	}

	if assets.Logo != nil && h.LogoBox.W > 0 && h.LogoBox.H > 0 {
		var logo *image.NRGBA
		if h.LogoShape == "circle" {
			d := min(h.LogoBox.W, h.LogoBox.H)
			logo = imaging.Fill(assets.Logo, d, d, imaging.Center, imaging.Lanczos)
		} else {
			logo = imaging.Fit(assets.Logo, h.LogoBox.W, h.LogoBox.H, imaging.Lanczos)
		}
		logo = badge(logo, h.LogoShape)
		pos := image.Pt(
			h.LogoBox.X+(h.LogoBox.W-logo.Bounds().Dx())/2,
			h.LogoBox.Y+(h.LogoBox.H-logo.Bounds().Dy())/2,
		)
		pasteOver(canvas, logo, pos)
	}

	if th.Title != "" {
		face := c.face(ctx, th, models.RoleHeader)
		box := image.Rect(0, h.TitleY, width, h.TitleY+LineHeight(face))
		drawCenteredText(canvas, box, face, th.Palette.HeaderText, th.Title)
	}

	// Group label badge, right-aligned: its width depends on the text
	if groupKey != "" {
		face := c.face(ctx, th, models.RoleLabel)
		textW := TextWidth(face, groupKey)
		boxH := LineHeight(face) + h.LabelPadding
		boxW := textW + 2*h.LabelPadding
		if maxW := width - 2*h.LabelMargin; boxW > maxW {
			boxW = maxW
		}
		box := image.Rect(width-h.LabelMargin-boxW, h.LabelY, width-h.LabelMargin, h.LabelY+boxH)
		fillRoundedRect(canvas, box, boxH/2, th.Palette.LabelBackground)
		drawCenteredText(canvas, box, face, th.Palette.LabelText, groupKey)
	}

	if h.StampFormat != "" {
		face := c.face(ctx, th, models.RoleStamp)
		drawText(canvas, headerRect, face, th.Palette.HeaderText, h.StampX, h.StampY, c.now().Format(h.StampFormat))
	}

	if th.Slogan != "" && h.SloganBox.W > 0 && h.SloganBox.H > 0 {
		box := image.Rect(h.SloganBox.X, h.SloganBox.Y, h.SloganBox.X+h.SloganBox.W, h.SloganBox.Y+h.SloganBox.H)
		fillRoundedRect(canvas, box, h.SloganRadius, th.Palette.SloganBackground)
		drawCenteredText(canvas, box, c.face(ctx, th, models.RoleSlogan), th.Palette.SloganText, th.Slogan)
	}

	return canvas
}

func (c *Composer) drawCell(ctx context.Context, canvas *image.NRGBA, index int, rec models.ProductRecord, img image.Image, th models.Theme) {
	g := th.Grid
	pal := th.Palette
	cell := CellRect(g, index)
	pad := g.Padding
	content := image.Rect(cell.Min.X+pad, cell.Min.Y+pad, cell.Max.X-pad, cell.Max.Y-pad)

	// Card
	if g.BorderWidth > 0 {
		fillRoundedRect(canvas, cell, g.CornerRadius, pal.CardBorder)
		fillRoundedRect(canvas, cell.Inset(g.BorderWidth), g.CornerRadius-g.BorderWidth, pal.CardBackground)
	} else {
		fillRoundedRect(canvas, cell, g.CornerRadius, pal.CardBackground)
	}

	// Product image, fitted into a square and centered
	imgBox := image.Rect(
		cell.Min.X+(g.CellWidth-g.ImageSize)/2, content.Min.Y,
		cell.Min.X+(g.CellWidth-g.ImageSize)/2+g.ImageSize, content.Min.Y+g.ImageSize,
	)
	if img != nil && g.ImageSize > 0 {
		fitted := imaging.Fit(img, g.ImageSize, g.ImageSize, imaging.Lanczos)
		fb := fitted.Bounds()
		pasteOver(canvas, fitted, image.Pt(
			imgBox.Min.X+(g.ImageSize-fb.Dx())/2,
			imgBox.Min.Y+(g.ImageSize-fb.Dy())/2,
		))
	}

	// Brand row: brand on the left, SKU block on the right
	brandFace := c.face(ctx, th, models.RoleBrand)
	brandY := imgBox.Max.Y + 12
	brandH := LineHeight(brandFace)
	brandClip := image.Rect(content.Min.X, brandY, content.Max.X, brandY+brandH)

	if sku := rec.SKU; sku != "" && !utils.IsMissing(sku) {
		skuFace := c.face(ctx, th, models.RoleSKU)
		skuH := LineHeight(skuFace) + 10
		skuW := TextWidth(skuFace, sku) + 24
		skuBox := image.Rect(content.Max.X-skuW, brandY+(brandH-skuH)/2, content.Max.X, brandY+(brandH-skuH)/2+skuH)
		fillRoundedRect(canvas, skuBox, 8, pal.SKUBackground)
		drawCenteredText(canvas, skuBox, skuFace, pal.SKUText, sku)
		brandClip.Max.X = skuBox.Min.X - 10
	}

	if brand := utils.Truncate(rec.Brand, th.Text.BrandMaxChars); brand != "" && !utils.IsMissing(brand) {
		drawText(canvas, brandClip, brandFace, pal.BrandText, content.Min.X, brandY, brand)
	}

	// Price row at the bottom of the card
	priceTop := content.Max.Y - g.PriceBoxH
	c.drawPrices(ctx, canvas, rec, th, image.Rect(content.Min.X, priceTop, content.Max.X, content.Max.Y))

	// Title between the brand row and the price row
	titleTop := brandY + brandH + 8
	titleArea := image.Rect(content.Min.X, titleTop, content.Max.X, priceTop-6)
	if title := rec.Title; title != "" && !utils.IsMissing(title) {
		spec := th.Fonts[models.RoleTitle]
		lines, size := ShrinkToFit(ctx, c.fonts, spec, title, ShrinkOptions{
			BoxWidth: titleArea.Dx(),
			MinSize:  th.Text.TitleMinSize,
			Step:     th.Text.TitleStep,
			MaxLines: th.Text.TitleMaxLines,
		})
		lines = utils.Shorten(lines, th.Text.TitleMaxLines, "...")
		face := c.fonts.Face(ctx, spec, size)
		lineStep := int(float64(LineHeight(face)) * 1.15)
		for i, line := range lines {
			drawText(canvas, titleArea, face, pal.TitleText, titleArea.Min.X, titleArea.Min.Y+i*lineStep, line)
		}
	}
}

// drawPrices renders the accent price box and, when it differs, the struck-through regular price
func (c *Composer) drawPrices(ctx context.Context, canvas *image.NRGBA, rec models.ProductRecord, th models.Theme, row image.Rectangle) {
	pal := th.Palette
	hasSale := !utils.IsZeroPrice(rec.SalePrice)
	hasRegular := !utils.IsZeroPrice(rec.RegularPrice)

	primary := rec.SalePrice
	if !hasSale {
		primary = rec.RegularPrice
	}

	priceFace := c.face(ctx, th, models.RolePrice)
	label := utils.PriceLabel(th.Currency, primary)
	boxW := TextWidth(priceFace, label) + 32
	if boxW > row.Dx() {
		boxW = row.Dx()
	}
	box := image.Rect(row.Min.X, row.Min.Y, row.Min.X+boxW, row.Max.Y)
	fillRoundedRect(canvas, box, 12, pal.Accent)
	drawCenteredText(canvas, box, priceFace, pal.AccentText, label)

	if hasSale && hasRegular && !utils.SamePrice(rec.SalePrice, rec.RegularPrice) {
		face := c.face(ctx, th, models.RoleRegular)
		regular := utils.PriceLabel(th.Currency, rec.RegularPrice)
		h := LineHeight(face)
		x := box.Max.X + 16
		y := row.Min.Y + (row.Dy()-h)/2
		w := drawText(canvas, row, face, pal.RegularText, x, y, regular)
		strike := image.Rect(x-2, y+h/2-1, min(x+w+2, row.Max.X), y+h/2+1)
		fillRect(canvas, strike, pal.RegularText)
	}
}

func (c *Composer) face(ctx context.Context, th models.Theme, role string) font.Face {
	spec := th.Fonts[role]
	return c.fonts.Face(ctx, spec, spec.Size)
}
