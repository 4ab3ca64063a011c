package flyer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"flyer-builder/logger"
	"flyer-builder/models"
)

// FontLoader gives byte access to font files referenced by themes
type FontLoader interface {
	Open(ctx context.Context, ref string) ([]byte, error)
}

type faceKey struct {
	source string
	style  string
	size   float64
}

// FontSet parses fonts once and caches faces per (source, style, size).
// Faces are not safe for concurrent drawing; the mutex only guards the caches.
type FontSet struct {
	loader FontLoader

	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

// NewFontSet creates a FontSet. A nil loader restricts themes to the embedded Go fonts.
func NewFontSet(loader FontLoader) *FontSet {
	return &FontSet{
		loader: loader,
		fonts:  make(map[string]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face returns a face for spec at the given size. A font that cannot be loaded
// falls back to the embedded Go font of the same style.
func (fs *FontSet) Face(ctx context.Context, spec models.FontSpec, size float64) font.Face {
	if size <= 0 {
		size = spec.Size
	}
	if size <= 0 {
		size = 16
	}

	key := faceKey{source: spec.Source, style: spec.Style, size: size}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if face, ok := fs.faces[key]; ok {
		return face
	}

	f := fs.font(ctx, spec)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("⚠️  Font face failed, using embedded font",
			zap.String("source", spec.Source), zap.Error(err))
		face, _ = opentype.NewFace(embeddedFont(spec.Style), &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	fs.faces[key] = face
	return face
}

// font must be called with fs.mu held
func (fs *FontSet) font(ctx context.Context, spec models.FontSpec) *opentype.Font {
	cacheKey := spec.Source
	if cacheKey == "" {
		cacheKey = "embedded:" + spec.Style
	}
	if f, ok := fs.fonts[cacheKey]; ok {
		return f
	}

	var f *opentype.Font
	if spec.Source != "" && fs.loader != nil {
		parsed, err := fs.load(ctx, spec.Source)
		if err != nil {
			logger.FromContext(ctx).Warn("⚠️  Font unavailable, using embedded font",
				zap.String("source", spec.Source), zap.Error(err))
		} else {
			f = parsed
		}
	}
	if f == nil {
		f = embeddedFont(spec.Style)
	}
	fs.fonts[cacheKey] = f
	return f
}

func (fs *FontSet) load(ctx context.Context, source string) (*opentype.Font, error) {
	data, err := fs.loader.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", source, err)
	}
	return f, nil
}

var (
	embeddedOnce    sync.Once
	embeddedBold    *opentype.Font
	embeddedRegular *opentype.Font
)

func embeddedFont(style string) *opentype.Font {
	embeddedOnce.Do(func() {
		embeddedBold, _ = opentype.Parse(gobold.TTF)
		embeddedRegular, _ = opentype.Parse(goregular.TTF)
	})
	if style == "regular" {
		return embeddedRegular
	}
	return embeddedBold
}

// TextWidth measures s in pixels
func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// LineHeight is ascent plus descent in pixels
func LineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func ascent(face font.Face) fixed.Int26_6 {
	return face.Metrics().Ascent
}
