package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"flyer-builder/flyer"
	"flyer-builder/logger"
)

const driveScheme = "drive://"

// AssetStore resolves theme asset references: http(s) URLs, drive://<fileId>
// and paths relative to the asset directory.
type AssetStore struct {
	client   *http.Client
	drive    DriveServiceInterface
	baseDir  string
	maxBytes int64
}

// Ensure AssetStore implements flyer.FontLoader
var _ flyer.FontLoader = (*AssetStore)(nil)

// NewAssetStore creates an AssetStore. drive may be nil when no Drive credentials are configured.
func NewAssetStore(client *http.Client, drive DriveServiceInterface, baseDir string, maxBytes int64) *AssetStore {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &AssetStore{client: client, drive: drive, baseDir: baseDir, maxBytes: maxBytes}
}

// Open returns the raw bytes of ref
func (s *AssetStore) Open(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("empty asset reference")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return httpGet(ctx, s.client, ref, s.maxBytes, "")
	case strings.HasPrefix(ref, driveScheme):
		if s.drive == nil {
			return nil, fmt.Errorf("asset %s needs drive credentials", ref)
		}
		return s.drive.DownloadFile(ctx, strings.TrimPrefix(ref, driveScheme))
	default:
		path := ref
		if !filepath.IsAbs(path) && s.baseDir != "" {
			path = filepath.Join(s.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset: %w", err)
		}
		return data, nil
	}
}

// LoadImage decodes the image at ref. An empty or unusable reference yields nil.
func (s *AssetStore) LoadImage(ctx context.Context, ref string) image.Image {
	if strings.TrimSpace(ref) == "" {
		return nil
	}
	data, err := s.Open(ctx, ref)
	if err != nil {
		logger.FromContext(ctx).Warn("⚠️  Theme asset unavailable", zap.String("ref", ref), zap.Error(err))
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logger.FromContext(ctx).Warn("⚠️  Theme asset could not be decoded", zap.String("ref", ref), zap.Error(err))
		return nil
	}
	return img
}

// LoadAssets loads the logo and header image of a theme
func (s *AssetStore) LoadAssets(ctx context.Context, logo, header string) flyer.Assets {
	return flyer.Assets{
		Logo:        s.LoadImage(ctx, logo),
		HeaderImage: s.LoadImage(ctx, header),
	}
}
