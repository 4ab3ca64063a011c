package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"flyer-builder/logger"
)

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
func NewDriveService(ctx context.Context, opts ...option.ClientOption) (*DriveService, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// DownloadFile returns the content of a Drive file
func (ds *DriveService) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive file %s: %w", fileID, err)
	}
	return data, nil
}

// UploadFile stores data as name inside folderID, replacing the content of a
// same-named file when one exists. Returns the Drive file id.
func (ds *DriveService) UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error) {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf("'%s' in parents and name = '%s' and trashed=false", folderID, escapeDriveQuery(name))
	existing, err := ds.client.Files.List().
		Q(query).
		Fields("files(id, name)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to list files: %w", err)
	}

	if len(existing.Files) > 0 {
		id := existing.Files[0].Id
		_, err := ds.client.Files.Update(id, &drive.File{MimeType: mimeType}).
			Media(bytes.NewReader(data)).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("failed to update drive file %s: %w", name, err)
		}
		log.Info("🔁 Drive file replaced", zap.String("name", name), zap.String("id", id))
		return id, nil
	}

	created, err := ds.client.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{folderID},
		MimeType: mimeType,
	}).
		Media(bytes.NewReader(data)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload drive file %s: %w", name, err)
	}
	log.Info("⬆️  Drive file uploaded", zap.String("name", name), zap.String("id", created.Id))
	return created.Id, nil
}

func escapeDriveQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
