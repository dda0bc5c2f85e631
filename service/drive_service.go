package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"ornament-catalog/models"
)

// MaxUploadBytes bounds the size of an image accepted for a custom ornament
const MaxUploadBytes = 10 << 20

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// FetchImage downloads an image file from Drive so it can be used as a custom ornament
func (ds *DriveService) FetchImage(ctx context.Context, fileID string) (*models.UploadImage, error) {
	log.Printf("🔍 FetchImage: Looking up drive_file_id=%s", fileID)

	file, err := ds.client.Files.Get(fileID).Fields("id, name, mimeType, size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}

	if !IsSupportedImageType(file.MimeType) {
		return nil, fmt.Errorf("file %s is not a supported image (mimeType=%s)", file.Name, file.MimeType)
	}
	if file.Size > MaxUploadBytes {
		return nil, fmt.Errorf("file %s is too large (%d bytes)", file.Name, file.Size)
	}

	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("file %s is too large", file.Name)
	}

	log.Printf("✓ FetchImage: Downloaded %s (%d bytes)", file.Name, len(data))
	return &models.UploadImage{
		FileName:    file.Name,
		ContentType: strings.ToLower(file.MimeType),
		Data:        data,
	}, nil
}
