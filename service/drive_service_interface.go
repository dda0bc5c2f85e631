package service

import (
	"context"

	"ornament-catalog/models"
)

// DriveServiceInterface defines the contract for acquiring upload images from Google Drive
type DriveServiceInterface interface {
	FetchImage(ctx context.Context, fileID string) (*models.UploadImage, error)
}
