package service

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"ornament-catalog/catalog"
	"ornament-catalog/models"
)

const (
	// Quality for JPEG uploads; PNG and GIF are re-encoded as PNG to keep transparency
	qualityJPEG = 85
	// Default max dimension when none is configured
	defaultMaxDimension = 512
)

// supportedImageTypes lists the content types accepted for custom ornaments
var supportedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/gif":  true,
}

// IsSupportedImageType reports whether contentType can be uploaded as an ornament
func IsSupportedImageType(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return supportedImageTypes[mediaType]
}

// OptimizeUpload prepares a user image for upload: it is decoded, resized so
// neither side exceeds maxDim, and re-encoded (JPEG stays JPEG, everything else becomes PNG)
func OptimizeUpload(img models.UploadImage, maxDim int) (models.UploadImage, error) {
	if maxDim <= 0 {
		maxDim = defaultMaxDimension
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return models.UploadImage{}, fmt.Errorf("failed to read image header: %w", err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return models.UploadImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, decoded.Bounds())

	// Resize image if needed
	bounds := decoded.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = decoded
	if width > maxDim || height > maxDim {
		// Calculate new dimensions maintaining aspect ratio
		var newWidth, newHeight int
		if width > height {
			newWidth = maxDim
			newHeight = int(float64(height) * float64(maxDim) / float64(width))
		} else {
			newHeight = maxDim
			newWidth = int(float64(width) * float64(maxDim) / float64(height))
		}
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}

		log.Printf("🔄 Resizing image: %dx%d -> %dx%d", width, height, newWidth, newHeight)
		resized = imaging.Resize(decoded, newWidth, newHeight, imaging.Lanczos)
	}

	out := models.UploadImage{FileName: img.FileName}
	var buf bytes.Buffer
	if format == "jpeg" {
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(qualityJPEG)); err != nil {
			return models.UploadImage{}, fmt.Errorf("failed to encode to JPEG: %w", err)
		}
		out.ContentType = "image/jpeg"
		out.FileName = withExtension(img.FileName, ".jpg")
	} else {
		if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
			return models.UploadImage{}, fmt.Errorf("failed to encode to PNG: %w", err)
		}
		out.ContentType = "image/png"
		out.FileName = withExtension(img.FileName, ".png")
	}
	out.Data = buf.Bytes()

	log.Printf("✓ Image optimized: max=%d, output_size=%d bytes", maxDim, len(out.Data))
	return out, nil
}

func withExtension(name, ext string) string {
	if name == "" {
		name = "ornament"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// previewDimension bounds the thumbnail embedded in views of a pending upload
const previewDimension = 128

// PrepareUpload checks that an acquired image can be decoded and attaches a small PNG preview.
// An image that cannot be decoded is refused before it reaches the upload flow.
func PrepareUpload(img models.UploadImage) (models.UploadImage, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
		log.Printf("❌ PrepareUpload: %s is not a decodable image: %v", img.FileName, err)
		return models.UploadImage{}, catalog.Precondition("upload", "file is not a supported image")
	}

	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("❌ PrepareUpload: Failed to decode %s: %v", img.FileName, err)
		return models.UploadImage{}, catalog.Precondition("upload", "file is not a supported image")
	}

	var buf bytes.Buffer
	thumb := imaging.Fit(decoded, previewDimension, previewDimension, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return models.UploadImage{}, fmt.Errorf("failed to encode preview: %w", err)
	}
	img.Preview = buf.Bytes()

	log.Printf("📸 PrepareUpload: %s accepted, preview=%d bytes", img.FileName, len(img.Preview))
	return img, nil
}
