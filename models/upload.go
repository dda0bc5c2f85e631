package models

// UploadImage is an image supplied by the user for a custom ornament.
// The catalog treats it as opaque until it is submitted.
type UploadImage struct {
	FileName    string
	ContentType string
	Data        []byte
	// Preview is a small PNG shown on the upload tile; Data is used when empty
	Preview []byte
}

// CreateIconRequest represents the fields sent to POST /api/icons (multipart)
type CreateIconRequest struct {
	Name  string
	Price int64
	Image UploadImage
}

// SelectRequest represents the request body for POST /catalog/select
// Example: {"id": 2}
type SelectRequest struct {
	ID int64 `json:"id"`
}

// UploadNameRequest represents the request body for POST /catalog/upload/name
// Example: {"name": "Snowflake"}
type UploadNameRequest struct {
	Name string `json:"name"`
}

// DriveUploadRequest represents the request body for POST /catalog/upload/drive
// Example: {"fileId": "1TtK0fnadxl3r1-8iYlv2GFf5LgdKxmID"}
type DriveUploadRequest struct {
	FileID string `json:"fileId"`
}
