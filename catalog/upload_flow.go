package catalog

import (
	"strings"

	"ornament-catalog/models"
)

// UploadState is a state of the custom ornament upload
type UploadState string

const (
	UploadIdle          UploadState = "idle"
	UploadImageAcquired UploadState = "image-acquired"
	UploadNaming        UploadState = "naming"
	UploadSubmitting    UploadState = "submitting"
)

// PendingUpload is the image and name collected so far
type PendingUpload struct {
	Image *models.UploadImage
	Name  string
}

// UploadFlow is the state machine behind creating a custom ornament
type UploadFlow struct {
	state      UploadState
	pending    PendingUpload
	generation uint64
	lastErr    error
}

// NewUploadFlow creates an idle UploadFlow
func NewUploadFlow() *UploadFlow {
	return &UploadFlow{state: UploadIdle}
}

// SupplyImage records the image picked by the user
func (f *UploadFlow) SupplyImage(img models.UploadImage) error {
	if f.state == UploadSubmitting {
		return ErrUploadInFlight
	}
	if len(img.Data) == 0 {
		f.lastErr = Precondition("upload", "upload image first")
		return f.lastErr
	}
	f.pending = PendingUpload{Image: &img}
	f.state = UploadImageAcquired
	f.lastErr = nil
	return nil
}

// OpenNaming opens the name entry for the acquired image
func (f *UploadFlow) OpenNaming() error {
	if f.state != UploadImageAcquired {
		return Precondition("upload", "upload image first")
	}
	f.state = UploadNaming
	return nil
}

// Begin validates the name and returns the create request to send
func (f *UploadFlow) Begin(name string) (models.CreateIconRequest, uint64, error) {
	if f.state == UploadSubmitting {
		return models.CreateIconRequest{}, 0, ErrUploadInFlight
	}
	if f.pending.Image == nil {
		f.reset()
		f.lastErr = Precondition("upload", "upload image first")
		return models.CreateIconRequest{}, 0, f.lastErr
	}
	name = strings.TrimSpace(name)
	if name == "" {
		f.state = UploadNaming
		f.lastErr = Precondition("upload", "enter a name first")
		return models.CreateIconRequest{}, 0, f.lastErr
	}
	f.pending.Name = name
	f.state = UploadSubmitting
	f.lastErr = nil
	return models.CreateIconRequest{
		Name:  name,
		Price: 0,
		Image: *f.pending.Image,
	}, f.generation, nil
}

// Resolve settles the request started by Begin with generation gen.
// A failed request returns to Naming with the image and name kept for a retry,
// except a precondition failure (the image was refused), which resets to Idle.
func (f *UploadFlow) Resolve(gen uint64, err error) Outcome {
	if gen != f.generation || f.state != UploadSubmitting {
		return OutcomeStale
	}
	if KindOf(err) == KindPrecondition {
		f.reset()
		f.lastErr = err
		return OutcomeFailed
	}
	if err != nil {
		f.state = UploadNaming
		f.lastErr = err
		return OutcomeFailed
	}
	f.reset()
	return OutcomeResolved
}

// Cancel drops the pending image and name
func (f *UploadFlow) Cancel() {
	f.generation++
	f.reset()
}

func (f *UploadFlow) reset() {
	f.state = UploadIdle
	f.pending = PendingUpload{}
	f.lastErr = nil
}

// State returns the current state
func (f *UploadFlow) State() UploadState {
	return f.state
}

// Pending returns the image and name collected so far
func (f *UploadFlow) Pending() PendingUpload {
	return f.pending
}

// LastError returns the error of the last failed attempt
func (f *UploadFlow) LastError() error {
	return f.lastErr
}
