package catalog

import (
	"encoding/base64"
	"fmt"
	"strings"

	"ornament-catalog/models"
)

// AddSlotName is the display label of the synthetic upload tile
const AddSlotName = "Add ornament"

// Store holds the ornament records and the set of unlocked ids.
// It performs no I/O; it is fed by the catalog fetch.
type Store struct {
	records      []models.OrnamentRecord
	index        map[int64]int
	unlocked     map[int64]bool
	assetBaseURL string
	addSlotImage string
	pendingImage *models.UploadImage
}

// NewStore creates an empty Store.
// assetBaseURL is prepended to every icon path; addSlotImage is the artwork of the upload tile.
func NewStore(assetBaseURL, addSlotImage string) *Store {
	s := &Store{
		index:        make(map[int64]int),
		unlocked:     make(map[int64]bool),
		assetBaseURL: strings.TrimSuffix(assetBaseURL, "/"),
		addSlotImage: addSlotImage,
	}
	s.records = []models.OrnamentRecord{s.addSlot()}
	s.reindex()
	return s
}

// DeriveUnlocked computes the unlocked set for a fresh load:
// every free id, every id the source reports as purchased, and every id unlocked before.
func DeriveUnlocked(icons []models.Icon, prior map[int64]bool) map[int64]bool {
	unlocked := make(map[int64]bool, len(icons)+len(prior))
	for id := range prior {
		unlocked[id] = true
	}
	for _, icon := range icons {
		if icon.Price == 0 || icon.Purchased {
			unlocked[icon.IconID] = true
		}
	}
	return unlocked
}

// Load replaces the full record list and recomputes the unlocked set
func (s *Store) Load(icons []models.Icon) {
	records := make([]models.OrnamentRecord, 0, len(icons)+1)
	for _, icon := range icons {
		records = append(records, models.OrnamentRecord{
			ID:    icon.IconID,
			Image: s.imageURL(icon.IconPath),
			Name:  icon.IconName,
			Price: icon.Price,
		})
	}
	s.unlocked = DeriveUnlocked(icons, s.unlocked)
	s.records = append(records, s.addSlot())
	s.reindex()
}

// Records returns a copy of the records in display order, the upload tile last
func (s *Store) Records() []models.OrnamentRecord {
	out := make([]models.OrnamentRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records including the upload tile
func (s *Store) Len() int {
	return len(s.records)
}

// Lookup returns the record with the given id
func (s *Store) Lookup(id int64) (models.OrnamentRecord, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.OrnamentRecord{}, false
	}
	return s.records[i], true
}

// IsLocked reports whether id requires a purchase (or, for the upload tile, an image) before use
func (s *Store) IsLocked(id int64) bool {
	if id == models.AddSlotID {
		return s.pendingImage == nil
	}
	if s.unlocked[id] {
		return false
	}
	rec, ok := s.Lookup(id)
	if !ok {
		return true
	}
	return rec.Price > 0
}

// MarkUnlocked adds id to the unlocked set
func (s *Store) MarkUnlocked(id int64) {
	s.unlocked[id] = true
}

// UnlockedIDs returns a copy of the unlocked set
func (s *Store) UnlockedIDs() map[int64]bool {
	out := make(map[int64]bool, len(s.unlocked))
	for id := range s.unlocked {
		out[id] = true
	}
	return out
}

// SetPendingImage sets or clears the image shown on the upload tile
func (s *Store) SetPendingImage(img *models.UploadImage) {
	s.pendingImage = img
	if i, ok := s.index[models.AddSlotID]; ok {
		s.records[i] = s.addSlot()
	}
}

// HasPendingImage reports whether an uploaded image is waiting to be named
func (s *Store) HasPendingImage() bool {
	return s.pendingImage != nil
}

func (s *Store) addSlot() models.OrnamentRecord {
	image := s.addSlotImage
	if s.pendingImage != nil {
		image = dataURI(*s.pendingImage)
	}
	return models.OrnamentRecord{
		ID:        models.AddSlotID,
		Image:     image,
		Name:      AddSlotName,
		IsAddSlot: true,
	}
}

func (s *Store) imageURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.assetBaseURL + path
}

func (s *Store) reindex() {
	s.index = make(map[int64]int, len(s.records))
	for i, rec := range s.records {
		s.index[rec.ID] = i
	}
}

func dataURI(img models.UploadImage) string {
	if len(img.Preview) > 0 {
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.Preview)
	}
	mimeType := img.ContentType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(img.Data))
}
