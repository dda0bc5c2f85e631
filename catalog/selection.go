package catalog

import "ornament-catalog/models"

// Signal tells the caller what a selection attempt did
type Signal string

const (
	SignalSelected       Signal = "selected"
	SignalDeselected     Signal = "deselected"
	SignalRequiresUnlock Signal = "requires-unlock"
	SignalAcquireImage   Signal = "acquire-image"
)

// Selection tracks the single selected ornament
type Selection struct {
	selected *int64
}

// Select applies a tap on ornament. Locked ornaments never change the selection.
func (s *Selection) Select(ornament models.OrnamentRecord, locked bool) Signal {
	if locked {
		if ornament.IsAddSlot {
			return SignalAcquireImage
		}
		return SignalRequiresUnlock
	}
	if s.selected != nil && *s.selected == ornament.ID {
		s.selected = nil
		return SignalDeselected
	}
	s.Set(ornament.ID)
	return SignalSelected
}

// Set selects id unconditionally
func (s *Selection) Set(id int64) {
	s.selected = &id
}

// Clear drops the selection
func (s *Selection) Clear() {
	s.selected = nil
}

// SelectedID returns the selected id, or nil
func (s *Selection) SelectedID() *int64 {
	if s.selected == nil {
		return nil
	}
	id := *s.selected
	return &id
}

// IsSelected reports whether id is the selected ornament
func (s *Selection) IsSelected(id int64) bool {
	return s.selected != nil && *s.selected == id
}

// ConfirmEnabled reports whether the confirm action is available
func (s *Selection) ConfirmEnabled() bool {
	return s.selected != nil
}
