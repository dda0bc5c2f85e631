package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ornament-catalog/models"
)

func TestSelection_ToggleIdempotence(t *testing.T) {
	var sel Selection
	star := models.OrnamentRecord{ID: 1}

	assert.Equal(t, SignalSelected, sel.Select(star, false))
	require.NotNil(t, sel.SelectedID())
	assert.Equal(t, int64(1), *sel.SelectedID())
	assert.True(t, sel.ConfirmEnabled())

	assert.Equal(t, SignalDeselected, sel.Select(star, false))
	assert.Nil(t, sel.SelectedID())
	assert.False(t, sel.ConfirmEnabled())
}

func TestSelection_SwitchesBetweenOrnaments(t *testing.T) {
	var sel Selection
	sel.Select(models.OrnamentRecord{ID: 1}, false)
	sel.Select(models.OrnamentRecord{ID: 3}, false)

	assert.True(t, sel.IsSelected(3))
	assert.False(t, sel.IsSelected(1))
}

func TestSelection_LockedNeverChangesSelection(t *testing.T) {
	var sel Selection
	sel.Select(models.OrnamentRecord{ID: 1}, false)

	assert.Equal(t, SignalRequiresUnlock, sel.Select(models.OrnamentRecord{ID: 2, Price: 5}, true))
	assert.Equal(t, SignalAcquireImage, sel.Select(models.OrnamentRecord{ID: models.AddSlotID, IsAddSlot: true}, true))
	assert.True(t, sel.IsSelected(1))
}
