package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ornament-catalog/models"
)

func sampleIcons() []models.Icon {
	return []models.Icon{
		{IconID: 1, IconPath: "/images/star.png", IconName: "Star", Price: 0},
		{IconID: 2, IconPath: "/images/bell.png", IconName: "Bell", Price: 5},
	}
}

func TestStore_LoadAppendsAddSlot(t *testing.T) {
	s := NewStore("http://localhost:8080/", "/static/ornament/add.png")
	s.Load(sampleIcons())

	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "http://localhost:8080/images/star.png", records[0].Image)
	assert.Equal(t, int64(2), records[1].ID)

	last := records[2]
	assert.True(t, last.IsAddSlot)
	assert.Equal(t, models.AddSlotID, last.ID)
	assert.Equal(t, "/static/ornament/add.png", last.Image)
}

func TestStore_IsLocked(t *testing.T) {
	s := NewStore("", "")
	s.Load(sampleIcons())

	assert.False(t, s.IsLocked(1))
	assert.True(t, s.IsLocked(2))
	assert.True(t, s.IsLocked(99), "unknown ids are locked")
}

func TestStore_PurchasedFromSourceIsUnlocked(t *testing.T) {
	s := NewStore("", "")
	s.Load([]models.Icon{{IconID: 4, Price: 7, Purchased: true}})

	assert.False(t, s.IsLocked(4))
}

func TestStore_MarkUnlockedRoundTrip(t *testing.T) {
	s := NewStore("", "")
	s.Load(sampleIcons())

	for _, id := range []int64{1, 2, 99} {
		s.MarkUnlocked(id)
		s.MarkUnlocked(id)
		assert.False(t, s.IsLocked(id), "id=%d", id)
	}
}

func TestStore_ReloadKeepsPriorUnlocks(t *testing.T) {
	s := NewStore("", "")
	s.Load(sampleIcons())
	s.MarkUnlocked(2)

	// The backend has not caught up yet
	s.Load(sampleIcons())

	assert.False(t, s.IsLocked(2))
}

func TestStore_AddSlotLockFollowsPendingImage(t *testing.T) {
	s := NewStore("", "/static/ornament/add.png")
	s.Load(sampleIcons())

	assert.True(t, s.IsLocked(models.AddSlotID))

	s.SetPendingImage(&models.UploadImage{ContentType: "image/png", Data: []byte{1, 2, 3}})
	assert.False(t, s.IsLocked(models.AddSlotID))
	rec, ok := s.Lookup(models.AddSlotID)
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AQID", rec.Image)

	s.SetPendingImage(nil)
	assert.True(t, s.IsLocked(models.AddSlotID))
}

func TestDeriveUnlocked_ContainsEveryFreeID(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := rng.Intn(40)
		icons := make([]models.Icon, n)
		for i := range icons {
			icons[i] = models.Icon{
				IconID:    int64(i + 1),
				Price:     int64(rng.Intn(3)) * 5,
				Purchased: rng.Intn(4) == 0,
			}
		}

		unlocked := DeriveUnlocked(icons, nil)
		for _, icon := range icons {
			if icon.Price == 0 {
				assert.True(t, unlocked[icon.IconID], "round=%d id=%d", round, icon.IconID)
			}
			if icon.Price > 0 {
				assert.Equal(t, icon.Purchased, unlocked[icon.IconID], "round=%d id=%d", round, icon.IconID)
			}
		}
	}
}
