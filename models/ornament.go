package models

// AddSlotID is the id of the synthetic "add ornament" tile.
// Backend ids are always positive, so it can never collide with one.
const AddSlotID int64 = -1

// OrnamentRecord represents a single ornament in the catalog
type OrnamentRecord struct {
	ID        int64  `json:"id"`
	Image     string `json:"image"`     // Absolute image URL, or a data URI for a pending upload
	Name      string `json:"name"`
	Price     int64  `json:"price"`     // 0 means free
	IsAddSlot bool   `json:"isAddSlot"` // True only for the synthetic upload tile
}

// Icon represents an icon as returned by the backend
// Example: {"iconId": 3, "iconPath": "/images/star.png", "iconName": "Star", "purchased": false, "price": 5}
type Icon struct {
	IconID    int64  `json:"iconId"`
	IconPath  string `json:"iconPath"`
	IconName  string `json:"iconName"`
	Purchased bool   `json:"purchased"`
	Price     int64  `json:"price"`
}

// IconListResponse is the envelope returned by GET /api/icons
type IconListResponse struct {
	Data []Icon `json:"data"`
}

// IconResponse is the envelope returned by POST /api/icons
type IconResponse struct {
	Data Icon `json:"data"`
}
