package models

// Tile represents a single ornament as shown on the current page
type Tile struct {
	OrnamentRecord
	Locked     bool `json:"locked"`
	Selected   bool `json:"selected"`
	Affordable bool `json:"affordable"` // balance >= price; the lock overlay is shown only when false
}

// PurchaseView represents the state of the purchase confirmation dialog
type PurchaseView struct {
	State     string          `json:"state"`
	Target    *OrnamentRecord `json:"target,omitempty"`
	LastError string          `json:"lastError,omitempty"`
}

// UploadView represents the state of the custom ornament upload
type UploadView struct {
	State     string `json:"state"`
	Name      string `json:"name,omitempty"`
	HasImage  bool   `json:"hasImage"`
	LastError string `json:"lastError,omitempty"`
}

// CatalogView represents everything the UI needs to draw the catalog
// Example response:
// {
//   "sessionId": "5b0c...",
//   "balance": 10,
//   "balanceLabel": "10 coins",
//   "pageIndex": 0,
//   "pageCount": 1,
//   "tiles": [
//     {"id": 1, "image": "http://localhost:8080/images/star.png", "name": "Star", "price": 0,
//      "isAddSlot": false, "locked": false, "selected": false, "affordable": true}
//   ],
//   "selectedId": null,
//   "confirmEnabled": false,
//   "purchase": {"state": "idle"},
//   "upload": {"state": "idle", "hasImage": false}
// }
type CatalogView struct {
	SessionID      string       `json:"sessionId"`
	Balance        int64        `json:"balance"`
	BalanceLabel   string       `json:"balanceLabel"`
	PageIndex      int          `json:"pageIndex"`
	PageCount      int          `json:"pageCount"`
	Tiles          []Tile       `json:"tiles"`
	SelectedID     *int64       `json:"selectedId"`
	ConfirmEnabled bool         `json:"confirmEnabled"`
	Purchase       PurchaseView `json:"purchase"`
	Upload         UploadView   `json:"upload"`
	Notice         string       `json:"notice,omitempty"`
	Stale          bool         `json:"stale"` // The last catalog fetch failed; tiles may be out of date
}

// SelectResponse represents the response for POST /catalog/select
type SelectResponse struct {
	Signal string      `json:"signal"`
	View   CatalogView `json:"view"`
}

// CatalogSheetData represents the data passed to the printable catalog template
type CatalogSheetData struct {
	Pages        [][]Tile `json:"pages"`
	PageCount    int      `json:"pageCount"`
	BalanceLabel string   `json:"balanceLabel"`
}

// ConfirmSelectionResponse represents the response for POST /catalog/confirm
type ConfirmSelectionResponse struct {
	Ornament OrnamentRecord `json:"ornament"`
}
