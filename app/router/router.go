package router

import (
	"net/http"

	"ornament-catalog/app/controller"
)

type Controllers struct {
	Catalog *controller.CatalogController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Catalog view
	mux.HandleFunc("/catalog", controllers.Catalog.GetCatalog)
	mux.HandleFunc("/catalog/refresh", controllers.Catalog.Refresh)
	mux.HandleFunc("/catalog/select", controllers.Catalog.Select)
	mux.HandleFunc("/catalog/confirm", controllers.Catalog.ConfirmSelection)
	mux.HandleFunc("/catalog/close", controllers.Catalog.Close)

	// Paging
	mux.HandleFunc("/catalog/page/next", controllers.Catalog.NextPage)
	mux.HandleFunc("/catalog/page/previous", controllers.Catalog.PreviousPage)

	// Purchase dialog
	mux.HandleFunc("/catalog/purchase/confirm", controllers.Catalog.ConfirmPurchase)
	mux.HandleFunc("/catalog/purchase/cancel", controllers.Catalog.CancelPurchase)

	// Custom ornament upload
	mux.HandleFunc("/catalog/upload", controllers.Catalog.UploadImage)
	mux.HandleFunc("/catalog/upload/drive", controllers.Catalog.UploadFromDrive)
	mux.HandleFunc("/catalog/upload/name", controllers.Catalog.SubmitUploadName)
	mux.HandleFunc("/catalog/upload/cancel", controllers.Catalog.CancelUpload)

	// Printable catalog and purchase journal
	mux.HandleFunc("/catalog/sheet", controllers.Catalog.GetSheet)
	mux.HandleFunc("/catalog/journal", controllers.Catalog.GetJournal)
}
