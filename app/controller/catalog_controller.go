package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"ornament-catalog/catalog"
	"ornament-catalog/models"
	"ornament-catalog/repository"
	"ornament-catalog/service"
)

// CatalogController handles HTTP requests for the ornament catalog.
// One catalog.Session is kept per bearer credential.
type CatalogController struct {
	backend        catalog.Backend
	journal        repository.PurchaseEventRepositoryInterface // nil when no database is configured
	driveService   service.DriveServiceInterface               // nil when Drive is not configured
	catalogService *service.CatalogService
	assetBaseURL   string
	addSlotImage   string

	sessions      map[catalog.Credential]*catalog.Session
	sessionsMutex sync.RWMutex
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(
	backend catalog.Backend,
	journal repository.PurchaseEventRepositoryInterface,
	driveService service.DriveServiceInterface,
	catalogService *service.CatalogService,
	assetBaseURL string,
	addSlotImage string,
) *CatalogController {
	return &CatalogController{
		backend:        backend,
		journal:        journal,
		driveService:   driveService,
		catalogService: catalogService,
		assetBaseURL:   assetBaseURL,
		addSlotImage:   addSlotImage,
		sessions:       make(map[catalog.Credential]*catalog.Session),
	}
}

// validSheetFormats is a map of valid sheet format values
var validSheetFormats = map[string]bool{
	"html": true,
	"pdf":  true,
}

// GetCatalog handles GET /catalog
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

// Refresh handles POST /catalog/refresh
func (c *CatalogController) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, created, ok := c.sessionFor(w, r)
	if !ok {
		return
	}
	if created {
		// The new session was just loaded
		writeJSON(w, http.StatusOK, session.View())
		return
	}
	if err := session.Refresh(r.Context()); err != nil {
		log.Printf("❌ Refresh: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

// Select handles POST /catalog/select
// Body: {"id": 2}
func (c *CatalogController) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}

	var req models.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Select: Error decoding request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	signal, err := session.Select(req.ID)
	if err != nil {
		log.Printf("❌ Select: Ornament %d: %v", req.ID, err)
		writeError(w, err)
		return
	}

	log.Printf("✓ Select: Ornament %d -> %s", req.ID, signal)
	writeJSON(w, http.StatusOK, models.SelectResponse{Signal: string(signal), View: session.View()})
}

// NextPage handles POST /catalog/page/next
func (c *CatalogController) NextPage(w http.ResponseWriter, r *http.Request) {
	c.turnPage(w, r, (*catalog.Session).NextPage)
}

// PreviousPage handles POST /catalog/page/previous
func (c *CatalogController) PreviousPage(w http.ResponseWriter, r *http.Request) {
	c.turnPage(w, r, (*catalog.Session).PreviousPage)
}

func (c *CatalogController) turnPage(w http.ResponseWriter, r *http.Request, turn func(*catalog.Session) bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}
	// Out-of-range moves are no-ops
	turn(session)
	writeJSON(w, http.StatusOK, session.View())
}

// ConfirmPurchase handles POST /catalog/purchase/confirm
func (c *CatalogController) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}
	if err := session.ConfirmPurchase(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

// CancelPurchase handles POST /catalog/purchase/cancel
func (c *CatalogController) CancelPurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}
	session.CancelPurchase()
	writeJSON(w, http.StatusOK, session.View())
}

// UploadImage handles POST /catalog/upload (multipart form, field "image")
func (c *CatalogController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(service.MaxUploadBytes); err != nil {
		log.Printf("❌ UploadImage: Error parsing multipart form: %v", err)
		http.Error(w, fmt.Sprintf("Invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		log.Printf("❌ UploadImage: image field is required: %v", err)
		http.Error(w, "image field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadBytes+1))
	if err != nil {
		log.Printf("❌ UploadImage: Error reading file: %v", err)
		http.Error(w, "Failed to read image", http.StatusBadRequest)
		return
	}
	if len(data) > service.MaxUploadBytes {
		http.Error(w, "Image too large", http.StatusRequestEntityTooLarge)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !service.IsSupportedImageType(contentType) {
		log.Printf("❌ UploadImage: Unsupported content type: %s", contentType)
		http.Error(w, "Unsupported image type. Valid types: png, jpeg, gif", http.StatusUnsupportedMediaType)
		return
	}

	img, err := service.PrepareUpload(models.UploadImage{FileName: header.Filename, ContentType: contentType, Data: data})
	if err != nil {
		writeError(w, err)
		return
	}
	if err := session.SupplyImage(img); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

// UploadFromDrive handles POST /catalog/upload/drive
// Body: {"fileId": "..."}
func (c *CatalogController) UploadFromDrive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.driveService == nil {
		http.Error(w, "Google Drive is not configured", http.StatusServiceUnavailable)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}

	var req models.DriveUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.FileID) == "" {
		http.Error(w, "fileId is required", http.StatusBadRequest)
		return
	}

	img, err := c.driveService.FetchImage(r.Context(), req.FileID)
	if err != nil {
		log.Printf("❌ UploadFromDrive: Error fetching file %s: %v", req.FileID, err)
		http.Error(w, fmt.Sprintf("Failed to fetch image from Drive: %v", err), http.StatusBadGateway)
		return
	}

	prepared, err := service.PrepareUpload(*img)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := session.SupplyImage(prepared); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

// SubmitUploadName handles POST /catalog/upload/name
// Body: {"name": "Snowflake"}
func (c *CatalogController) SubmitUploadName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}

	var req models.UploadNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := session.SubmitUploadName(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

// CancelUpload handles POST /catalog/upload/cancel
func (c *CatalogController) CancelUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}
	session.CancelUpload()
	writeJSON(w, http.StatusOK, session.View())
}

// ConfirmSelection handles POST /catalog/confirm
func (c *CatalogController) ConfirmSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}

	rec, err := session.ConfirmSelection()
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("✅ ConfirmSelection: Ornament %d (%s) chosen", rec.ID, rec.Name)
	writeJSON(w, http.StatusOK, models.ConfirmSelectionResponse{Ornament: rec})
}

// Close handles POST /catalog/close
func (c *CatalogController) Close(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cred, ok := bearerCredential(r)
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	c.sessionsMutex.Lock()
	session, exists := c.sessions[cred]
	delete(c.sessions, cred)
	c.sessionsMutex.Unlock()

	if exists {
		session.Close()
		log.Printf("✓ Close: Session %s closed", session.ID())
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSheet handles GET /catalog/sheet?format=html|pdf
func (c *CatalogController) GetSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "html"
	}
	if !validSheetFormats[format] {
		log.Printf("❌ GetSheet: Invalid format: %s", format)
		http.Error(w, "Invalid format. Valid formats: html, pdf", http.StatusBadRequest)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}
	data := session.Sheet()

	switch format {
	case "html":
		htmlContent, err := c.catalogService.RenderCatalogHTML(data)
		if err != nil {
			log.Printf("❌ GetSheet: Error rendering HTML: %v", err)
			http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(htmlContent)); err != nil {
			log.Printf("❌ GetSheet: Error writing HTML response: %v", err)
		}

	case "pdf":
		pdfData, err := c.catalogService.GeneratePDF(r.Context(), data)
		if err != nil {
			log.Printf("❌ GetSheet: Error generating PDF: %v", err)
			http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="ornament_catalog.pdf"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdfData); err != nil {
			log.Printf("❌ GetSheet: Error writing PDF response: %v", err)
		}
	}
}

// GetJournal handles GET /catalog/journal
func (c *CatalogController) GetJournal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.journal == nil {
		http.Error(w, "Purchase journal is not configured", http.StatusServiceUnavailable)
		return
	}

	session, ok := c.session(w, r)
	if !ok {
		return
	}

	events, err := c.journal.ListBySession(r.Context(), session.ID())
	if err != nil {
		log.Printf("❌ GetJournal: %v", err)
		http.Error(w, fmt.Sprintf("Failed to list journal: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.PurchaseEventListResponse{Events: events})
}

// session returns the session for the request's bearer credential.
// A new session is created and populated on first use.
func (c *CatalogController) session(w http.ResponseWriter, r *http.Request) (*catalog.Session, bool) {
	session, _, ok := c.sessionFor(w, r)
	return session, ok
}

// sessionFor is session, also reporting whether this request created the session
func (c *CatalogController) sessionFor(w http.ResponseWriter, r *http.Request) (*catalog.Session, bool, bool) {
	cred, ok := bearerCredential(r)
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return nil, false, false
	}

	c.sessionsMutex.RLock()
	session, exists := c.sessions[cred]
	c.sessionsMutex.RUnlock()
	if exists {
		return session, false, true
	}

	opts := catalog.Options{
		AssetBaseURL: c.assetBaseURL,
		AddSlotImage: c.addSlotImage,
	}
	if c.journal != nil {
		opts.Journal = c.journal
	}
	session = catalog.NewSession(cred, c.backend, opts)
	if err := session.Refresh(r.Context()); err != nil {
		log.Printf("❌ Session: Initial load failed: %v", err)
		writeError(w, err)
		return nil, false, false
	}

	c.sessionsMutex.Lock()
	defer c.sessionsMutex.Unlock()
	if existing, raced := c.sessions[cred]; raced {
		return existing, false, true
	}
	c.sessions[cred] = session
	log.Printf("✓ Session: Created session %s", session.ID())
	return session, true, true
}

// bearerCredential extracts the token from "Authorization: Bearer <token>"
func bearerCredential(r *http.Request) (catalog.Credential, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return catalog.Credential(token), true
}

// statusFor maps a catalog error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrPurchaseInFlight), errors.Is(err, catalog.ErrUploadInFlight):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrUnknownOrnament):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrNoPurchaseTarget), errors.Is(err, catalog.ErrNothingSelected):
		return http.StatusBadRequest
	}

	switch catalog.KindOf(err) {
	case catalog.KindPrecondition:
		return http.StatusBadRequest
	case catalog.KindAuth:
		return http.StatusUnauthorized
	case catalog.KindRejection:
		return http.StatusConflict
	case catalog.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := catalog.UserMessage(err)
	if msg == "" {
		msg = err.Error()
	}
	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
