package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"ornament-catalog/catalog"
	"ornament-catalog/models"
)

const (
	iconsPath       = "/api/icons"
	currentUserPath = "/api/users/me"
	purchasePath    = "/api/icons/purchase"

	maxErrorBodyBytes = 4 << 10
)

// BackendClient talks to the icon backend over HTTP
// Implements catalog.Backend
type BackendClient struct {
	baseURL      string
	httpClient   *http.Client
	maxDimension int
}

// NewBackendClient creates a new BackendClient.
// maxDimension bounds the width and height of uploaded images.
func NewBackendClient(baseURL string, timeout time.Duration, maxDimension int) *BackendClient {
	return &BackendClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		maxDimension: maxDimension,
	}
}

// Ensure BackendClient implements catalog.Backend
var _ catalog.Backend = (*BackendClient)(nil)

// FetchIcons handles GET /api/icons
func (c *BackendClient) FetchIcons(ctx context.Context, cred catalog.Credential) ([]models.Icon, error) {
	const op = "fetch icons"

	var body models.IconListResponse
	if err := c.getJSON(ctx, op, iconsPath, cred, &body); err != nil {
		return nil, err
	}

	log.Printf("✓ FetchIcons: Received %d icons", len(body.Data))
	return body.Data, nil
}

// FetchCurrentUser handles GET /api/users/me
func (c *BackendClient) FetchCurrentUser(ctx context.Context, cred catalog.Credential) (*models.CurrentUser, error) {
	const op = "fetch current user"

	var body models.CurrentUserResponse
	if err := c.getJSON(ctx, op, currentUserPath, cred, &body); err != nil {
		return nil, err
	}
	return &body.Data, nil
}

// Purchase handles POST /api/icons/purchase
// Only 200 OK counts as a recorded purchase (enforced by do)
func (c *BackendClient) Purchase(ctx context.Context, cred catalog.Credential, iconID int64) error {
	const op = "purchase"

	payload, err := json.Marshal(models.PurchaseRequest{IconID: iconID})
	if err != nil {
		return fmt.Errorf("failed to encode purchase request: %w", err)
	}

	req, err := c.newRequest(ctx, op, http.MethodPost, purchasePath, bytes.NewReader(payload), cred)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, op)
	if err != nil {
		return err
	}
	resp.Body.Close()

	log.Printf("💰 Purchase: Backend recorded purchase of icon %d", iconID)
	return nil
}

// CreateIcon handles POST /api/icons (multipart: iconName, price, iconImage)
func (c *BackendClient) CreateIcon(ctx context.Context, cred catalog.Credential, in models.CreateIconRequest) (*models.Icon, error) {
	const op = "create icon"

	img, err := OptimizeUpload(in.Image, c.maxDimension)
	if err != nil {
		return nil, &catalog.Error{Kind: catalog.KindPrecondition, Op: op, Message: "file is not a supported image", Err: err}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("iconName", in.Name); err != nil {
		return nil, fmt.Errorf("failed to write iconName field: %w", err)
	}
	if err := mw.WriteField("price", strconv.FormatInt(in.Price, 10)); err != nil {
		return nil, fmt.Errorf("failed to write price field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="iconImage"; filename="%s"`, escapeQuotes(img.FileName)))
	header.Set("Content-Type", img.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create iconImage part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, fmt.Errorf("failed to write iconImage part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, op, http.MethodPost, iconsPath, &buf, cred)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body models.IconResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, catalog.Rejection(op, resp.StatusCode, "unexpected response from backend")
	}
	if body.Data.IconID == 0 {
		log.Printf("❌ CreateIcon: Response has no iconId")
		return nil, catalog.Rejection(op, resp.StatusCode, "unexpected response from backend")
	}

	log.Printf("✅ CreateIcon: Created icon %d (%s, %d bytes)", body.Data.IconID, in.Name, len(img.Data))
	return &body.Data, nil
}

func (c *BackendClient) getJSON(ctx context.Context, op, path string, cred catalog.Credential, out interface{}) error {
	req, err := c.newRequest(ctx, op, http.MethodGet, path, nil, cred)
	if err != nil {
		return err
	}

	resp, err := c.do(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func (c *BackendClient) newRequest(ctx context.Context, op, method, path string, body io.Reader, cred catalog.Credential) (*http.Request, error) {
	if strings.TrimSpace(string(cred)) == "" {
		return nil, catalog.Auth(op, 0)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+string(cred))
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and classifies transport and auth failures.
// Any status other than 200 is a rejection.
func (c *BackendClient) do(req *http.Request, op string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ %s: Request to %s failed: %v", op, req.URL.Path, err)
		return nil, catalog.Network(op, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		log.Printf("❌ %s: Backend refused credential (status %d)", op, resp.StatusCode)
		return nil, catalog.Auth(op, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		log.Printf("❌ %s: Backend returned status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(data)))
		return nil, catalog.Rejection(op, resp.StatusCode, rejectionMessage(data))
	}

	return resp, nil
}

// rejectionMessage extracts {"message": "..."} from an error body, if present
func rejectionMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
