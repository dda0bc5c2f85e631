package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"ornament-catalog/models"
	"ornament-catalog/utils"
)

//go:embed templates/catalog_sheet.html
var catalogSheetTemplate string

var sheetTemplate = template.Must(template.New("catalog_sheet").Funcs(template.FuncMap{
	"safeImage": safeImage,
	"coins":     utils.FormatCoins,
}).Parse(catalogSheetTemplate))

// CatalogService renders the printable catalog sheet
type CatalogService struct {
	chromePath string
}

// NewCatalogService creates a new CatalogService
// chromePath may be empty, in which case common installation paths are probed
func NewCatalogService(chromePath string) *CatalogService {
	return &CatalogService{chromePath: chromePath}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func (s *CatalogService) detectChromePath() string {
	if s.chromePath != "" {
		if _, err := os.Stat(s.chromePath); err == nil {
			return s.chromePath
		}
	}

	// Common paths to check
	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// safeImage lets data URIs of pending uploads and http(s) image URLs through html/template
func safeImage(src string) template.URL {
	if strings.HasPrefix(src, "data:image/") || strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "/") {
		return template.URL(src)
	}
	return template.URL("#")
}

// RenderCatalogHTML renders every page of the catalog sheet
func (s *CatalogService) RenderCatalogHTML(data models.CatalogSheetData) (string, error) {
	var buf bytes.Buffer
	if err := sheetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the rendered catalog sheet to PDF using chromedp
func (s *CatalogService) GeneratePDF(ctx context.Context, data models.CatalogSheetData) ([]byte, error) {
	htmlContent, err := s.RenderCatalogHTML(data)
	if err != nil {
		return nil, err
	}

	// Create context with timeout (30 seconds)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := s.detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		log.Printf("⚠️  GeneratePDF: No Chrome path found, letting chromedp auto-detect")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		log.Printf("❌ GeneratePDF: chromedp failed: %v", err)
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("✓ GeneratePDF: Generated %d bytes for %d pages", len(pdfBuf), data.PageCount)
	return pdfBuf, nil
}
