package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"ornament-catalog/app/controller"
	"ornament-catalog/app/router"
	"ornament-catalog/config"
	"ornament-catalog/db"
	"ornament-catalog/repository"
	"ornament-catalog/service"
)

// Initialize wires the application and returns its HTTP handler
func Initialize(ctx context.Context, cfg config.Config) (http.Handler, error) {
	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL environment variable is not set")
	}

	backend := service.NewBackendClient(cfg.BackendBaseURL, cfg.BackendTimeout, cfg.UploadMaxDimension)

	// Purchase journal is optional
	var journal repository.PurchaseEventRepositoryInterface
	if dsn := cfg.DatabaseDSN(); dsn != "" {
		if err := db.InitDB(ctx, dsn); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		journal = repository.NewPurchaseEventRepository()
	} else {
		log.Printf("⚠️  No database configured, purchase journal disabled")
	}

	// Drive acquisition is optional
	var driveService service.DriveServiceInterface
	if cfg.CredentialsPath != "" {
		ds, err := service.NewDriveService(ctx, cfg.CredentialsPath)
		if err != nil {
			return nil, err
		}
		driveService = ds
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS not set, Drive uploads disabled")
	}

	catalogService := service.NewCatalogService(cfg.ChromePath)

	// Create controllers
	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(
			backend,
			journal,
			driveService,
			catalogService,
			cfg.AssetURL(),
			cfg.AddSlotImage,
		),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return mux, nil
}
