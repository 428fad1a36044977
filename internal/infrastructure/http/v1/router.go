// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	coreseq "restock/internal/core/sequence"
	"restock/internal/domain"
	"restock/internal/domain/batches"
	"restock/internal/domain/catalogs/product"
	"restock/internal/domain/catalogs/store"
	"restock/internal/domain/catalogs/zone"
	"restock/internal/domain/imports"
	"restock/internal/domain/party"
	"restock/internal/domain/reports"
	"restock/internal/domain/scratch"
	"restock/internal/domain/stocktake"
	"restock/internal/domain/units"
	"restock/internal/infrastructure/http/v1/dto"
	"restock/internal/infrastructure/http/v1/handlers"
	"restock/internal/infrastructure/http/v1/middleware"
	"restock/internal/infrastructure/storage/postgres"
	"restock/internal/infrastructure/storage/postgres/catalog_repo"
	"restock/internal/infrastructure/storage/postgres/document_repo"
	"restock/internal/infrastructure/storage/postgres/register_repo"
	"restock/internal/infrastructure/storage/postgres/report_repo"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks)
	Pool *postgres.Pool

	// TxManager runs database transactions
	TxManager *postgres.TxManager

	// Sequence issues document codes
	Sequence coreseq.Generator

	// ScratchStore holds the recoverable draft slot
	ScratchStore scratch.Store

	// CachePinger reports scratch backend health; nil for in-memory
	CachePinger handlers.Pinger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.CachePinger)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")
	{
		registerCatalogRoutes(api, cfg)
		registerDocumentRoutes(api, cfg)
		registerReportRoutes(api, cfg)
	}

	return router
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := domain.NewCatalogService(domain.CatalogServiceConfig[*product.Product]{
			Repo:       repo,
			TxManager:  cfg.TxManager,
			EntityName: "product",
		})
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
			Service:    service,
			EntityName: "product",
			MapCreateDTO: func(req dto.CreateProductRequest) (*product.Product, error) {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) (*product.Product, error) {
				if err := req.ApplyTo(existing); err != nil {
					return nil, err
				}
				return existing, nil
			},
			MapToDTO: func(p *product.Product) any { return p },
		})
		handler.RegisterRoutes(catalogs.Group("/products"))
	}

	// --- CATEGORIES ---
	{
		repo := catalog_repo.NewCategoryRepo(cfg.TxManager)
		service := domain.NewCatalogService(domain.CatalogServiceConfig[*product.Category]{
			Repo:       repo,
			TxManager:  cfg.TxManager,
			EntityName: "category",
		})
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*product.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
			Service:    service,
			EntityName: "category",
			MapCreateDTO: func(req dto.CreateCategoryRequest) (*product.Category, error) {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *product.Category) (*product.Category, error) {
				if err := req.ApplyTo(existing); err != nil {
					return nil, err
				}
				return existing, nil
			},
			MapToDTO: func(cat *product.Category) any { return cat },
		})
		handler.RegisterRoutes(catalogs.Group("/categories"))
	}

	// --- STORES ---
	{
		repo := catalog_repo.NewStoreRepo(cfg.TxManager)
		service := domain.NewCatalogService(domain.CatalogServiceConfig[*store.Store]{
			Repo:       repo,
			TxManager:  cfg.TxManager,
			EntityName: "store",
		})
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*store.Store, dto.CreateStoreRequest, dto.UpdateStoreRequest]{
			Service:    service,
			EntityName: "store",
			MapCreateDTO: func(req dto.CreateStoreRequest) (*store.Store, error) {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateStoreRequest, existing *store.Store) (*store.Store, error) {
				if err := req.ApplyTo(existing); err != nil {
					return nil, err
				}
				return existing, nil
			},
			MapToDTO: func(s *store.Store) any { return s },
		})
		handler.RegisterRoutes(catalogs.Group("/stores"))
	}

	// --- ZONES ---
	{
		repo := catalog_repo.NewZoneRepo(cfg.TxManager)
		service := domain.NewCatalogService(domain.CatalogServiceConfig[*zone.Zone]{
			Repo:       repo,
			TxManager:  cfg.TxManager,
			EntityName: "zone",
		})
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*zone.Zone, dto.CreateZoneRequest, dto.UpdateZoneRequest]{
			Service:    service,
			EntityName: "zone",
			MapCreateDTO: func(req dto.CreateZoneRequest) (*zone.Zone, error) {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateZoneRequest, existing *zone.Zone) (*zone.Zone, error) {
				if err := req.ApplyTo(existing); err != nil {
					return nil, err
				}
				return existing, nil
			},
			MapToDTO: func(z *zone.Zone) any { return z },
		})
		handler.RegisterRoutes(catalogs.Group("/zones"))
	}

	// --- PARTIES ---
	{
		repo := catalog_repo.NewPartyRepo(cfg.TxManager)
		service := domain.NewCatalogService(domain.CatalogServiceConfig[*party.Party]{
			Repo:       repo,
			TxManager:  cfg.TxManager,
			EntityName: "party",
		})
		handler := handlers.NewPartyHandler(baseHandler, service, repo)
		handler.RegisterRoutes(catalogs.Group("/parties"))
	}
}

// registerDocumentRoutes registers the import workflow endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	calc := imports.NewCalculator(units.DefaultConverter())

	importRepo := document_repo.NewImportTransactionRepo(cfg.TxManager)
	partyRepo := catalog_repo.NewPartyRepo(cfg.TxManager)
	zoneRepo := catalog_repo.NewZoneRepo(cfg.TxManager)
	batchRepo := register_repo.NewBatchRepo(cfg.TxManager)
	stocktakeRepo := register_repo.NewStocktakeRepo(cfg.TxManager)

	debtService := party.NewDebtService(partyRepo)
	batchService := batches.NewService(batchRepo)
	zoneDirectory := zone.NewDirectory(zoneRepo)

	importService := imports.NewService(
		importRepo,
		cfg.TxManager,
		cfg.Sequence,
		calc,
		debtService,
		batchService,
		zoneDirectory,
	)

	importHandler := handlers.NewImportTransactionHandler(baseHandler, importService, cfg.ScratchStore)
	importHandler.RegisterRoutes(rg.Group("/document/import-transaction"))

	reconciler := stocktake.NewReconciler(stocktakeRepo, batchService, calc)
	stocktakeHandler := handlers.NewStocktakeHandler(baseHandler, reconciler)
	stocktakeHandler.RegisterRoutes(rg.Group("/stocktakes"))

	if cfg.ScratchStore != nil {
		scratchHandler := handlers.NewScratchHandler(baseHandler, cfg.ScratchStore, calc)
		scratchHandler.RegisterRoutes(rg.Group("/scratch"))
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	reportRepo := report_repo.NewPurchaseReportRepo(cfg.TxManager)
	reportService := reports.NewService(reportRepo)
	reportHandler := handlers.NewReportsHandler(baseHandler, reportService)
	reportHandler.RegisterRoutes(rg.Group("/reports"))
}
