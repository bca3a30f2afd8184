package router

import (
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/config"
	"github.com/mrnobugz/PosApp-Api/internal/handler"
	"github.com/mrnobugz/PosApp-Api/internal/infra"
	"github.com/mrnobugz/PosApp-Api/internal/middleware"
	"github.com/mrnobugz/PosApp-Api/internal/repository"
	"github.com/mrnobugz/PosApp-Api/internal/service"
	"github.com/mrnobugz/PosApp-Api/internal/sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the Gin engine plus the sync
// scheduler so main can stop it on shutdown.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, breaker *infra.CircuitBreaker) (*gin.Engine, *sync.Scheduler) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	syncRepo := repository.NewSyncRepository(db)

	// ── Sync layer ───────────────────────────────────────────────────────────
	tracker := sync.NewTracker(syncRepo)
	client := sync.NewHTTPClient(sync.ClientConfig{
		BaseURL:    cfg.CommerceAPIURL,
		APIKey:     cfg.CommerceAPIKey,
		Timeout:    time.Duration(cfg.CommerceTimeout) * time.Second,
		Attempts:   cfg.SyncRetryAttempts,
		RetryDelay: time.Duration(cfg.SyncRetryDelay) * time.Second,
	})
	dlq := sync.NewDeadLetterQueue(rdb)
	orch := sync.NewOrchestrator(client, tracker, syncRepo, productRepo, categoryRepo, supplierRepo, dlq, cfg.SyncBatchSize)
	scheduler := sync.NewScheduler(orch, breaker, time.Duration(cfg.SyncIntervalMinutes)*time.Minute)
	if cfg.SyncAutoStart {
		scheduler.Start()
	}

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	journalSvc := service.NewJournalService(accountRepo, journalRepo)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, supplierRepo, customerRepo, tracker)
	saleSvc := service.NewSaleService(saleRepo, productRepo, journalSvc, journalRepo)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, supplierRepo, journalSvc)
	expenseSvc := service.NewExpenseService(expenseRepo, accountRepo, journalSvc)
	dashboardSvc := service.NewDashboardService(saleRepo, productRepo, saleSvc, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	accountingH := handler.NewAccountingHandler(journalSvc, expenseSvc, dashboardSvc)
	syncH := handler.NewSyncHandler(orch, tracker, scheduler, client, breaker, dlq)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	api := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))

	products := api.Group("/products")
	{
		products.GET("", productsH.List)
		products.GET("/low-stock", productsH.LowStock)
		products.GET("/barcode/:barcode", productsH.GetByBarcode)
		products.GET("/:id", productsH.Get)
		products.POST("", productsH.Create)
		products.PUT("/:id", productsH.Update)
		products.DELETE("/:id", middleware.RequireRole("manager", "admin"), productsH.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", catalogH.ListCategories)
		categories.POST("", catalogH.CreateCategory)
		categories.PUT("/:id", catalogH.UpdateCategory)
		categories.DELETE("/:id", middleware.RequireRole("manager", "admin"), catalogH.DeleteCategory)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.GET("", catalogH.ListSuppliers)
		suppliers.POST("", catalogH.CreateSupplier)
		suppliers.PUT("/:id", catalogH.UpdateSupplier)
		suppliers.DELETE("/:id", middleware.RequireRole("manager", "admin"), catalogH.DeleteSupplier)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", catalogH.ListCustomers)
		customers.GET("/balances", salesH.CustomerBalances)
		customers.GET("/:id", catalogH.GetCustomer)
		customers.POST("", catalogH.CreateCustomer)
		customers.PUT("/:id", catalogH.UpdateCustomer)
		customers.DELETE("/:id", middleware.RequireRole("manager", "admin"), catalogH.DeleteCustomer)
	}

	sales := api.Group("/sales")
	{
		sales.GET("", salesH.List)
		sales.GET("/:id", salesH.Get)
		sales.POST("", salesH.Record)
		sales.POST("/:id/payments", salesH.AddPayment)
		sales.DELETE("/:id", middleware.RequireRole("manager", "admin"), salesH.Delete)
	}

	purchases := api.Group("/purchases")
	{
		purchases.GET("", purchasesH.List)
		purchases.GET("/:id", purchasesH.Get)
		purchases.POST("", purchasesH.Record)
	}

	accounting := api.Group("/accounting")
	{
		accounting.GET("/accounts", accountingH.ChartOfAccounts)
		accounting.GET("/accounts/type/:type", accountingH.AccountsByType)
		accounting.GET("/journal", accountingH.JournalEntries)
		accounting.GET("/ledger", accountingH.GeneralLedger)
		accounting.POST("/expenses", accountingH.AddExpense)
		accounting.GET("/expenses", accountingH.ListExpenses)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/profit-loss", accountingH.ProfitAndLoss)
		reports.GET("/balance-sheet", accountingH.BalanceSheet)
		reports.GET("/dashboard", accountingH.Dashboard)
	}

	syncGroup := api.Group("/sync", middleware.RequireRole("manager", "admin"))
	{
		syncGroup.GET("/status", syncH.Status)
		syncGroup.POST("/run", syncH.Run)
		syncGroup.GET("/history", syncH.History)
		syncGroup.GET("/conflicts", syncH.Conflicts)
		syncGroup.POST("/conflicts/:id/resolve", syncH.ResolveConflict)
		syncGroup.POST("/scheduler/start", syncH.StartScheduler)
		syncGroup.POST("/scheduler/stop", syncH.StopScheduler)
		syncGroup.GET("/dlq/:entity", syncH.DeadLetters)
	}

	return r, scheduler
}
