package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacare-api/internal/config"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/handler"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/middleware"
	"github.com/sangkips/pharmacare-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Organization *handler.OrganizationHandler
	Product      *handler.ProductHandler
	Inventory    *handler.InventoryHandler
	Sale         *handler.SaleHandler
	BulkOrder    *handler.BulkOrderHandler
	Patient      *handler.PatientHandler
	Dashboard    *handler.DashboardHandler
	Settings     *handler.SettingsHandler
	User         *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware())

		// Per-organization rate limiter
		rateLimiter := middleware.NewOrgRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/profile", h.User.Me)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	// Dashboards
	protected.GET("/dashboard/pos", h.Dashboard.GetPOSStats)
	protected.GET("/dashboard/bulk-orders", h.Dashboard.GetBulkOrderStats)

	registerOrganizationRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerInventoryRoutes(protected, h)
	registerSaleRoutes(protected, h, deps)
	registerBulkOrderRoutes(protected, h, deps)
	registerPatientRoutes(protected, h)
	registerUserRoutes(protected, h)
}

func registerOrganizationRoutes(protected *gin.RouterGroup, h *Handlers) {
	organizations := protected.Group("/organizations")
	{
		organizations.POST("", h.Organization.Create)
		organizations.GET("/:id", h.Organization.Get)
		organizations.PUT("/:id", h.Organization.Update)
		organizations.GET("/:id/branches", h.Organization.ListBranches)
		organizations.POST("/:id/branches", h.Organization.CreateBranch)
		organizations.PUT("/:id/branches/:branchId", h.Organization.UpdateBranch)
	}

	// Platform admin only
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(enum.UserRoleAdmin))
	{
		admin.GET("/organizations", h.Organization.List)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.GET("/:id/stock", h.Inventory.GetAvailableStock)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Product.ListCategories)
		categories.POST("", h.Product.CreateCategory)
		categories.GET("/:id", h.Product.GetCategory)
		categories.PUT("/:id", h.Product.UpdateCategory)
		categories.DELETE("/:id", h.Product.DeleteCategory)
	}
}

func registerInventoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	batches := protected.Group("/batches")
	{
		batches.GET("", h.Inventory.ListBatches)
		batches.POST("", h.Inventory.ReceiveBatch)
		batches.GET("/expiring", h.Inventory.ListExpiringBatches)
		batches.GET("/:id", h.Inventory.GetBatch)
		batches.PUT("/:id", h.Inventory.UpdateBatch)
		batches.POST("/:id/adjust", h.Inventory.AdjustStock)
	}

	protected.GET("/stock-entries", h.Inventory.ListStockEntries)

	customSuppliers := protected.Group("/custom-suppliers")
	{
		customSuppliers.GET("", h.Inventory.ListCustomSuppliers)
		customSuppliers.POST("", h.Inventory.CreateCustomSupplier)
		customSuppliers.PUT("/:id", h.Inventory.UpdateCustomSupplier)
		customSuppliers.DELETE("/:id", h.Inventory.DeleteCustomSupplier)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	pos := protected.Group("/pos")
	{
		pos.POST("/allocate", h.Sale.PreviewAllocation)
		pos.POST("/validate-stock", h.Sale.ValidateStock)
	}

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", h.Sale.SavePending)
		sales.GET("/pending", h.Sale.ListPending)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", h.Sale.UpdatePending)
		// Completion uses idempotency middleware so a retried request
		// cannot deduct stock twice
		sales.POST("/:id/complete", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Complete)
		sales.POST("/:id/credit-payment", h.Sale.PayCredit)
		sales.GET("/:id/receipt", h.Sale.GetReceipt)
		sales.DELETE("/:id", middleware.RequireRole(enum.UserRoleAdmin, enum.UserRolePharmacyOwner), h.Sale.Delete)
	}
}

func registerBulkOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/bulk-orders")
	{
		orders.GET("", h.BulkOrder.List)
		// Creation uses idempotency middleware to prevent duplicate orders
		orders.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.BulkOrder.Create)
		orders.GET("/:id", h.BulkOrder.Get)
		orders.GET("/:id/logs", h.BulkOrder.GetStatusLogs)
		orders.POST("/:id/confirm", h.BulkOrder.BuyerConfirm)
		orders.POST("/:id/payments", h.BulkOrder.RecordPayment)
		orders.POST("/:id/deliver", h.BulkOrder.MarkDelivered)
		orders.POST("/:id/import", h.BulkOrder.ImportStock)
		orders.POST("/:id/complete", h.BulkOrder.Complete)
		orders.POST("/:id/cancel", h.BulkOrder.Cancel)

		// Supplier-side actions
		supplierOnly := middleware.RequireRole(enum.UserRoleSupplierAdmin)
		orders.POST("/:id/review", supplierOnly, h.BulkOrder.StartReview)
		orders.POST("/:id/respond", supplierOnly, h.BulkOrder.SupplierRespond)
		orders.POST("/:id/ship", supplierOnly, h.BulkOrder.Ship)
		orders.POST("/:id/release", supplierOnly, h.BulkOrder.ReleaseStock)
	}
}

func registerPatientRoutes(protected *gin.RouterGroup, h *Handlers) {
	patients := protected.Group("/patients")
	{
		patients.GET("", h.Patient.List)
		patients.POST("", h.Patient.Create)
		patients.GET("/:id", h.Patient.Get)
		patients.PUT("/:id", h.Patient.Update)
		patients.DELETE("/:id", h.Patient.Delete)
		patients.GET("/:id/credit", h.Patient.GetCredit)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
	}

	protected.GET("/suppliers", h.User.ListSuppliers)
}
