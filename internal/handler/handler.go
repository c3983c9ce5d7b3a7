package handler

import (
	"database/sql"

	"bill_tracker/internal/bill"
	"bill_tracker/internal/category"
	"bill_tracker/internal/config"
	"bill_tracker/internal/dashboard"
	"bill_tracker/internal/export"
	"bill_tracker/internal/middleware"
	"bill_tracker/internal/observability"
	"bill_tracker/internal/session"
	"bill_tracker/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()

	// Route middleware has to be registered before the routes themselves
	r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))

	sessions := session.NewStore(redisClient)

	// Initialize repositories
	userRepo := user.NewUserRepository()
	categoryRepo := category.NewCategoryRepository()
	billRepo := bill.NewBillRepository()
	dashboardRepo := dashboard.NewDashboardRepository()

	// Initialize services
	userService := user.NewUserService(userRepo, categoryRepo, db)
	billService := bill.NewBillService(billRepo, categoryRepo, db, redisClient)
	dashboardService := dashboard.NewDashboardService(dashboardRepo, db, redisClient)

	// Initialize controllers
	userController := user.NewUserController(userService, sessions, cfg.Session.CookieName, cfg.Session.SecureCookie)
	billController := bill.NewBillController(billService)
	dashboardController := dashboard.NewDashboardController(dashboardService)
	exportController := export.NewExportController(billService)

	// Setup routes
	setupRoutes(r, userController, billController, dashboardController, exportController, sessions, redisClient, cfg)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(
	r *gin.Engine,
	userCtrl *user.UserController,
	billCtrl *bill.BillController,
	dashboardCtrl *dashboard.DashboardController,
	exportCtrl *export.ExportController,
	sessions *session.Store,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	sessionAuth := middleware.SessionAuth(sessions, cfg.Session.CookieName)

	// Public routes - Authentication
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", userCtrl.Register)
		// Login is rate limited per client IP before it ever reaches the store
		authGroup.POST("/login", middleware.RateLimiterMiddleware(redisClient, middleware.LoginRateLimiterConfig()), userCtrl.Login)
	}

	// Session-protected auth routes
	authProtected := r.Group("/auth")
	authProtected.Use(sessionAuth)
	{
		authProtected.POST("/logout", userCtrl.Logout)
		authProtected.GET("/me", userCtrl.Me)
	}

	// Protected routes - bills, dashboard, export
	protected := r.Group("/")
	protected.Use(sessionAuth)
	{
		// Bill endpoints
		protected.GET("/bills", billCtrl.List)
		protected.POST("/bills", billCtrl.Create)
		protected.PUT("/bills/:id", billCtrl.Update)
		protected.DELETE("/bills/:id", billCtrl.Delete)
		protected.POST("/bills/:id/pay", billCtrl.Pay)
		protected.POST("/bills/:id/reopen", billCtrl.Reopen)
		protected.GET("/bills/meta/categories", billCtrl.Categories)

		// Dashboard
		protected.GET("/dashboard", dashboardCtrl.Summary)

		// CSV export
		protected.GET("/export/csv", exportCtrl.CSV)
	}
}
