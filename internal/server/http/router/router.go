package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/rewardportal/internal/config"
	"github.com/polkiloo/rewardportal/internal/server/http/handlers"
	"github.com/polkiloo/rewardportal/internal/server/http/middleware"
	"github.com/polkiloo/rewardportal/internal/server/http/views"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PortalFacade, cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithDecompressFn(gzip.DefaultDecompressHandle),
		gzip.WithExcludedPaths([]string{"/healthz"}),
	))

	pages := handlers.NewPageHandler()
	authHandler := handlers.NewAuthHandler(facade, cfg.Production, logger)
	rewardHandler := handlers.NewRewardHandler(facade, logger)
	withdrawalHandler := handlers.NewWithdrawalHandler(facade, logger)
	healthHandler := handlers.NewHealthHandler(facade, logger)

	throttle := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst))
	userOnly := middleware.UserRequired(facade, logger)
	adminOnly := middleware.AdminRequired(facade, logger)

	engine.GET("/healthz", healthHandler.Check)

	engine.GET("/", middleware.GuestOnly(facade, cfg.Production, logger), pages.Index)
	engine.GET("/index", pages.Index)
	engine.GET("/signup", pages.Signup)
	engine.GET("/login", pages.Login)
	engine.GET("/admin-signup", pages.AdminSignup)
	engine.GET("/admin-login", pages.AdminLogin)

	engine.POST("/signup", throttle, authHandler.Signup)
	engine.POST("/login", throttle, authHandler.Login)
	engine.POST("/admin-login", throttle, authHandler.AdminLogin)
	engine.POST("/logout", authHandler.Logout)

	user := engine.Group("")
	user.Use(userOnly)
	user.GET("/dashboard", rewardHandler.Dashboard)
	user.POST("/claim-daily-reward", rewardHandler.Claim)
	user.GET("/withdraw", pages.Withdraw)
	user.POST("/withdraw", withdrawalHandler.Submit)

	admin := engine.Group("/admin")
	admin.POST("/signup", throttle, middleware.AdminSignupGate(facade, facade, logger), authHandler.AdminSignup)

	adminAuth := admin.Group("")
	adminAuth.Use(adminOnly)
	adminAuth.GET("/dashboard", withdrawalHandler.AdminDashboard)
	adminAuth.POST("/withdrawals/:id/approve", withdrawalHandler.Approve)

	return engine, nil
}
