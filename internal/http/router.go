// Package http exposes the record store workflows over a gin JSON API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/audit"
	"github.com/mrlokans/shayfa/internal/auth"
	"github.com/mrlokans/shayfa/internal/cart"
	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/khatm"
	"github.com/mrlokans/shayfa/internal/token"
)

// RouterConfig carries the router dependencies. SessionManager, RateLimiter,
// AuditService and Maintenance are optional.
type RouterConfig struct {
	Version string
	Storage StorageChecker

	Client         *api.Client
	Codec          token.Codec
	Session        *auth.Session
	SessionManager *auth.SessionManager
	RateLimiter    *auth.RateLimiter

	Carts    *cart.Registry
	Trackers *khatm.Registry

	AuditService *audit.Service
	Maintenance  MaintenanceTrigger

	// CSRFSecret enables CSRF checks on cookie-authenticated mutations.
	CSRFSecret    []byte
	SecureCookies bool
	// Logger toggles gin's access log.
	Logger bool
}

// NewRouter creates the router with every endpoint registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	if cfg.Logger {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF runs before the session middleware so the session context survives
	// the request replacement gorilla/csrf performs.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.Codec))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}

	authMiddleware := auth.NewMiddleware(cfg.Codec, cfg.SessionManager)
	router.Use(authMiddleware.Handler())

	health := NewHealthController(cfg.Storage, cfg.Version)
	router.GET("/health", health.Status)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimiter = auth.NewRateLimiter(auth.DefaultRateLimitConfig())
	}
	authController := auth.NewController(cfg.Session, cfg.SessionManager, rateLimiter)
	carts := NewCartController(cfg.Client, cfg.Carts)
	khatms := NewKhatmController(cfg.Trackers)
	admin := NewAdminController(cfg.Client, cfg.AuditService, cfg.Maintenance)
	catalog := NewCatalogController(cfg.Client)

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/logout", authMiddleware.RequireAuth(), authController.Logout)
		authGroup.GET("/me", authMiddleware.RequireAuth(), authController.Me)

		cartGroup := apiGroup.Group("/cart")
		cartGroup.GET("", carts.Get)
		cartGroup.POST("/items", carts.AddItem)
		cartGroup.PATCH("/items/:id", carts.UpdateItem)
		cartGroup.DELETE("/items/:id", carts.RemoveItem)
		cartGroup.POST("/checkout", carts.Checkout)

		apiGroup.GET("/khatm", khatms.Get)
		apiGroup.PUT("/khatm/progress", khatms.UpdateProgress)
		apiGroup.GET("/quran/surahs/:number", khatms.Surah)

		adminGroup := apiGroup.Group("/admin", authMiddleware.RequireRole(entities.UserRoleAdmin))
		adminGroup.GET("/stats", admin.Stats)
		adminGroup.GET("/audit", admin.AuditEvents)
		adminGroup.POST("/maintenance", admin.RunMaintenance)
		adminGroup.GET("/orders", catalog.Orders)
		adminGroup.GET("/products", catalog.Products)
		adminGroup.POST("/products", catalog.AddProduct)
		adminGroup.DELETE("/products/:id", catalog.Delete(entities.CollectionProducts))
		adminGroup.GET("/quran", catalog.Surahs)
		adminGroup.POST("/quran", catalog.AddSurah)
		adminGroup.DELETE("/quran/:id", catalog.Delete(entities.CollectionQuran))
		adminGroup.GET("/videos", catalog.Videos)
		adminGroup.POST("/videos", catalog.AddVideo)
		adminGroup.DELETE("/videos/:id", catalog.Delete(entities.CollectionVideos))
	}

	return router
}
