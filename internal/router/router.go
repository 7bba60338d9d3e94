package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "snapquote/docs"
	"snapquote/internal/config"
	"snapquote/internal/handler"
	"snapquote/internal/middleware"
	"snapquote/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	sessionH *handler.SessionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Quote session routes
	sessions := protected.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("", sessionH.List)
	sessions.GET("/:id", sessionH.Get)
	sessions.POST("/:id/extract", sessionH.Extract)
	sessions.POST("/:id/items", sessionH.AddItem)
	sessions.PUT("/:id/items/:n", sessionH.UpsertEdit)
	sessions.PUT("/:id/rates", sessionH.SetRates)
	sessions.PUT("/:id/meta", sessionH.SetMeta)
	sessions.GET("/:id/quotation", sessionH.Quotation)
	sessions.POST("/:id/finalize", sessionH.Finalize)
	sessions.GET("/:id/export", sessionH.Export)
	sessions.POST("/:id/share", sessionH.Share)
	sessions.POST("/:id/reset", sessionH.Reset)

	return r
}
