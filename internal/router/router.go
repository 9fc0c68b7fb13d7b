package router

import (
	"github.com/gin-gonic/gin"

	"github.com/mariaherliana/invoice-creation/internal/config"
	"github.com/mariaherliana/invoice-creation/internal/handler"
	"github.com/mariaherliana/invoice-creation/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	documentH *handler.DocumentHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	documents := v1.Group("/documents")
	documents.POST("", documentH.Generate)
	documents.GET("", documentH.List)
	documents.GET("/export", documentH.Export)
	documents.GET("/:id", documentH.GetByID)
	documents.GET("/:id/download", documentH.DownloadURL)
	documents.GET("/:id/pdf", documentH.DownloadPDF)

	parties := v1.Group("/parties")
	parties.GET("/remittance", documentH.RemittancePrefill)

	return r
}
