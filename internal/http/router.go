package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/project-canary/backend/internal/config"
	"github.com/project-canary/backend/internal/db"
	"github.com/project-canary/backend/internal/http/handlers"
	"github.com/project-canary/backend/internal/http/middleware"
	"github.com/project-canary/backend/internal/service"

	_ "github.com/project-canary/backend/docs"
)

func Router(cfg config.Config, store *db.Store, resolver *service.Resolver, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:       store,
		Resolver:    resolver,
		Validator:   validator.New(),
		Logger:      logger,
		AdminKey:    cfg.AdminKey,
		JiraBaseURL: cfg.JiraBaseURL,
		SnowBaseURL: cfg.SnowBaseURL,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/stats", h.StatsGet)
		api.GET("/cases", h.CasesList)
		api.POST("/cases", h.CaseCreate)
		api.GET("/cases/high-priority", h.CasesHighPriority)
		api.GET("/cases/incidents", h.CasesIncidents)
		api.GET("/cases/open", h.CasesOpen)
		api.GET("/cases/:case_id", h.CaseGet)
		api.PUT("/cases/:case_id", h.CaseUpdate)
		api.POST("/cases/:case_id/comment", h.CommentAdd)
		api.GET("/cases/:case_id/similar", h.SimilarGet)
		api.GET("/cases/:case_id/links", h.CaseLinks)
		api.GET("/products", h.ProductsList)
		api.GET("/types", h.TypesList)
		api.GET("/priorities", h.PrioritiesList)
		api.GET("/tracks", h.TracksList)
		api.POST("/tracks", h.TrackCreate)
		api.GET("/tracks/:track_id/cases", h.TrackCasesList)
		api.POST("/tracks/:track_id/cases", h.TrackCaseAdd)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/admin/seed", h.Seed)
		admin.DELETE("/tracks/:track_id", h.TrackDelete)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
