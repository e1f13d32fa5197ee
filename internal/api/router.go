package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T-6891/Dementor-API/internal/graph"
	"github.com/T-6891/Dementor-API/internal/service"
	"github.com/T-6891/Dementor-API/pkg/config"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

// NewRouter wires the HTTP surface: health stays open, reads require the
// "read" permission and mutations require "write".
func NewRouter(
	cfg *config.Config,
	entities *service.EntityService,
	relationships *service.RelationshipService,
	health *service.HealthService,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(ginLogger(logger.Get()))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		report := health.Check(c.Request.Context())
		status := http.StatusOK
		if report.Status == "unhealthy" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	})

	read := apiKeyAuth(cfg, "read")
	write := apiKeyAuth(cfg, "write")

	eh := NewEntityHandler(entities)
	rh := NewRelationshipHandler(relationships)

	v1 := router.Group("/api/v1")

	ent := v1.Group("/entities")
	{
		ent.GET("", read, eh.List)
		ent.POST("", write, eh.Create)
		ent.GET("/types", read, eh.Types)
		ent.GET("/search", read, eh.Search)
		ent.GET("/:id", read, eh.Get)
		ent.PUT("/:id", write, eh.Update)
		ent.DELETE("/:id", write, eh.Delete)
		ent.GET("/:id/related", read, eh.Related)

		// typed creation shortcuts pin the entity type server-side
		ent.POST("/servers", write, eh.CreateTyped(string(graph.TypeServer)))
		ent.POST("/applications", write, eh.CreateTyped(string(graph.TypeApplication)))
		ent.POST("/services", write, eh.CreateTyped(string(graph.TypeITService)))
		ent.POST("/persons", write, eh.CreateTyped(string(graph.TypePerson)))
		ent.POST("/incidents", write, eh.CreateTyped(string(graph.TypeIncident)))
	}

	rel := v1.Group("/relations")
	{
		rel.GET("", read, rh.List)
		rel.POST("", write, rh.Create)
		rel.GET("/types", read, rh.Types)
		rel.POST("/bulk", write, rh.BulkCreate)
		rel.POST("/bulk/delete", write, rh.BulkDelete)
		rel.GET("/:id", read, rh.Get)
		rel.PUT("/:id", write, rh.Update)
		rel.DELETE("/:id", write, rh.Delete)
	}

	return router
}
