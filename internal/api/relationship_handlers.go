package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/T-6891/Dementor-API/internal/graph"
	"github.com/T-6891/Dementor-API/internal/service"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

// RelationshipHandler exposes relationship CRUD, per-entity listing and
// the bulk operations over HTTP
type RelationshipHandler struct {
	svc    *service.RelationshipService
	logger *zap.Logger
}

// NewRelationshipHandler creates a relationship handler
func NewRelationshipHandler(svc *service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{svc: svc, logger: logger.Get()}
}

// List handles GET /relations, paging the edges around one entity
func (h *RelationshipHandler) List(c *gin.Context) {
	entityID := c.Query("entity_id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'entity_id' is required"})
		return
	}

	direction := graph.ParseDirection(c.DefaultQuery("direction", string(graph.DirectionBoth)))
	limit, offset := paginationParams(c)
	page := h.svc.ListByEntity(c.Request.Context(), entityID, direction, c.Query("relationship_type"), limit, offset)
	c.JSON(http.StatusOK, page)
}

// Get handles GET /relations/:id
func (h *RelationshipHandler) Get(c *gin.Context) {
	rel := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if rel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relationship not found"})
		return
	}
	c.JSON(http.StatusOK, rel)
}

// Create handles POST /relations
func (h *RelationshipHandler) Create(c *gin.Context) {
	var req service.CreateRelationshipInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rel := h.svc.Create(c.Request.Context(), req)
	if rel == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create relationship"})
		return
	}
	c.JSON(http.StatusCreated, rel)
}

// Update handles PUT /relations/:id
func (h *RelationshipHandler) Update(c *gin.Context) {
	var req service.UpdateRelationshipInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rel := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if rel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relationship not found"})
		return
	}
	c.JSON(http.StatusOK, rel)
}

// Delete handles DELETE /relations/:id
func (h *RelationshipHandler) Delete(c *gin.Context) {
	if !h.svc.Delete(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relationship not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Types handles GET /relations/types
func (h *RelationshipHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Types(c.Request.Context()))
}

// BulkCreate handles POST /relations/bulk
func (h *RelationshipHandler) BulkCreate(c *gin.Context) {
	var req struct {
		Items []service.CreateRelationshipInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created := h.svc.BulkCreate(c.Request.Context(), req.Items)
	c.JSON(http.StatusCreated, gin.H{
		"items":   created,
		"total":   len(req.Items),
		"success": len(created),
		"failed":  len(req.Items) - len(created),
	})
}

// BulkDelete handles POST /relations/bulk/delete
func (h *RelationshipHandler) BulkDelete(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.svc.BulkDelete(c.Request.Context(), req.IDs))
}
