package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/T-6891/Dementor-API/internal/service"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// EntityHandler exposes entity CRUD, search and traversal over HTTP
type EntityHandler struct {
	svc    *service.EntityService
	logger *zap.Logger
}

// NewEntityHandler creates an entity handler
func NewEntityHandler(svc *service.EntityService) *EntityHandler {
	return &EntityHandler{svc: svc, logger: logger.Get()}
}

// List handles GET /entities
func (h *EntityHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)
	entityType := c.Query("entity_type")

	page := h.svc.List(c.Request.Context(), entityType, limit, offset)
	c.JSON(http.StatusOK, page)
}

// Get handles GET /entities/:id
func (h *EntityHandler) Get(c *gin.Context) {
	entity := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if entity == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		return
	}
	c.JSON(http.StatusOK, entity)
}

// Create handles POST /entities
func (h *EntityHandler) Create(c *gin.Context) {
	var req service.CreateEntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity := h.svc.Create(c.Request.Context(), req)
	if entity == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entity"})
		return
	}
	c.JSON(http.StatusCreated, entity)
}

// CreateTyped returns a create handler with the entity type pinned by the
// route, overriding whatever the payload says
func (h *EntityHandler) CreateTyped(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateEntityInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Type = entityType

		entity := h.svc.Create(c.Request.Context(), req)
		if entity == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entity"})
			return
		}
		c.JSON(http.StatusCreated, entity)
	}
}

// Update handles PUT /entities/:id
func (h *EntityHandler) Update(c *gin.Context) {
	var req service.UpdateEntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if entity == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		return
	}
	c.JSON(http.StatusOK, entity)
}

// Delete handles DELETE /entities/:id
func (h *EntityHandler) Delete(c *gin.Context) {
	if !h.svc.Delete(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Search handles GET /entities/search
func (h *EntityHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'query' is required"})
		return
	}

	var fields []string
	if raw := c.Query("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	limit := intQuery(c, "limit", defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	items := h.svc.Search(c.Request.Context(), query, fields, limit)
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// Related handles GET /entities/:id/related
func (h *EntityHandler) Related(c *gin.Context) {
	items := h.svc.Related(c.Request.Context(), c.Param("id"), c.Query("relationship_type"))
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// Types handles GET /entities/types
func (h *EntityHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Types(c.Request.Context()))
}

// paginationParams reads limit/offset with defaults and an upper bound
func paginationParams(c *gin.Context) (limit, offset int) {
	limit = intQuery(c, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
