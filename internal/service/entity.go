package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/T-6891/Dementor-API/internal/graph"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

// defaultSearchFields are used when a search request names no fields
var defaultSearchFields = []string{"id", "name", "description"}

// CreateEntityInput carries an already-validated create payload
type CreateEntityInput struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Status      string                 `json:"status"`
	Description string                 `json:"description"`
	Properties  map[string]interface{} `json:"properties"`
	Extra       map[string]interface{} `json:"-"`
}

// UpdateEntityInput carries the fields an update supplies; nil means the
// field is untouched
type UpdateEntityInput struct {
	Name        *string                `json:"name"`
	Status      *string                `json:"status"`
	Description *string                `json:"description"`
	Properties  map[string]interface{} `json:"properties"`
}

// TypeCatalog is the envelope for metadata type listings
type TypeCatalog struct {
	Items []graph.TypeInfo `json:"items"`
	Total int              `json:"total"`
}

// EntityService drives entity CRUD, listing and search on top of the
// graph repositories, owning id generation and timestamp stamping.
type EntityService struct {
	repo   *graph.Repository
	logger *zap.Logger
}

// NewEntityService creates an entity service
func NewEntityService(repo *graph.Repository) *EntityService {
	return &EntityService{repo: repo, logger: logger.Get()}
}

// GetByID fetches one entity through the generic label
func (s *EntityService) GetByID(ctx context.Context, id string) *graph.Entity {
	return s.repo.Entities("").GetByID(ctx, id)
}

// List returns a page of entities, optionally restricted to one type.
// Catalog types list by their dedicated label; tags outside the catalog
// fall back to matching the stored type property so ad-hoc types are
// still reachable.
func (s *EntityService) List(ctx context.Context, typeTag string, limit, offset int) graph.Page[*graph.Entity] {
	if typeTag != "" && s.repo.Registry().Resolve(typeTag).Label == graph.GenericLabel {
		items := s.repo.GetByType(ctx, typeTag, limit, offset)
		total := s.repo.CountByType(ctx, typeTag)
		return graph.NewPage(items, total, limit, offset)
	}

	entities := s.repo.Entities(typeTag)
	items := entities.GetAll(ctx, limit, offset)
	total := entities.Count(ctx)
	return graph.NewPage(items, total, limit, offset)
}

// Create builds the full record (generated id, creation timestamp,
// default status) and persists it. Returns nil on any failure.
func (s *EntityService) Create(ctx context.Context, in CreateEntityInput) *graph.Entity {
	if in.Name == "" {
		s.logger.Warn("Refusing to create entity without a name")
		return nil
	}

	typeTag := in.Type
	if typeTag == "" {
		typeTag = "BaseEntity"
	}

	id := in.ID
	if id == "" {
		id = graph.GenerateEntityID(typeTag)
	}

	status := graph.StatusActive
	if in.Status != "" {
		status = graph.EntityStatus(in.Status)
	}

	properties := in.Properties
	if properties == nil {
		properties = map[string]interface{}{}
	}

	entity := &graph.Entity{
		ID:          id,
		Name:        in.Name,
		Type:        typeTag,
		Status:      status,
		Description: in.Description,
		Properties:  properties,
		CreatedAt:   time.Now().Format(time.RFC3339),
		Extra:       in.Extra,
	}

	return s.repo.Entities(typeTag).Create(ctx, entity)
}

// Update applies the supplied fields and stamps updated_at. Returns nil
// when the entity does not exist or the store fails.
func (s *EntityService) Update(ctx context.Context, id string, in UpdateEntityInput) *graph.Entity {
	existing := s.GetByID(ctx, id)
	if existing == nil {
		s.logger.Warn("Entity not found for update", zap.String("id", id))
		return nil
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Properties != nil {
		fields["properties"] = in.Properties
	}
	fields["updated_at"] = time.Now().Format(time.RFC3339)

	return s.repo.Entities(existing.Type).Update(ctx, id, fields)
}

// Delete removes the entity and every edge touching it
func (s *EntityService) Delete(ctx context.Context, id string) bool {
	return s.repo.Entities("").Delete(ctx, id)
}

// Search matches text across the given fields (id, name and description
// by default)
func (s *EntityService) Search(ctx context.Context, text string, fields []string, limit int) []*graph.Entity {
	if len(fields) == 0 {
		fields = defaultSearchFields
	}
	return s.repo.Entities("").Search(ctx, text, fields, limit)
}

// Related lists the entities reachable over outgoing edges
func (s *EntityService) Related(ctx context.Context, id, relationshipType string) []graph.RelatedEntity {
	return s.repo.GetRelated(ctx, id, relationshipType)
}

// Types lists the entity type catalog from the metadata subgraph
func (s *EntityService) Types(ctx context.Context) TypeCatalog {
	items := s.repo.EntityTypes(ctx)
	return TypeCatalog{Items: items, Total: len(items)}
}
