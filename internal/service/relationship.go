package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/T-6891/Dementor-API/internal/graph"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

// CreateRelationshipInput carries a relationship create payload. Anything
// beyond the identity triple travels as edge properties.
type CreateRelationshipInput struct {
	SourceID    string                 `json:"source_id"`
	TargetID    string                 `json:"target_id"`
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Properties  map[string]interface{} `json:"properties"`
}

// UpdateRelationshipInput carries the mutable relationship fields; nil
// means untouched
type UpdateRelationshipInput struct {
	Description *string                `json:"description"`
	Properties  map[string]interface{} `json:"properties"`
}

// BulkDeleteResult reports a bulk delete outcome id by id
type BulkDeleteResult struct {
	Total     int      `json:"total"`
	Success   int      `json:"success"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids"`
}

// RelationshipService drives relationship CRUD, per-entity listing and
// the bulk operations on top of the graph repositories.
type RelationshipService struct {
	repo   *graph.Repository
	logger *zap.Logger
}

// NewRelationshipService creates a relationship service
func NewRelationshipService(repo *graph.Repository) *RelationshipService {
	return &RelationshipService{repo: repo, logger: logger.Get()}
}

// GetByID fetches one relationship by its generated id
func (s *RelationshipService) GetByID(ctx context.Context, id string) *graph.Relationship {
	return s.repo.Relationships().GetByID(ctx, id)
}

// Create persists one directed typed edge. The description rides along as
// an ordinary edge property. Returns nil on any failure.
func (s *RelationshipService) Create(ctx context.Context, in CreateRelationshipInput) *graph.Relationship {
	if in.SourceID == "" || in.TargetID == "" || in.Type == "" {
		s.logger.Warn("Refusing to create relationship with missing identity",
			zap.String("source_id", in.SourceID),
			zap.String("target_id", in.TargetID),
			zap.String("type", in.Type))
		return nil
	}

	properties := make(map[string]interface{}, len(in.Properties)+1)
	for key, value := range in.Properties {
		properties[key] = value
	}
	if in.Description != "" {
		properties["description"] = in.Description
	}

	return s.repo.Relationships().Create(ctx, in.SourceID, in.TargetID, in.Type, properties)
}

// Update applies the supplied fields to the edge. Returns nil when the
// relationship does not exist or the store fails.
func (s *RelationshipService) Update(ctx context.Context, id string, in UpdateRelationshipInput) *graph.Relationship {
	fields := map[string]interface{}{}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Properties != nil {
		fields["properties"] = in.Properties
	}
	return s.repo.Relationships().Update(ctx, id, fields)
}

// Delete removes the edge, leaving its endpoints alone
func (s *RelationshipService) Delete(ctx context.Context, id string) bool {
	return s.repo.Relationships().Delete(ctx, id)
}

// ListByEntity pages the edges touching an entity in the given direction
func (s *RelationshipService) ListByEntity(
	ctx context.Context,
	entityID string,
	direction graph.Direction,
	relationshipType string,
	limit, offset int,
) graph.Page[*graph.Relationship] {
	return s.repo.ListEntityRelationships(ctx, entityID, direction, relationshipType, limit, offset)
}

// Types lists the relationship type catalog from the metadata subgraph
func (s *RelationshipService) Types(ctx context.Context) TypeCatalog {
	items := s.repo.RelationshipTypes(ctx)
	return TypeCatalog{Items: items, Total: len(items)}
}

// BulkCreate creates the given edges one by one, keeping only the ones
// that succeeded. A failed item is logged and skipped, never aborting the
// rest of the batch.
func (s *RelationshipService) BulkCreate(ctx context.Context, inputs []CreateRelationshipInput) []*graph.Relationship {
	created := make([]*graph.Relationship, 0, len(inputs))
	for _, in := range inputs {
		rel := s.Create(ctx, in)
		if rel == nil {
			s.logger.Warn("Skipping failed relationship in bulk create",
				zap.String("source_id", in.SourceID),
				zap.String("target_id", in.TargetID),
				zap.String("type", in.Type))
			continue
		}
		created = append(created, rel)
	}
	return created
}

// BulkDelete deletes the given edges one by one and reports which ids
// could not be deleted
func (s *RelationshipService) BulkDelete(ctx context.Context, ids []string) BulkDeleteResult {
	result := BulkDeleteResult{Total: len(ids), FailedIDs: []string{}}
	for _, id := range ids {
		if s.repo.Relationships().Delete(ctx, id) {
			result.Success++
			continue
		}
		result.Failed++
		result.FailedIDs = append(result.FailedIDs, id)
	}
	return result
}
