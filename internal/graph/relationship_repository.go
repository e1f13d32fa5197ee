package graph

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// safePropertyName bounds what may appear as a property identifier in a
// dynamically assembled SET list. Values are always bound parameters;
// this guards the identifier position, which Cypher cannot parameterize.
var safePropertyName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RelationshipRepository manages directed typed edges between entities.
// Like the entity repository, every failure collapses to nil/false plus a
// logged diagnostic.
type RelationshipRepository struct {
	repo *Repository
}

// Relationships returns the repository for edge operations
func (r *Repository) Relationships() *RelationshipRepository {
	return &RelationshipRepository{repo: r}
}

// Create validates that both endpoints exist, generates a REL- id, and
// creates a single directed typed edge carrying the given properties. The
// endpoint types are denormalized onto the returned record. Returns nil if
// either endpoint is missing, the type is not in the catalog, or the store
// fails.
//
// The existence checks and the edge creation are separate queries, not one
// transaction: a concurrent endpoint deletion between them is a known,
// accepted race.
func (rr *RelationshipRepository) Create(
	ctx context.Context,
	sourceID, targetID, relationshipType string,
	properties map[string]interface{},
) *Relationship {
	if !rr.repo.registry.IsRelationType(relationshipType) {
		rr.repo.logger.Warn("Rejecting unknown relationship type on create",
			zap.String("relationship_type", relationshipType))
		return nil
	}

	session := rr.repo.writeSession(ctx)
	defer session.Close(ctx)

	if !rr.entityExists(ctx, session, sourceID) {
		rr.repo.logger.Error("Source entity not found for relationship",
			zap.String("source_id", sourceID))
		return nil
	}
	if !rr.entityExists(ctx, session, targetID) {
		rr.repo.logger.Error("Target entity not found for relationship",
			zap.String("target_id", targetID))
		return nil
	}

	relationshipID := GenerateRelationshipID()

	props := make(map[string]interface{}, len(properties)+2)
	for key, value := range properties {
		props[key] = value
	}
	props["id"] = relationshipID
	props["created_at"] = time.Now().UTC()

	query := fmt.Sprintf(`
		MATCH (source {id: $source_id}), (target {id: $target_id})
		CREATE (source)-[r:%s $properties]->(target)
		RETURN
			$rel_id AS id,
			$rel_type AS type,
			$source_id AS source_id,
			$target_id AS target_id,
			source.type AS source_type,
			target.type AS target_type,
			properties(r) AS properties,
			r.created_at AS created_at,
			r.updated_at AS updated_at
	`, relationshipType)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"source_id":  sourceID,
		"target_id":  targetID,
		"properties": encodeProperties(props),
		"rel_id":     relationshipID,
		"rel_type":   relationshipType,
	})
	if err != nil {
		rr.repo.logStoreError("create_relationship", relationshipType, err)
		return nil
	}
	record, err := result.Single(ctx)
	if err != nil {
		rr.repo.logStoreError("create_relationship", relationshipType, err)
		return nil
	}
	return rr.repo.mapper.RelationshipFromValues(record.AsMap())
}

// entityExists checks a single endpoint within the current session
func (rr *RelationshipRepository) entityExists(ctx context.Context, session neo4j.SessionWithContext, id string) bool {
	result, err := session.Run(ctx, "MATCH (n {id: $id}) RETURN n.type AS type", map[string]interface{}{
		"id": id,
	})
	if err != nil {
		rr.repo.logStoreError("check_entity", GenericLabel, err)
		return false
	}
	return result.Next(ctx)
}

// GetByID locates the edge carrying the id property anywhere in the graph,
// regardless of its type or endpoints, and returns the fully denormalized
// record.
func (rr *RelationshipRepository) GetByID(ctx context.Context, relationshipID string) *Relationship {
	session := rr.repo.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (source)-[r]->(target)
		WHERE r.id = $relationship_id
		RETURN
			r.id AS id,
			type(r) AS type,
			source.id AS source_id,
			target.id AS target_id,
			source.type AS source_type,
			target.type AS target_type,
			properties(r) AS properties,
			r.created_at AS created_at,
			r.updated_at AS updated_at
	`, map[string]interface{}{"relationship_id": relationshipID})
	if err != nil {
		rr.repo.logStoreError("get_relationship", "", err)
		return nil
	}
	if !result.Next(ctx) {
		return nil
	}
	return rr.repo.mapper.RelationshipFromValues(result.Record().AsMap())
}

// Update applies the supplied non-identity properties via a dynamic SET
// list and stamps updated_at. id, type and the endpoints are immutable;
// attempts to change them are dropped. With nothing left to set, the call
// short-circuits to a plain read. Returns nil if the edge does not exist.
func (rr *RelationshipRepository) Update(ctx context.Context, relationshipID string, properties map[string]interface{}) *Relationship {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		switch key {
		case "id", "type", "source_id", "target_id":
			continue
		}
		if !safePropertyName.MatchString(key) {
			rr.repo.logger.Warn("Dropping unsafe property name from relationship update",
				zap.String("key", key))
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		return rr.GetByID(ctx, relationshipID)
	}

	existing := rr.GetByID(ctx, relationshipID)
	if existing == nil {
		rr.repo.logger.Warn("Relationship not found for update",
			zap.String("relationship_id", relationshipID))
		return nil
	}

	session := rr.repo.writeSession(ctx)
	defer session.Close(ctx)

	setClauses := make([]string, 0, len(keys)+1)
	params := map[string]interface{}{"relationship_id": relationshipID}
	for _, key := range keys {
		setClauses = append(setClauses, fmt.Sprintf("r.%s = $%s", key, key))
		params[key] = encodeValue(properties[key])
	}
	setClauses = append(setClauses, "r.updated_at = datetime()")

	query := fmt.Sprintf(`
		MATCH (source)-[r]->(target)
		WHERE r.id = $relationship_id
		SET %s
		RETURN
			r.id AS id,
			type(r) AS type,
			source.id AS source_id,
			target.id AS target_id,
			source.type AS source_type,
			target.type AS target_type,
			properties(r) AS properties,
			r.created_at AS created_at,
			r.updated_at AS updated_at
	`, strings.Join(setClauses, ", "))

	result, err := session.Run(ctx, query, params)
	if err != nil {
		rr.repo.logStoreError("update_relationship", "", err)
		return nil
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil
	}
	return rr.repo.mapper.RelationshipFromValues(record.AsMap())
}

// Delete removes the matched edge only, never its endpoints. True only if
// something was deleted.
func (rr *RelationshipRepository) Delete(ctx context.Context, relationshipID string) bool {
	session := rr.repo.writeSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (source)-[r]->(target)
		WHERE r.id = $relationship_id
		DELETE r
	`, map[string]interface{}{"relationship_id": relationshipID})
	if err != nil {
		rr.repo.logStoreError("delete_relationship", "", err)
		return false
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		rr.repo.logStoreError("delete_relationship", "", err)
		return false
	}
	return summary.Counters().RelationshipsDeleted() > 0
}

// RelationshipTypes reads the relationship catalog from the metadata
// subgraph
func (r *Repository) RelationshipTypes(ctx context.Context) []TypeInfo {
	return r.typeCatalog(ctx, "relationship_types", `
		MATCH (n:Metadata:RelationshipTypes)-[:HAS_RELATIONSHIP_TYPE]->(rt:RelationshipTypeDefinition)
		RETURN rt.name AS name, rt.description AS description, rt.category AS category
		ORDER BY rt.category, rt.name
	`)
}
