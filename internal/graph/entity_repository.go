package graph

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"go.uber.org/zap"
)

// EntityRepository performs CRUD over the nodes of one storage label. All
// failures collapse to nil/false/empty results; the diagnostic goes to the
// log. Callers cannot tell "absent" from "store error" without the log and
// that is the documented contract.
type EntityRepository struct {
	repo  *Repository
	shape Shape
}

// Entities returns a repository bound to the storage label the registry
// resolves for typeTag. An empty or unknown tag binds the generic label
// covering all entities.
func (r *Repository) Entities(typeTag string) *EntityRepository {
	return &EntityRepository{
		repo:  r,
		shape: r.registry.Resolve(typeTag),
	}
}

// createLabel is the label expression for node creation. Dedicated labels
// are always paired with the generic one so the generic repository covers
// every entity.
func (er *EntityRepository) createLabel() string {
	if er.shape.Label == GenericLabel {
		return GenericLabel
	}
	return GenericLabel + ":" + er.shape.Label
}

// Create persists a new entity node and returns the re-mapped record, or
// nil on any failure.
func (er *EntityRepository) Create(ctx context.Context, entity *Entity) *Entity {
	session := er.repo.writeSession(ctx)
	defer session.Close(ctx)

	props := map[string]interface{}{
		"id":         entity.ID,
		"name":       entity.Name,
		"type":       entity.Type,
		"status":     entity.Status,
		"properties": entity.Properties,
		"created_at": entity.CreatedAt,
	}
	if entity.Description != "" {
		props["description"] = entity.Description
	}
	if entity.UpdatedAt != "" {
		props["updated_at"] = entity.UpdatedAt
	}
	for key, value := range entity.Extra {
		if er.shape.HasField(key) {
			props[key] = value
		}
	}
	if entity.Properties == nil {
		props["properties"] = map[string]interface{}{}
	}

	query := fmt.Sprintf("CREATE (n:%s $props) RETURN n", er.createLabel())

	result, err := session.Run(ctx, query, map[string]interface{}{
		"props": encodeProperties(props),
	})
	if err != nil {
		er.repo.logStoreError("create", er.shape.Label, err)
		return nil
	}
	record, err := result.Single(ctx)
	if err != nil {
		er.repo.logStoreError("create", er.shape.Label, err)
		return nil
	}
	return er.mapNode(record, "n")
}

// GetByID returns the entity with the given id within the label, or nil
func (er *EntityRepository) GetByID(ctx context.Context, id string) *Entity {
	session := er.repo.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s {id: $id}) RETURN n", er.shape.Label)

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		er.repo.logStoreError("get_by_id", er.shape.Label, err)
		return nil
	}
	if !result.Next(ctx) {
		return nil
	}
	return er.mapNode(result.Record(), "n")
}

// GetAll returns up to limit entities ordered by name, skipping offset.
// Name ordering keeps pagination stable across calls.
func (er *EntityRepository) GetAll(ctx context.Context, limit, offset int) []*Entity {
	session := er.repo.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (n:%s)
		RETURN n
		ORDER BY n.name
		SKIP $offset
		LIMIT $limit
	`, er.shape.Label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		er.repo.logStoreError("get_all", er.shape.Label, err)
		return []*Entity{}
	}
	return er.collectNodes(ctx, result)
}

// Update applies only the supplied fields via a dynamically assembled SET
// list. Field names are restricted to the shape's allow-list; values are
// always bound parameters. Returns nil if the id does not exist or the
// operation fails.
func (er *EntityRepository) Update(ctx context.Context, id string, fields map[string]interface{}) *Entity {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	allowed := er.shape.FilterFields(names)
	if len(allowed) == 0 {
		return er.GetByID(ctx, id)
	}

	session := er.repo.writeSession(ctx)
	defer session.Close(ctx)

	setClauses := make([]string, 0, len(allowed))
	params := map[string]interface{}{"id": id}
	for _, name := range allowed {
		setClauses = append(setClauses, fmt.Sprintf("n.%s = $%s", name, name))
		params[name] = encodeValue(fields[name])
	}

	query := fmt.Sprintf(`
		MATCH (n:%s {id: $id})
		SET %s
		RETURN n
	`, er.shape.Label, strings.Join(setClauses, ", "))

	result, err := session.Run(ctx, query, params)
	if err != nil {
		er.repo.logStoreError("update", er.shape.Label, err)
		return nil
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil
	}
	return er.mapNode(record, "n")
}

// Delete detach-deletes the node and all incident edges. True only if at
// least one node was removed.
func (er *EntityRepository) Delete(ctx context.Context, id string) bool {
	session := er.repo.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s {id: $id}) DETACH DELETE n", er.shape.Label)

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		er.repo.logStoreError("delete", er.shape.Label, err)
		return false
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		er.repo.logStoreError("delete", er.shape.Label, err)
		return false
	}
	return summary.Counters().NodesDeleted() > 0
}

// Search does a case-insensitive substring match across the given fields,
// OR-combined. Field names outside the shape's allow-list are dropped.
func (er *EntityRepository) Search(ctx context.Context, text string, fields []string, limit int) []*Entity {
	allowed := er.shape.FilterFields(fields)
	if len(allowed) == 0 {
		er.repo.logger.Warn("Search called without any allow-listed fields",
			zap.String("label", er.shape.Label), zap.Strings("fields", fields))
		return []*Entity{}
	}

	session := er.repo.readSession(ctx)
	defer session.Close(ctx)

	whereClauses := make([]string, 0, len(allowed))
	for _, field := range allowed {
		whereClauses = append(whereClauses, fmt.Sprintf("n.%s =~ $search_text", field))
	}

	query := fmt.Sprintf(`
		MATCH (n:%s)
		WHERE %s
		RETURN n
		LIMIT $limit
	`, er.shape.Label, strings.Join(whereClauses, " OR "))

	result, err := session.Run(ctx, query, map[string]interface{}{
		"search_text": "(?i).*" + regexp.QuoteMeta(text) + ".*",
		"limit":       limit,
	})
	if err != nil {
		er.repo.logStoreError("search", er.shape.Label, err)
		return []*Entity{}
	}
	return er.collectNodes(ctx, result)
}

// Count returns the total number of nodes under the label
func (er *EntityRepository) Count(ctx context.Context) int64 {
	session := er.repo.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS count", er.shape.Label)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		er.repo.logStoreError("count", er.shape.Label, err)
		return 0
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0
	}
	val, _ := record.Get("count")
	if n, ok := val.(int64); ok {
		return n
	}
	return 0
}

func (er *EntityRepository) mapNode(record *neo4j.Record, key string) *Entity {
	val, ok := record.Get(key)
	if !ok {
		return nil
	}
	node, ok := val.(dbtype.Node)
	if !ok {
		return nil
	}
	return er.repo.mapper.EntityFromProps(node.Props)
}

func (er *EntityRepository) collectNodes(ctx context.Context, result neo4j.ResultWithContext) []*Entity {
	entities := []*Entity{}
	for result.Next(ctx) {
		if entity := er.mapNode(result.Record(), "n"); entity != nil {
			entities = append(entities, entity)
		}
	}
	if err := result.Err(); err != nil {
		er.repo.logStoreError("iterate", er.shape.Label, err)
	}
	return entities
}

// GetByType lists entities by their stored type tag regardless of which
// dedicated label they live under
func (r *Repository) GetByType(ctx context.Context, typeTag string, limit, offset int) []*Entity {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (n:%s {type: $entity_type})
		RETURN n
		ORDER BY n.name
		SKIP $offset
		LIMIT $limit
	`, GenericLabel)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"entity_type": typeTag,
		"limit":       limit,
		"offset":      offset,
	})
	if err != nil {
		r.logStoreError("get_by_type", GenericLabel, err)
		return []*Entity{}
	}

	entities := []*Entity{}
	for result.Next(ctx) {
		val, ok := result.Record().Get("n")
		if !ok {
			continue
		}
		node, ok := val.(dbtype.Node)
		if !ok {
			continue
		}
		if entity := r.mapper.EntityFromProps(node.Props); entity != nil {
			entities = append(entities, entity)
		}
	}
	if err := result.Err(); err != nil {
		r.logStoreError("get_by_type", GenericLabel, err)
	}
	return entities
}

// CountByType counts entities by their stored type tag, the companion to
// GetByType
func (r *Repository) CountByType(ctx context.Context, typeTag string) int64 {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s {type: $entity_type}) RETURN count(n) AS count", GenericLabel)

	result, err := session.Run(ctx, query, map[string]interface{}{"entity_type": typeTag})
	if err != nil {
		r.logStoreError("count_by_type", GenericLabel, err)
		return 0
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0
	}
	val, _ := record.Get("count")
	if n, ok := val.(int64); ok {
		return n
	}
	return 0
}

// GetRelated returns the entities reachable over outgoing edges, with the
// edge that reaches each one. The relationship type, when given, must be
// part of the registry catalog before it is interpolated.
func (r *Repository) GetRelated(ctx context.Context, entityID, relationshipType string) []RelatedEntity {
	relFragment := ""
	if relationshipType != "" {
		if !r.registry.IsRelationType(relationshipType) {
			r.logger.Warn("Rejecting unknown relationship type in traversal",
				zap.String("relationship_type", relationshipType))
			return []RelatedEntity{}
		}
		relFragment = ":" + relationshipType
	}

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (n {id: $id})-[r%s]->(related)
		RETURN type(r) AS relationship_type, r, related
	`, relFragment)

	result, err := session.Run(ctx, query, map[string]interface{}{"id": entityID})
	if err != nil {
		r.logStoreError("get_related", GenericLabel, err)
		return []RelatedEntity{}
	}

	related := []RelatedEntity{}
	for result.Next(ctx) {
		record := result.Record()

		relType, _ := record.Get("relationship_type")
		relVal, _ := record.Get("r")
		nodeVal, _ := record.Get("related")

		rel, ok := relVal.(dbtype.Relationship)
		if !ok {
			continue
		}
		node, ok := nodeVal.(dbtype.Node)
		if !ok {
			continue
		}

		nodeProps := make(map[string]interface{}, len(node.Props))
		for key, value := range node.Props {
			nodeProps[key] = normalizeValue(value)
		}
		relProps := make(map[string]interface{}, len(rel.Props))
		for key, value := range rel.Props {
			relProps[key] = normalizeValue(value)
		}

		related = append(related, RelatedEntity{
			Entity: nodeProps,
			Relationship: RelationshipInfo{
				Type:       stringOrEmpty(relType),
				Properties: relProps,
			},
		})
	}
	if err := result.Err(); err != nil {
		r.logStoreError("get_related", GenericLabel, err)
	}
	return related
}

// EntityTypes reads the type catalog from the metadata subgraph
func (r *Repository) EntityTypes(ctx context.Context) []TypeInfo {
	return r.typeCatalog(ctx, "entity_types", `
		MATCH (n:Metadata:EntityTypes)-[:HAS_ENTITY_TYPE]->(et:EntityTypeDefinition)
		RETURN et.name AS name, et.description AS description, et.category AS category
		ORDER BY et.category, et.name
	`)
}

func (r *Repository) typeCatalog(ctx context.Context, op, query string) []TypeInfo {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		r.logStoreError(op, "Metadata", err)
		return []TypeInfo{}
	}

	infos := []TypeInfo{}
	for result.Next(ctx) {
		record := result.Record()
		name, _ := record.Get("name")
		description, _ := record.Get("description")
		category, _ := record.Get("category")
		infos = append(infos, TypeInfo{
			Name:        stringOrEmpty(name),
			Description: stringOrEmpty(description),
			Category:    stringOrEmpty(category),
		})
	}
	if err := result.Err(); err != nil {
		r.logStoreError(op, "Metadata", err)
	}
	return infos
}
