package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// relationshipProjection is the column set every relationship listing
// projects; the mapper consumes exactly these aliases.
const relationshipProjection = `
	RETURN
		r.id AS id,
		type(r) AS type,
		source.id AS source_id,
		target.id AS target_id,
		source.type AS source_type,
		target.type AS target_type,
		properties(r) AS properties,
		r.created_at AS created_at,
		r.updated_at AS updated_at`

// traversalQuery builds the listing and counting Cypher for one entity's
// relationships. Both queries are assembled from the same match fragment
// so their union semantics cannot drift apart: the reported total is
// always the size of the same edge set the listing pages over.
type traversalQuery struct {
	direction Direction
	relType   string // already validated against the registry catalog
}

// typeFragment is the edge-type filter applied to every matched pattern
func (q traversalQuery) typeFragment() string {
	if q.relType == "" {
		return ""
	}
	return ":" + q.relType
}

// matchFragment produces the pattern that binds r, source and target.
// For "both" the two directions are collected in one expression before
// projection; two separately paginated queries would let the listed page
// and the reported total disagree.
func (q traversalQuery) matchFragment() string {
	t := q.typeFragment()
	switch q.direction {
	case DirectionOutgoing:
		return fmt.Sprintf("MATCH (source {id: $entity_id})-[r%s]->(target)", t)
	case DirectionIncoming:
		return fmt.Sprintf("MATCH (source)-[r%s]->(target {id: $entity_id})", t)
	default:
		return fmt.Sprintf(`MATCH (n {id: $entity_id})
		OPTIONAL MATCH (n)-[r1%s]->(t1)
		OPTIONAL MATCH (s2)-[r2%s]->(n)
		WITH collect(DISTINCT {r: r1, source: n, target: t1}) +
		     collect(DISTINCT {r: r2, source: s2, target: n}) AS rels
		UNWIND rels AS rel
		WITH rel WHERE rel.r IS NOT NULL
		WITH DISTINCT rel.r AS r, rel.source AS source, rel.target AS target`, t, t)
	}
}

// listQuery pages the matched edges, newest first. elementId breaks
// created_at ties so offset/limit stays deterministic within a call.
func (q traversalQuery) listQuery() string {
	return q.matchFragment() + relationshipProjection + `
	ORDER BY r.created_at DESC, elementId(r)
	SKIP $offset
	LIMIT $limit`
}

// countQuery counts the same edge set the list query pages over
func (q traversalQuery) countQuery() string {
	switch q.direction {
	case DirectionOutgoing, DirectionIncoming:
		return q.matchFragment() + `
	RETURN count(r) AS total`
	default:
		return q.matchFragment() + `
	RETURN count(DISTINCT r) AS total`
	}
}

// ListEntityRelationships lists the edges touching an entity in the given
// direction, optionally filtered by relationship type, with the total of
// the full (unpaginated) edge set. Any store failure degrades to an empty
// page.
func (r *Repository) ListEntityRelationships(
	ctx context.Context,
	entityID string,
	direction Direction,
	relationshipType string,
	limit, offset int,
) Page[*Relationship] {
	if relationshipType != "" && !r.registry.IsRelationType(relationshipType) {
		r.logger.Warn("Rejecting unknown relationship type in listing",
			zap.String("relationship_type", relationshipType))
		return EmptyPage[*Relationship](limit)
	}

	q := traversalQuery{direction: direction, relType: relationshipType}

	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, q.listQuery(), map[string]interface{}{
		"entity_id": entityID,
		"offset":    offset,
		"limit":     limit,
	})
	if err != nil {
		r.logStoreError("list_relationships", string(direction), err)
		return EmptyPage[*Relationship](limit)
	}

	items := []*Relationship{}
	for result.Next(ctx) {
		if rel := r.mapper.RelationshipFromValues(result.Record().AsMap()); rel != nil {
			items = append(items, rel)
		}
	}
	if err := result.Err(); err != nil {
		r.logStoreError("list_relationships", string(direction), err)
		return EmptyPage[*Relationship](limit)
	}

	countResult, err := session.Run(ctx, q.countQuery(), map[string]interface{}{
		"entity_id": entityID,
	})
	if err != nil {
		r.logStoreError("count_relationships", string(direction), err)
		return EmptyPage[*Relationship](limit)
	}
	countRecord, err := countResult.Single(ctx)
	if err != nil {
		r.logStoreError("count_relationships", string(direction), err)
		return EmptyPage[*Relationship](limit)
	}
	total := int64(0)
	if val, ok := countRecord.Get("total"); ok {
		if n, ok := val.(int64); ok {
			total = n
		}
	}

	return NewPage(items, total, limit, offset)
}
