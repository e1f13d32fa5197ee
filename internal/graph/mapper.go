package graph

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"go.uber.org/zap"

	apperrors "github.com/T-6891/Dementor-API/pkg/errors"
)

// Mapper converts raw node/edge property maps into typed records. It is
// deliberately forgiving: partial or malformed data degrades to a minimal
// record instead of failing the caller.
type Mapper struct {
	logger *zap.Logger
}

// NewMapper creates a record mapper
func NewMapper(logger *zap.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// EntityFromProps builds an Entity from a node property map. Temporal
// values become RFC3339 strings, the properties attribute is decoded from
// its JSON text form, and bracketed strings are speculatively decoded as
// lists. If the full record cannot be built, a minimal entity with id,
// name, type and a default status is returned; without at least an id the
// result is nil.
func (m *Mapper) EntityFromProps(props map[string]interface{}) *Entity {
	if props == nil {
		return nil
	}

	normalized := make(map[string]interface{}, len(props))
	for key, value := range props {
		normalized[key] = normalizeValue(value)
	}

	// properties must come back as a map, whatever is stored
	switch v := normalized["properties"].(type) {
	case string:
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			decoded = map[string]interface{}{}
		}
		normalized["properties"] = decoded
	case map[string]interface{}:
	case nil:
		normalized["properties"] = map[string]interface{}{}
	default:
		normalized["properties"] = map[string]interface{}{}
	}

	entity, err := buildEntity(normalized)
	if err != nil {
		mappingErr := apperrors.NewRecordMapping(stringOrEmpty(normalized["type"]), err)
		m.logger.Warn("Failed to map node to entity, degrading to minimal record",
			zap.Error(mappingErr),
			zap.Any("id", props["id"]),
		)
		entity = minimalEntity(normalized)
		if entity == nil {
			m.logger.Error("Failed to build even a minimal entity from node", zap.Error(mappingErr))
			return nil
		}
	}
	return entity
}

// RelationshipFromValues builds a Relationship from the aliased columns the
// relationship queries project (id, type, endpoint ids/types, properties,
// timestamps).
func (m *Mapper) RelationshipFromValues(values map[string]interface{}) *Relationship {
	id, _ := normalizeValue(values["id"]).(string)
	if id == "" {
		m.logger.Error("Relationship record has no id, dropping", zap.Any("values", values))
		return nil
	}

	rel := &Relationship{
		ID:         id,
		Type:       stringOrEmpty(values["type"]),
		SourceID:   stringOrEmpty(values["source_id"]),
		TargetID:   stringOrEmpty(values["target_id"]),
		SourceType: stringOrEmpty(values["source_type"]),
		TargetType: stringOrEmpty(values["target_type"]),
		CreatedAt:  stringOrEmpty(normalizeValue(values["created_at"])),
		UpdatedAt:  stringOrEmpty(normalizeValue(values["updated_at"])),
		Properties: map[string]interface{}{},
	}

	if props, ok := values["properties"].(map[string]interface{}); ok {
		normalized := make(map[string]interface{}, len(props))
		for key, value := range props {
			normalized[key] = normalizeValue(value)
		}
		rel.Properties = normalized
		if rel.CreatedAt == "" {
			rel.CreatedAt = stringOrEmpty(normalized["created_at"])
		}
		if rel.UpdatedAt == "" {
			rel.UpdatedAt = stringOrEmpty(normalized["updated_at"])
		}
		rel.Description = stringOrEmpty(normalized["description"])
	}

	return rel
}

// normalizeValue converts store-native values into plain forms: temporal
// types to RFC3339 strings (falling back to the generic string form) and
// bracket-delimited strings to decoded lists where possible.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	case dbtype.LocalDateTime:
		return v.Time().Format(time.RFC3339)
	case dbtype.Date:
		return v.Time().Format(time.RFC3339)
	case dbtype.LocalTime:
		return fmt.Sprintf("%v", v)
	case dbtype.Duration:
		return fmt.Sprintf("%v", v)
	case string:
		// Only bracketed lists are speculatively decoded. Map values are
		// JSON-encoded on write too, but stay text on read: the entity
		// `properties` attribute is the one map that round-trips (decoded
		// in EntityFromProps), any other stored object comes back as its
		// JSON string.
		if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
			var decoded []interface{}
			if err := json.Unmarshal([]byte(v), &decoded); err == nil {
				return decoded
			}
		}
		return v
	default:
		return value
	}
}

// buildEntity constructs the fully typed record, validating the fields the
// base shape requires
func buildEntity(props map[string]interface{}) (*Entity, error) {
	id, ok := props["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("missing or non-string id")
	}
	name, ok := props["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("missing or non-string name for %s", id)
	}

	entity := &Entity{
		ID:         id,
		Name:       name,
		Type:       stringOrEmpty(props["type"]),
		Status:     StatusActive,
		Properties: map[string]interface{}{},
	}
	if entity.Type == "" {
		entity.Type = "BaseEntity"
	}

	if raw, present := props["status"]; present && raw != nil {
		status, ok := raw.(string)
		if !ok || !validStatus(EntityStatus(status)) {
			return nil, fmt.Errorf("invalid status %v for %s", raw, id)
		}
		entity.Status = EntityStatus(status)
	}

	entity.Description = stringOrEmpty(props["description"])
	entity.CreatedAt = stringOrEmpty(props["created_at"])
	entity.UpdatedAt = stringOrEmpty(props["updated_at"])
	if pm, ok := props["properties"].(map[string]interface{}); ok {
		entity.Properties = pm
	}

	for key, value := range props {
		switch key {
		case "id", "name", "type", "status", "description", "properties", "created_at", "updated_at":
		default:
			if entity.Extra == nil {
				entity.Extra = map[string]interface{}{}
			}
			entity.Extra[key] = value
		}
	}

	return entity, nil
}

// minimalEntity is the degraded fallback: just id, name, type and a
// default status. Returns nil when not even an id is available.
func minimalEntity(props map[string]interface{}) *Entity {
	id := stringOrEmpty(props["id"])
	if id == "" {
		return nil
	}
	name := stringOrEmpty(props["name"])
	if name == "" {
		name = "unknown"
	}
	typeTag := stringOrEmpty(props["type"])
	if typeTag == "" {
		typeTag = "BaseEntity"
	}
	return &Entity{
		ID:         id,
		Name:       name,
		Type:       typeTag,
		Status:     StatusActive,
		Properties: map[string]interface{}{},
	}
}

func validStatus(s EntityStatus) bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance, StatusPlanned,
		StatusDecommissioned, StatusDevelopment, StatusTesting:
		return true
	}
	return false
}

func stringOrEmpty(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
