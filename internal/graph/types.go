package graph

// Entity is a typed configuration record stored as a labeled node.
// Subtype attributes (e.g. a server's manufacturer or an incident's
// priority) live in Extra; which names are legal there is decided by the
// Registry shape for the entity's type.
type Entity struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Status      EntityStatus           `json:"status"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]interface{} `json:"properties"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// Relationship is a typed, directed, attributed edge between two entities.
// Source and target types are denormalized at creation time.
type Relationship struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	SourceID    string                 `json:"source_id"`
	TargetID    string                 `json:"target_id"`
	SourceType  string                 `json:"source_type"`
	TargetType  string                 `json:"target_type"`
	Properties  map[string]interface{} `json:"properties"`
	CreatedAt   string                 `json:"created_at,omitempty"`
	UpdatedAt   string                 `json:"updated_at,omitempty"`
	Description string                 `json:"description,omitempty"`
}

// TypeInfo describes one catalog entry from the metadata subgraph
type TypeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// RelationshipInfo is the edge half of a related-entity result
type RelationshipInfo struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
}

// RelatedEntity pairs a neighbor node with the edge that reaches it
type RelatedEntity struct {
	Entity       map[string]interface{} `json:"entity"`
	Relationship RelationshipInfo       `json:"relationship"`
}

// Direction selects which edges of an entity a traversal covers
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// ParseDirection normalizes a direction string, defaulting to both
func ParseDirection(s string) Direction {
	switch s {
	case string(DirectionOutgoing):
		return DirectionOutgoing
	case string(DirectionIncoming):
		return DirectionIncoming
	default:
		return DirectionBoth
	}
}
