package graph

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// These tests require a running Neo4j instance at bolt://localhost:7687
// with the default test credentials. Run with -short to skip them.

func TestEntityRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	entityID := GenerateEntityID("Server")
	defer cleanupEntity(ctx, driver, entityID)

	created := repo.Entities("Server").Create(ctx, &Entity{
		ID:          entityID,
		Name:        "test-server-" + time.Now().Format("20060102150405"),
		Type:        "Server",
		Status:      StatusActive,
		Description: "integration test node",
		Properties: map[string]interface{}{
			"cpu_cores": 8,
			"tags":      []interface{}{"test", "integration"},
		},
		CreatedAt: time.Now().Format(time.RFC3339),
	})
	if created == nil {
		t.Fatal("Create returned nil")
	}

	fetched := repo.Entities("Server").GetByID(ctx, entityID)
	if fetched == nil {
		t.Fatal("GetByID returned nil after create")
	}
	if fetched.Name != created.Name {
		t.Errorf("Name = %q, want %q", fetched.Name, created.Name)
	}
	if fetched.Status != StatusActive {
		t.Errorf("Status = %q, want Active", fetched.Status)
	}
	if got, ok := fetched.Properties["cpu_cores"].(float64); !ok || got != 8 {
		t.Errorf("nested properties did not survive the round trip: %v", fetched.Properties)
	}

	// the generic repository must see the same node
	if generic := repo.Entities("").GetByID(ctx, entityID); generic == nil {
		t.Error("entity not visible through the generic label")
	}
}

func TestEntityRepository_UpdateOnlyAllowedFields(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	entityID := GenerateEntityID("Server")
	defer cleanupEntity(ctx, driver, entityID)

	if created := repo.Entities("Server").Create(ctx, &Entity{
		ID:        entityID,
		Name:      "update-target",
		Type:      "Server",
		Status:    StatusActive,
		CreatedAt: time.Now().Format(time.RFC3339),
	}); created == nil {
		t.Fatal("Create returned nil")
	}

	updated := repo.Entities("Server").Update(ctx, entityID, map[string]interface{}{
		"status":       string(StatusMaintenance),
		"manufacturer": "Dell",
		"not_a_field":  "dropped silently",
	})
	if updated == nil {
		t.Fatal("Update returned nil")
	}
	if updated.Status != StatusMaintenance {
		t.Errorf("Status = %q, want Maintenance", updated.Status)
	}
	if updated.Extra["manufacturer"] != "Dell" {
		t.Errorf("allow-listed subtype field not set: %v", updated.Extra)
	}
	if _, present := updated.Extra["not_a_field"]; present {
		t.Error("field outside the allow-list must be dropped")
	}
}

func TestEntityRepository_DeleteIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	entityID := GenerateEntityID("Server")

	if created := repo.Entities("Server").Create(ctx, &Entity{
		ID:        entityID,
		Name:      "delete-target",
		Type:      "Server",
		Status:    StatusActive,
		CreatedAt: time.Now().Format(time.RFC3339),
	}); created == nil {
		t.Fatal("Create returned nil")
	}

	if !repo.Entities("").Delete(ctx, entityID) {
		t.Fatal("first Delete should report true")
	}
	if repo.Entities("").Delete(ctx, entityID) {
		t.Error("second Delete should report false")
	}
	if fetched := repo.Entities("").GetByID(ctx, entityID); fetched != nil {
		t.Errorf("entity still present after delete: %+v", fetched)
	}
}

func TestEntityRepository_Search(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	marker := time.Now().Format("20060102150405")

	alphaID := GenerateEntityID("Server")
	betaID := GenerateEntityID("Server")
	defer cleanupEntity(ctx, driver, alphaID)
	defer cleanupEntity(ctx, driver, betaID)

	if repo.Entities("Server").Create(ctx, &Entity{
		ID: alphaID, Name: "search-alpha-" + marker, Type: "Server", Status: StatusActive,
		Description: "runs the billing stack",
		CreatedAt:   time.Now().Format(time.RFC3339),
	}) == nil {
		t.Fatal("failed to create first entity")
	}
	if repo.Entities("Server").Create(ctx, &Entity{
		ID: betaID, Name: "search-beta-" + marker, Type: "Server", Status: StatusActive,
		CreatedAt: time.Now().Format(time.RFC3339),
	}) == nil {
		t.Fatal("failed to create second entity")
	}

	// substring match is case-insensitive
	results := repo.Entities("Server").Search(ctx, "ALPHA-"+marker, []string{"name"}, 10)
	if len(results) != 1 {
		t.Fatalf("Search by name returned %d results, want 1", len(results))
	}
	if results[0].ID != alphaID {
		t.Errorf("Search matched %s, want %s", results[0].ID, alphaID)
	}

	// description is a searchable base field
	if results := repo.Entities("Server").Search(ctx, "billing stack", []string{"description"}, 10); len(results) != 1 {
		t.Errorf("Search by description returned %d results, want 1", len(results))
	}

	// a miss is an empty non-nil slice
	miss := repo.Entities("Server").Search(ctx, "no-such-entity-"+marker, []string{"name"}, 10)
	if miss == nil || len(miss) != 0 {
		t.Errorf("Search miss should be an empty slice, got %v", miss)
	}

	// fields outside the allow-list are dropped; with nothing left the
	// search degrades to empty instead of matching everything
	if results := repo.Entities("Server").Search(ctx, marker, []string{"not_a_field"}, 10); len(results) != 0 {
		t.Errorf("Search over disallowed fields returned %d results, want 0", len(results))
	}
}

func TestRelationshipRepository_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")

	srcID := GenerateEntityID("Application")
	dstID := GenerateEntityID("Server")
	defer cleanupEntity(ctx, driver, srcID)
	defer cleanupEntity(ctx, driver, dstID)

	for _, e := range []*Entity{
		{ID: srcID, Name: "update-src", Type: "Application", Status: StatusActive, CreatedAt: time.Now().Format(time.RFC3339)},
		{ID: dstID, Name: "update-dst", Type: "Server", Status: StatusActive, CreatedAt: time.Now().Format(time.RFC3339)},
	} {
		if repo.Entities(e.Type).Create(ctx, e) == nil {
			t.Fatalf("failed to create endpoint %s", e.ID)
		}
	}

	rel := repo.Relationships().Create(ctx, srcID, dstID, "RUNS_ON", map[string]interface{}{
		"weight": 1,
	})
	if rel == nil {
		t.Fatal("Create returned nil")
	}

	// identity fields in the payload are dropped, the rest is applied and
	// updated_at is stamped
	updated := repo.Relationships().Update(ctx, rel.ID, map[string]interface{}{
		"weight":    5,
		"id":        "hijacked-id",
		"type":      "MANAGES",
		"source_id": "elsewhere",
		"bad key!":  "dropped",
	})
	if updated == nil {
		t.Fatal("Update returned nil")
	}
	if updated.ID != rel.ID {
		t.Errorf("ID changed to %q, identity fields must be immutable", updated.ID)
	}
	if updated.Type != "RUNS_ON" {
		t.Errorf("Type changed to %q, identity fields must be immutable", updated.Type)
	}
	if got, ok := updated.Properties["weight"].(int64); !ok || got != 5 {
		t.Errorf("weight = %v, want 5", updated.Properties["weight"])
	}
	if updated.UpdatedAt == "" {
		t.Error("updated_at should be stamped on update")
	}
	if _, present := updated.Properties["bad key!"]; present {
		t.Error("unsafe property names must be dropped")
	}

	// an empty payload short-circuits to a plain read
	unchanged := repo.Relationships().Update(ctx, rel.ID, map[string]interface{}{})
	if unchanged == nil {
		t.Fatal("empty Update should return the existing record")
	}
	if unchanged.ID != rel.ID {
		t.Errorf("empty Update returned %q, want %q", unchanged.ID, rel.ID)
	}
	if got, ok := unchanged.Properties["weight"].(int64); !ok || got != 5 {
		t.Errorf("empty Update must not change properties, weight = %v", unchanged.Properties["weight"])
	}

	// a payload of only identity fields behaves the same way
	if identityOnly := repo.Relationships().Update(ctx, rel.ID, map[string]interface{}{"id": "x"}); identityOnly == nil || identityOnly.ID != rel.ID {
		t.Error("identity-only Update should degrade to a plain read")
	}

	if missing := repo.Relationships().Update(ctx, "no-such-rel", map[string]interface{}{"weight": 9}); missing != nil {
		t.Errorf("updating a missing relationship should return nil, got %+v", missing)
	}
}

func TestEntityTypes_MetadataRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	catalog := EntityTypeCatalog()

	// write the metadata subgraph the way the seed script does
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	params := make([]map[string]interface{}, 0, len(catalog))
	names := make([]string, 0, len(catalog))
	for _, item := range catalog {
		params = append(params, map[string]interface{}{"name": item.Name, "category": item.Category})
		names = append(names, item.Name)
	}
	_, err = session.Run(ctx, `
		MERGE (m:Metadata:EntityTypes {id: 'entity_types'})
		WITH m
		UNWIND $types AS t
		MERGE (d:EntityTypeDefinition {name: t.name})
		SET d.category = t.category
		MERGE (m)-[:HAS_ENTITY_TYPE]->(d)
	`, map[string]interface{}{"types": params})
	session.Close(ctx)
	if err != nil {
		t.Fatalf("failed to seed metadata: %v", err)
	}
	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, `
			MATCH (d:EntityTypeDefinition) WHERE d.name IN $names DETACH DELETE d
		`, map[string]interface{}{"names": names})
		_, _ = session.Run(ctx, `MATCH (m:Metadata:EntityTypes {id: 'entity_types'}) DETACH DELETE m`, nil)
	}()

	listed := repo.EntityTypes(ctx)
	if len(listed) < len(catalog) {
		t.Fatalf("EntityTypes returned %d items, want at least %d", len(listed), len(catalog))
	}

	// every catalog entry comes back with its category
	byName := map[string]TypeInfo{}
	for _, info := range listed {
		byName[info.Name] = info
	}
	for _, want := range catalog {
		got, present := byName[want.Name]
		if !present {
			t.Errorf("catalog entry %s missing from listing", want.Name)
			continue
		}
		if got.Category != want.Category {
			t.Errorf("category for %s = %q, want %q", want.Name, got.Category, want.Category)
		}
	}

	// the listing is ordered by category, then name
	for i := 1; i < len(listed); i++ {
		prev, cur := listed[i-1], listed[i]
		if prev.Category > cur.Category {
			t.Fatalf("listing not ordered by category: %q before %q", prev.Category, cur.Category)
		}
		if prev.Category == cur.Category && prev.Name > cur.Name {
			t.Fatalf("listing not ordered by name within %q: %q before %q", cur.Category, prev.Name, cur.Name)
		}
	}
}

func TestRelationshipRepository_CreateDenormalizesEndpointTypes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")

	appID := GenerateEntityID("APPLICATION")
	srvID := GenerateEntityID("SERVER")
	defer cleanupEntity(ctx, driver, appID)
	defer cleanupEntity(ctx, driver, srvID)

	// type tags stored verbatim, labels resolved case-insensitively
	if repo.Entities("APPLICATION").Create(ctx, &Entity{
		ID: appID, Name: "test-app", Type: "APPLICATION", Status: StatusActive,
		CreatedAt: time.Now().Format(time.RFC3339),
	}) == nil {
		t.Fatal("failed to create application entity")
	}
	if repo.Entities("SERVER").Create(ctx, &Entity{
		ID: srvID, Name: "test-srv", Type: "SERVER", Status: StatusActive,
		CreatedAt: time.Now().Format(time.RFC3339),
	}) == nil {
		t.Fatal("failed to create server entity")
	}

	rel := repo.Relationships().Create(ctx, appID, srvID, "RUNS_ON", map[string]interface{}{})
	if rel == nil {
		t.Fatal("Create returned nil")
	}

	if !regexp.MustCompile(`^REL-[0-9a-f]{8}$`).MatchString(rel.ID) {
		t.Errorf("relationship id = %q, want REL- plus 8 hex chars", rel.ID)
	}
	if rel.Type != "RUNS_ON" {
		t.Errorf("Type = %q, want RUNS_ON", rel.Type)
	}
	if rel.SourceType != "APPLICATION" || rel.TargetType != "SERVER" {
		t.Errorf("endpoint types = %q/%q, want APPLICATION/SERVER", rel.SourceType, rel.TargetType)
	}
}

func TestRelationshipRepository_CreateRejectsMissingEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")

	if rel := repo.Relationships().Create(ctx, "no-such-id", "also-missing", "RUNS_ON", nil); rel != nil {
		t.Errorf("expected nil for missing endpoints, got %+v", rel)
	}
	if rel := repo.Relationships().Create(ctx, "a", "b", "NOT_A_REAL_TYPE", nil); rel != nil {
		t.Errorf("expected nil for unknown relationship type, got %+v", rel)
	}
}

func TestListEntityRelationships_BidirectionalUnion(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")

	ids := make([]string, 4)
	for i := range ids {
		ids[i] = GenerateEntityID("Server")
		defer cleanupEntity(ctx, driver, ids[i])
		if repo.Entities("Server").Create(ctx, &Entity{
			ID:        ids[i],
			Name:      fmt.Sprintf("union-node-%d", i),
			Type:      "Server",
			Status:    StatusActive,
			CreatedAt: time.Now().Format(time.RFC3339),
		}) == nil {
			t.Fatalf("failed to create node %d", i)
		}
	}
	center := ids[0]

	// two outgoing, one incoming, all distinct types
	if repo.Relationships().Create(ctx, center, ids[1], "DEPENDS_ON", nil) == nil {
		t.Fatal("failed to create outgoing edge 1")
	}
	if repo.Relationships().Create(ctx, center, ids[2], "CONNECTS_TO", nil) == nil {
		t.Fatal("failed to create outgoing edge 2")
	}
	if repo.Relationships().Create(ctx, ids[3], center, "MANAGES", nil) == nil {
		t.Fatal("failed to create incoming edge")
	}

	page := repo.ListEntityRelationships(ctx, center, DirectionBoth, "", 10, 0)
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
	if len(page.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(page.Items))
	}
	seen := map[string]bool{}
	for _, rel := range page.Items {
		if seen[rel.ID] {
			t.Errorf("duplicate edge %s in both-direction listing", rel.ID)
		}
		seen[rel.ID] = true
	}

	// the total must not depend on the page size
	small := repo.ListEntityRelationships(ctx, center, DirectionBoth, "", 1, 0)
	if small.Total != 3 {
		t.Errorf("Total with limit=1 = %d, want 3", small.Total)
	}
	if len(small.Items) != 1 {
		t.Errorf("len(Items) with limit=1 = %d, want 1", len(small.Items))
	}
	if small.Pages != 3 {
		t.Errorf("Pages with limit=1 = %d, want 3", small.Pages)
	}

	// direction filters
	if out := repo.ListEntityRelationships(ctx, center, DirectionOutgoing, "", 10, 0); out.Total != 2 {
		t.Errorf("outgoing Total = %d, want 2", out.Total)
	}
	if in := repo.ListEntityRelationships(ctx, center, DirectionIncoming, "", 10, 0); in.Total != 1 {
		t.Errorf("incoming Total = %d, want 1", in.Total)
	}

	// type filter applies to both directions
	if typed := repo.ListEntityRelationships(ctx, center, DirectionBoth, "MANAGES", 10, 0); typed.Total != 1 {
		t.Errorf("MANAGES Total = %d, want 1", typed.Total)
	}
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func cleanupEntity(ctx context.Context, driver neo4j.DriverWithContext, id string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, "MATCH (n {id: $id}) DETACH DELETE n", map[string]interface{}{"id": id})
}
