package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/T-6891/Dementor-API/internal/graph"
)

// These tests require a running Neo4j instance at bolt://localhost:7687
// with the default test credentials. Run with -short to skip them.

func TestEntityService_CreateGeneratesTypedID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	svc := NewEntityService(graph.NewRepository(driver, ""))

	entity := svc.Create(ctx, CreateEntityInput{
		Name: "TestServer-ab12cd34",
		Type: "SERVER",
	})
	if entity == nil {
		t.Fatal("Create returned nil")
	}
	defer cleanupEntity(ctx, driver, entity.ID)

	if !regexp.MustCompile(`^SRV\d{6}$`).MatchString(entity.ID) {
		t.Errorf("generated id = %q, want SRV followed by 6 digits", entity.ID)
	}
	if entity.Type != "SERVER" {
		t.Errorf("Type = %q, want the tag stored verbatim", entity.Type)
	}
	if entity.Status != graph.StatusActive {
		t.Errorf("Status = %q, want the Active default", entity.Status)
	}
	if entity.CreatedAt == "" {
		t.Error("CreatedAt should be stamped on create")
	}
}

func TestEntityService_UpdateStampsTimestamp(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	svc := NewEntityService(graph.NewRepository(driver, ""))

	entity := svc.Create(ctx, CreateEntityInput{Name: "stamp-target", Type: "Server"})
	if entity == nil {
		t.Fatal("Create returned nil")
	}
	defer cleanupEntity(ctx, driver, entity.ID)

	name := "stamp-target-renamed"
	updated := svc.Update(ctx, entity.ID, UpdateEntityInput{Name: &name})
	if updated == nil {
		t.Fatal("Update returned nil")
	}
	if updated.Name != name {
		t.Errorf("Name = %q, want %q", updated.Name, name)
	}
	if updated.UpdatedAt == "" {
		t.Error("UpdatedAt should be stamped on update")
	}

	if svc.Update(ctx, "no-such-id", UpdateEntityInput{Name: &name}) != nil {
		t.Error("updating a missing entity should return nil")
	}
}

func TestEntityService_CreateRequiresName(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	svc := NewEntityService(graph.NewRepository(driver, ""))
	if entity := svc.Create(ctx, CreateEntityInput{Type: "Server"}); entity != nil {
		t.Errorf("nameless create should return nil, got %+v", entity)
	}
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687", neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		return nil, err
	}

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
