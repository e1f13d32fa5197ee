package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/T-6891/Dementor-API/internal/graph"
	"github.com/T-6891/Dementor-API/pkg/config"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

func main() {
	withSamples := flag.Bool("samples", false, "Also create a small sample inventory")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	// Create constraints
	log.Info("Creating constraints...")
	if err := createConstraints(ctx, driver, cfg.Neo4jDatabase); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	// Create indexes for better performance
	log.Info("Creating indexes...")
	if err := createIndexes(ctx, driver, cfg.Neo4jDatabase); err != nil {
		log.Warn("Failed to create some indexes (may already exist)", zap.Error(err))
	}

	// Create the metadata subgraph the type catalog endpoints read
	log.Info("Seeding metadata subgraph...")
	if err := seedMetadata(ctx, driver, cfg.Neo4jDatabase); err != nil {
		log.Fatal("Failed to seed metadata", zap.Error(err))
	}

	if *withSamples {
		log.Info("Creating sample inventory...")
		repo := graph.NewRepository(driver, cfg.Neo4jDatabase)
		seedSamples(ctx, repo, log)
	}

	log.Info("Seed completed. The CMDB is ready to use!")
}

// createConstraints creates Neo4j constraints for data integrity
func createConstraints(ctx context.Context, driver neo4j.DriverWithContext, database string) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT entity_id_unique IF NOT EXISTS FOR (n:Entity) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT entity_type_name_unique IF NOT EXISTS FOR (n:EntityTypeDefinition) REQUIRE n.name IS UNIQUE",
		"CREATE CONSTRAINT relationship_type_name_unique IF NOT EXISTS FOR (n:RelationshipTypeDefinition) REQUIRE n.name IS UNIQUE",
	}

	for _, constraint := range constraints {
		_, err := session.Run(ctx, constraint, nil)
		if err != nil {
			// Log but don't fail - constraints may already exist
			continue
		}
	}

	return nil
}

// createIndexes creates Neo4j indexes for better query performance
func createIndexes(ctx context.Context, driver neo4j.DriverWithContext, database string) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	indexes := []string{
		"CREATE INDEX entity_name IF NOT EXISTS FOR (n:Entity) ON (n.name)",
		"CREATE INDEX entity_type IF NOT EXISTS FOR (n:Entity) ON (n.type)",
		"CREATE INDEX entity_status IF NOT EXISTS FOR (n:Entity) ON (n.status)",
		"CREATE INDEX entity_created_at IF NOT EXISTS FOR (n:Entity) ON (n.created_at)",
	}

	for _, idx := range indexes {
		_, err := session.Run(ctx, idx, nil)
		if err != nil {
			// Log but don't fail - indexes may already exist
			continue
		}
	}

	// Try to create full-text indexes (may not be supported in all Neo4j versions)
	fullTextIndexes := []string{
		"CREATE FULLTEXT INDEX entity_text IF NOT EXISTS FOR (n:Entity) ON EACH [n.name, n.description]",
	}

	for _, idx := range fullTextIndexes {
		_, err := session.Run(ctx, idx, nil)
		if err != nil {
			// Full-text indexes may not be supported - this is okay
			continue
		}
	}

	return nil
}

// seedMetadata writes the entity and relationship type catalogs into the
// metadata subgraph. MERGE keeps reruns idempotent.
func seedMetadata(ctx context.Context, driver neo4j.DriverWithContext, database string) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, `
		MERGE (m:Metadata:EntityTypes {id: 'entity_types'})
		WITH m
		UNWIND $types AS t
		MERGE (d:EntityTypeDefinition {name: t.name})
		SET d.category = t.category
		MERGE (m)-[:HAS_ENTITY_TYPE]->(d)
	`, map[string]interface{}{"types": typeParams(graph.EntityTypeCatalog())}); err != nil {
		return err
	}

	_, err := session.Run(ctx, `
		MERGE (m:Metadata:RelationshipTypes {id: 'relationship_types'})
		WITH m
		UNWIND $types AS t
		MERGE (d:RelationshipTypeDefinition {name: t.name})
		SET d.category = t.category
		MERGE (m)-[:HAS_RELATIONSHIP_TYPE]->(d)
	`, map[string]interface{}{"types": typeParams(graph.RelationTypeCatalog())})
	return err
}

func typeParams(items []graph.TypeInfo) []map[string]interface{} {
	params := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		params = append(params, map[string]interface{}{
			"name":     item.Name,
			"category": item.Category,
		})
	}
	return params
}

// seedSamples creates a tiny demo inventory: a server, an application
// running on it, and the service the application implements
func seedSamples(ctx context.Context, repo *graph.Repository, log *zap.Logger) {
	now := time.Now().Format(time.RFC3339)
	samples := []*graph.Entity{
		{
			ID:        graph.GenerateEntityID("Server"),
			Name:      "demo-server-01",
			Type:      "Server",
			Status:    graph.StatusActive,
			CreatedAt: now,
			Properties: map[string]interface{}{
				"cpu_cores": 16,
				"ram_gb":    64,
			},
		},
		{
			ID:        graph.GenerateEntityID("Application"),
			Name:      "inventory-app",
			Type:      "Application",
			Status:    graph.StatusActive,
			CreatedAt: now,
			Properties: map[string]interface{}{
				"language": "go",
			},
		},
		{
			ID:        graph.GenerateEntityID("ITService"),
			Name:      "inventory-service",
			Type:      "ITService",
			Status:    graph.StatusActive,
			CreatedAt: now,
			Properties: map[string]interface{}{
				"tier": "gold",
			},
		},
	}

	for _, sample := range samples {
		if created := repo.Entities(sample.Type).Create(ctx, sample); created == nil {
			log.Warn("Failed to create sample entity", zap.String("name", sample.Name))
		}
	}

	links := []struct {
		source, target, relType string
	}{
		{samples[1].ID, samples[0].ID, string(graph.RelRunsOn)},
		{samples[1].ID, samples[2].ID, string(graph.RelImplements)},
	}
	for _, link := range links {
		if rel := repo.Relationships().Create(ctx, link.source, link.target, link.relType, nil); rel == nil {
			log.Warn("Failed to create sample relationship", zap.String("type", link.relType))
		}
	}
}
