package graph

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "github.com/T-6891/Dementor-API/pkg/errors"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

// Repository is the shared base for all Neo4j access. The driver is
// injected once at construction and owns the connection pool; every
// operation opens one session scoped to that call and closes it on all
// exit paths.
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	registry *Registry
	mapper   *Mapper
	logger   *zap.Logger
}

// NewRepository creates the base repository around an injected driver
func NewRepository(driver neo4j.DriverWithContext, database string) *Repository {
	log := logger.Get()
	return &Repository{
		driver:   driver,
		database: database,
		registry: NewRegistry(),
		mapper:   NewMapper(log),
		logger:   log,
	}
}

// Registry exposes the type registry backing this repository
func (r *Repository) Registry() *Registry {
	return r.registry
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// CheckConnection verifies the store answers a trivial query
func (r *Repository) CheckConnection(ctx context.Context) bool {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, "RETURN 1 AS test", nil)
	if err != nil {
		r.logger.Error("Neo4j connection check failed", zap.Error(err))
		return false
	}
	record, err := result.Single(ctx)
	if err != nil {
		r.logger.Error("Neo4j connection check returned no record", zap.Error(err))
		return false
	}
	val, _ := record.Get("test")
	n, ok := val.(int64)
	return ok && n == 1
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
}

// logStoreError records a failed operation with enough detail to correlate
// the degraded sentinel result the caller receives
func (r *Repository) logStoreError(op, label string, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ConstraintValidationFailed"):
		r.logger.Error("Constraint violation",
			zap.String("operation", op), zap.String("label", label),
			zap.Error(apperrors.NewConstraintViolation(label, err)))
	case strings.Contains(msg, "SyntaxError"):
		r.logger.Error("Generated query is malformed",
			zap.String("operation", op), zap.String("label", label),
			zap.Error(apperrors.NewQueryFailed(op, err)))
	case strings.Contains(msg, "ConnectivityError"), strings.Contains(msg, "Unauthorized"):
		connErr := apperrors.NewConnectionFailed("", err)
		r.logger.Error("Neo4j unreachable",
			zap.String("operation", op), zap.String("label", label),
			zap.Bool("retryable", apperrors.IsRetryable(connErr)),
			zap.Error(connErr))
	default:
		r.logger.Error("Store operation failed",
			zap.String("operation", op), zap.String("label", label), zap.Error(err))
	}
}

// encodeProperties flattens a record's values into Neo4j-safe properties:
// nested maps and sequences become JSON text, enumeration values their
// scalar form. Neo4j properties cannot hold nested structures.
func encodeProperties(props map[string]interface{}) map[string]interface{} {
	encoded := make(map[string]interface{}, len(props))
	for key, value := range props {
		encoded[key] = encodeValue(value)
	}
	return encoded
}

func encodeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		text, err := json.Marshal(v)
		if err != nil {
			return "{}"
		}
		return string(text)
	case []interface{}:
		text, err := json.Marshal(v)
		if err != nil {
			return "[]"
		}
		return string(text)
	case []string:
		text, err := json.Marshal(v)
		if err != nil {
			return "[]"
		}
		return string(text)
	case EntityStatus:
		return string(v)
	case EntityType:
		return string(v)
	case RelationType:
		return string(v)
	default:
		return value
	}
}
