package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/T-6891/Dementor-API/internal/graph"
	"github.com/T-6891/Dementor-API/pkg/logger"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// ComponentHealth is the probe result for one dependency
type ComponentHealth struct {
	Status         string `json:"status"`
	ResponseTimeMS int64  `json:"response_time_ms"`
	Detail         string `json:"detail,omitempty"`
}

// Health is the aggregated service health report
type Health struct {
	Status         string                     `json:"status"`
	Version        string                     `json:"version"`
	Timestamp      string                     `json:"timestamp"`
	Components     map[string]ComponentHealth `json:"components"`
	ResponseTimeMS int64                      `json:"response_time_ms"`
}

// HealthService probes the graph store and its metadata subgraph
type HealthService struct {
	repo   *graph.Repository
	logger *zap.Logger
}

// NewHealthService creates a health service
func NewHealthService(repo *graph.Repository) *HealthService {
	return &HealthService{repo: repo, logger: logger.Get()}
}

// Check probes connectivity and metadata presence concurrently. The
// overall status is "healthy" only when the database answers; missing
// metadata degrades the report without failing it.
func (s *HealthService) Check(ctx context.Context) Health {
	start := time.Now()

	var database, metadata ComponentHealth

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		database = s.checkDatabase(gctx)
		return nil
	})
	g.Go(func() error {
		metadata = s.checkMetadata(gctx)
		return nil
	})
	// probes report through their component results, never through errors
	_ = g.Wait()

	status := "healthy"
	switch {
	case database.Status != "ok":
		status = "unhealthy"
	case metadata.Status != "ok":
		status = "degraded"
	}

	return Health{
		Status:    status,
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Components: map[string]ComponentHealth{
			"database": database,
			"metadata": metadata,
		},
		ResponseTimeMS: time.Since(start).Milliseconds(),
	}
}

func (s *HealthService) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()
	if !s.repo.CheckConnection(ctx) {
		s.logger.Error("Database health probe failed")
		return ComponentHealth{
			Status:         "error",
			ResponseTimeMS: time.Since(start).Milliseconds(),
			Detail:         "graph store did not answer",
		}
	}
	return ComponentHealth{Status: "ok", ResponseTimeMS: time.Since(start).Milliseconds()}
}

func (s *HealthService) checkMetadata(ctx context.Context) ComponentHealth {
	start := time.Now()
	types := s.repo.EntityTypes(ctx)
	elapsed := time.Since(start).Milliseconds()
	if len(types) == 0 {
		return ComponentHealth{
			Status:         "missing",
			ResponseTimeMS: elapsed,
			Detail:         "metadata subgraph is empty; run the seed script",
		}
	}
	return ComponentHealth{Status: "ok", ResponseTimeMS: elapsed}
}
