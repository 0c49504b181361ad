package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Health status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the current health of the database
type HealthStatus struct {
	Status          string        `json:"status"`
	PingLatency     time.Duration `json:"ping_latency"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
	WaitCount       int64         `json:"wait_count"`
	Errors          []string      `json:"errors,omitempty"`
	CheckedAt       time.Time     `json:"checked_at"`
}

func checkHealth(ctx context.Context, db *sql.DB, metrics *Metrics) *HealthStatus {
	status := &HealthStatus{
		Status:    StatusHealthy,
		CheckedAt: time.Now(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	if err := db.PingContext(pingCtx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, fmt.Sprintf("ping failed: %v", err))
		return status
	}
	status.PingLatency = time.Since(start)

	stats := db.Stats()
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	status.Idle = stats.Idle
	status.WaitCount = stats.WaitCount

	// Pool saturation or a sluggish ping means degraded, not down.
	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
		status.Status = StatusDegraded
		status.Errors = append(status.Errors, "connection pool exhausted")
	}
	if status.PingLatency > 500*time.Millisecond {
		status.Status = StatusDegraded
		status.Errors = append(status.Errors, fmt.Sprintf("high ping latency: %s", status.PingLatency))
	}

	snapshot := metrics.Snapshot()
	if snapshot.QueryCount > 100 && snapshot.ErrorCount*10 > snapshot.QueryCount {
		status.Status = StatusDegraded
		status.Errors = append(status.Errors, "elevated query error rate")
	}

	return status
}
