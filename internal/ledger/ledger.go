// Package ledger records pipeline runs in an optional Postgres table,
// so a fleet of runs across regions can be queried without grepping
// log files.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/ximhear/songdo-meshbuilder/internal/config"
)

// Run is one row of the "MeshRun" table: a single build invocation
// over one region.
type Run struct {
	ID             string
	Region         string
	Status         string
	ChunkCount     int
	BuildingCount  int
	RoadCount      int
	TotalSizeBytes int64
	ErrorMessage   sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StartedAt      sql.NullTime
	CompletedAt    sql.NullTime
}

// Ledger wraps the database connection used to track runs.
type Ledger struct {
	conn *sql.DB
}

// Open connects to the configured Postgres database and verifies the
// connection with a short-lived ping.
func Open(cfg config.DatabaseConfig) (*Ledger, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("ledger database connected")

	return &Ledger{conn: db}, nil
}

// Close releases the underlying connection pool.
func (l *Ledger) Close() error {
	return l.conn.Close()
}

// StartRun inserts a new run row in the "running" status and returns
// its generated ID.
func (l *Ledger) StartRun(ctx context.Context, region string) (string, error) {
	var id string
	query := `
		INSERT INTO "MeshRun" (id, region, status, "createdAt", "updatedAt", "startedAt")
		VALUES (gen_random_uuid(), $1, 'running', NOW(), NOW(), NOW())
		RETURNING id
	`
	if err := l.conn.QueryRowContext(ctx, query, region).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run as completed with its final counts.
func (l *Ledger) CompleteRun(ctx context.Context, runID string, chunkCount, buildingCount, roadCount int, totalSizeBytes int64) error {
	query := `
		UPDATE "MeshRun"
		SET status = 'completed', "chunkCount" = $1, "buildingCount" = $2, "roadCount" = $3,
		    "totalSizeBytes" = $4, "completedAt" = NOW(), "updatedAt" = NOW()
		WHERE id = $5
	`
	result, err := l.conn.ExecContext(ctx, query, chunkCount, buildingCount, roadCount, totalSizeBytes, runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return checkAffected(result, runID)
}

// FailRun marks a run as failed with an error message.
func (l *Ledger) FailRun(ctx context.Context, runID, errMsg string) error {
	query := `
		UPDATE "MeshRun"
		SET status = 'failed', "errorMessage" = $1, "updatedAt" = NOW()
		WHERE id = $2
	`
	_, err := l.conn.ExecContext(ctx, query, errMsg, runID)
	if err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (l *Ledger) GetRun(ctx context.Context, runID string) (*Run, error) {
	query := `
		SELECT id, region, status, "chunkCount", "buildingCount", "roadCount",
		       "totalSizeBytes", "errorMessage", "createdAt", "updatedAt", "startedAt", "completedAt"
		FROM "MeshRun"
		WHERE id = $1
	`
	run := &Run{}
	err := l.conn.QueryRowContext(ctx, query, runID).Scan(
		&run.ID, &run.Region, &run.Status, &run.ChunkCount, &run.BuildingCount, &run.RoadCount,
		&run.TotalSizeBytes, &run.ErrorMessage, &run.CreatedAt, &run.UpdatedAt, &run.StartedAt, &run.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

func checkAffected(result sql.Result, runID string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}
