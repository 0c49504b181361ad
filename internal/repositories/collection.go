// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"database/sql"
	"ecotrack/internal/database"
	"fmt"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User     UserRepository
	Session  SessionRepository
	Action   ActionRepository
	Badge    BadgeRepository
	Location LocationRepository
	Stats    StatsRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	collection := &Collection{
		db:     db,
		logger: logger,
	}

	collection.User = NewUserRepository(db, logger)
	collection.Session = NewSessionRepository(db, logger)
	collection.Action = NewActionRepository(db, logger)
	collection.Badge = NewBadgeRepository(db, logger)
	collection.Location = NewLocationRepository(db, logger)
	collection.Stats = NewStatsRepository(db, logger)

	logger.Info("Repository collection initialized successfully")

	return collection, nil
}

// WithTransaction executes a function within a database transaction shared by
// every repository in the collection.
func (c *Collection) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logger.Error("Failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("cause", err),
			)
		}
		return err
	}

	return tx.Commit()
}

// DB exposes the database manager for health checks
func (c *Collection) DB() *database.Manager {
	return c.db
}
