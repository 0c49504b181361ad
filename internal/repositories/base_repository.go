package repositories

import (
	"context"
	"database/sql"
	"ecotrack/internal/database"
	"ecotrack/internal/models"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Page size bounds for cursor pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// BaseRepository provides common database operations shared by all
// repositories.
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{
		db:     db,
		logger: logger,
	}
}

// ===============================
// CORE DATABASE OPERATIONS
// ===============================

// ExecContext executes a statement through the managed pool
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a new transaction
func (r *BaseRepository) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, opts)
}

// ===============================
// TRANSACTION HELPERS
// ===============================

// WithTransaction executes a function within a database transaction
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.BeginTx(ctx, nil)
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
			r.logger.Error("Failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("cause", err),
			)
		}
		return err
	}

	return tx.Commit()
}

// ===============================
// CURSOR PAGINATION
// ===============================

// Cursor identifies a position in a (created_at DESC, id DESC) ordering.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// EncodeCursor creates an opaque cursor for the given row position
func EncodeCursor(createdAt time.Time, id int64) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + strconv.FormatInt(id, 10)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// ErrBadCursor marks an unparseable pagination cursor
var ErrBadCursor = errors.New("malformed cursor")

// DecodeCursor parses an opaque cursor. Garbage cursors are rejected rather
// than silently ignored.
func DecodeCursor(cursor string) (*Cursor, error) {
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}

	parts := strings.SplitN(string(data), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: missing separator", ErrBadCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp", ErrBadCursor)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: bad id", ErrBadCursor)
	}

	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}

// KeysetPage holds the SQL fragments for one keyset-paginated page.
type KeysetPage struct {
	// Where is a predicate on (created_at, id), or empty for the first page.
	Where string
	Args  []interface{}
	// Limit is the clamped page size. Queries should fetch Limit+1 rows to
	// probe for a next page.
	Limit int
}

// BuildKeysetPage validates pagination params and produces the keyset
// predicate. argOffset is the number of placeholders already used by the
// caller's query.
func (r *BaseRepository) BuildKeysetPage(params models.PaginationParams, argOffset int) (*KeysetPage, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	page := &KeysetPage{Limit: limit}

	if params.Cursor != "" {
		cursor, err := DecodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		page.Where = fmt.Sprintf("(created_at, id) < ($%d, $%d)", argOffset+1, argOffset+2)
		page.Args = []interface{}{cursor.CreatedAt, cursor.ID}
	}

	return page, nil
}

// PageMeta builds pagination metadata from a fetched page. rows must have been
// fetched with limit+1 and already trimmed to limit by the caller.
func (r *BaseRepository) PageMeta(limit int, hasMore bool, lastCreatedAt time.Time, lastID int64) models.PaginationMeta {
	meta := models.PaginationMeta{
		HasMore: hasMore,
		PerPage: limit,
	}
	if hasMore {
		meta.NextCursor = EncodeCursor(lastCreatedAt, lastID)
	}
	return meta
}

// ===============================
// UTILITY METHODS
// ===============================

// IsNotFound checks if error is a "not found" error
func (r *BaseRepository) IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// HandleNotFound converts sql.ErrNoRows to nil for optional queries
func (r *BaseRepository) HandleNotFound(err error) error {
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

// GetDB returns the underlying database manager for advanced operations
func (r *BaseRepository) GetDB() *database.Manager {
	return r.db
}

// GetLogger returns the logger instance
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}
