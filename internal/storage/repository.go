package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"networth/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository owns the single database handle used for line items.
// It is not safe for concurrent use by design: one user, one process.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	path    string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One long-lived connection, no pooling
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
	}, nil
}

func dsn(dbPath string) string {
	return dbPath + "?_pragma=busy_timeout(5000)"
}

// Path returns the database file location.
func (r *SQLiteRepository) Path() string {
	return r.path
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &core.StorageError{Op: "ping", Err: err}
	}
	return nil
}

// Initialize ensures the schema exists. Safe to call on every start.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := RunMigrations(r.path); err != nil {
		return &core.StorageError{Op: "initialize", Err: err}
	}
	return nil
}

// ListAll returns every line item ordered by id.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.LineItem, error) {
	rows, err := r.queries.ListLineItems(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "list", Err: err}
	}

	items := make([]core.LineItem, len(rows))
	for i, row := range rows {
		items[i] = toCore(row)
	}
	return items, nil
}

// Create validates and persists a new line item, returning it with its id.
func (r *SQLiteRepository) Create(ctx context.Context, in core.LineItemInput) (core.LineItem, error) {
	in, err := in.Normalize()
	if err != nil {
		return core.LineItem{}, fmt.Errorf("create line item: %w", err)
	}

	row, err := r.queries.CreateLineItem(ctx, CreateLineItemParams{
		Name:   in.Name,
		Type:   in.Type,
		Status: string(in.Status),
		Amount: in.Amount,
	})
	if err != nil {
		return core.LineItem{}, &core.StorageError{Op: "create", Err: err}
	}

	return toCore(row), nil
}

// Get returns the line item with the given id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.LineItem, error) {
	row, err := r.queries.GetLineItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.LineItem{}, &core.NotFoundError{ID: id}
	}
	if err != nil {
		return core.LineItem{}, &core.StorageError{Op: "get", Err: err}
	}
	return toCore(row), nil
}

// Update overwrites every mutable field of the line item keyed by id.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, in core.LineItemInput) error {
	in, err := in.Normalize()
	if err != nil {
		return fmt.Errorf("update line item %d: %w", id, err)
	}

	n, err := r.queries.UpdateLineItem(ctx, UpdateLineItemParams{
		Name:   in.Name,
		Type:   in.Type,
		Status: string(in.Status),
		Amount: in.Amount,
		ID:     id,
	})
	if err != nil {
		return &core.StorageError{Op: "update", Err: err}
	}
	if n == 0 {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

// Delete removes the line item keyed by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteLineItem(ctx, id)
	if err != nil {
		return &core.StorageError{Op: "delete", Err: err}
	}
	if n == 0 {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

// Snapshot returns every line item ordered by name with amounts coerced to
// decimals. Any row that cannot be coerced fails the whole read.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	rows, err := r.queries.ListLineItemsByName(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "snapshot", Err: err}
	}

	snap := make(core.Snapshot, 0, len(rows))
	for _, row := range rows {
		sr, err := core.ToSnapshotRow(toCore(row))
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		snap = append(snap, sr)
	}
	return snap, nil
}

func toCore(row LineItem) core.LineItem {
	return core.LineItem{
		ID:     row.ID,
		Name:   row.Name,
		Type:   row.Type,
		Status: core.Status(row.Status),
		Amount: row.Amount,
	}
}
