package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/avi-perl/posthole/internal/model"
	"github.com/avi-perl/posthole/internal/store"
)

// itemColumns is the column list used for SELECT statements on the items table.
const itemColumns = `id, model, version, data, deleted, created, last_updated`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// parseID translates an opaque string identifier back to the table's integer
// primary key. An unparsable id simply names no row.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// formatID translates a row's integer key to the opaque external identifier.
func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func queryInsertItem(ctx context.Context, db executor, it *model.Item) error {
	var rowID int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO items (model, version, data, deleted, created, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		it.Model,
		it.Version,
		serializeData(it.Data),
		it.Deleted,
		it.Created,
		nullTimePtr(it.LastUpdated),
	).Scan(&rowID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	it.ID = formatID(rowID)
	return nil
}

func queryGetItem(ctx context.Context, db executor, rowID int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, rowID)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// queryListItems returns all items, optionally filtered to one model. The
// model filter hits idx_items_model; ordering by id keeps listings stable.
func queryListItems(ctx context.Context, db executor, modelName string) ([]*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	if modelName != "" {
		query += ` WHERE model = $1`
		args = append(args, modelName)
	}
	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func queryUpdateItem(ctx context.Context, db executor, rowID int64, it *model.Item) error {
	res, err := db.ExecContext(ctx, `
		UPDATE items SET
			model = $2,
			version = $3,
			data = $4,
			deleted = $5,
			last_updated = $6
		WHERE id = $1`,
		rowID,
		it.Model,
		it.Version,
		serializeData(it.Data),
		it.Deleted,
		nullTimePtr(it.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryDeleteItem(ctx context.Context, db executor, rowID int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, rowID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
