package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/avi-perl/posthole/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanItem scans a single row into a model.Item.
// The row must contain columns in the order defined by itemColumns.
func scanItem(row scannable) (*model.Item, error) {
	var it model.Item
	var (
		rowID       int64
		data        string
		lastUpdated sql.NullTime
	)

	err := row.Scan(
		&rowID,
		&it.Model,
		&it.Version,
		&data,
		&it.Deleted,
		&it.Created,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	it.ID = formatID(rowID)
	it.Data = deserializeData(data)
	if lastUpdated.Valid {
		t := lastUpdated.Time
		it.LastUpdated = &t
	}

	return &it, nil
}

// scanItems scans multiple rows into a slice of model.Item pointers.
func scanItems(rows *sql.Rows) ([]*model.Item, error) {
	var items []*model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// serializeData degrades the schema-free payload to the text column value.
func serializeData(data json.RawMessage) string {
	if len(data) == 0 {
		return "null"
	}
	return string(data)
}

// deserializeData restores the structured payload from the text column value.
func deserializeData(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
