package stafdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLStore is a Store on an embedded SQLite database. One table per
// record kind; staf value maps live in a junction table keyed by
// (staf_id, material_id).
type SQLStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS spaces (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS materials (
	id           TEXT PRIMARY KEY,
	code         TEXT NOT NULL,
	name         TEXT NOT NULL,
	parent_name  TEXT NOT NULL,
	is_separator INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS timeframes (
	id         TEXT PRIMARY KEY,
	start_time INTEGER NOT NULL,
	end_time   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS processes (
	id           TEXT PRIMARY KEY,
	code         TEXT NOT NULL,
	name         TEXT NOT NULL,
	space_id     TEXT NOT NULL,
	is_separator INTEGER NOT NULL,
	parent_name  TEXT NOT NULL,
	type         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS measurements (
	id          TEXT PRIMARY KEY,
	quantity    REAL,
	uncertainty TEXT NOT NULL,
	unit        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS stafs (
	id                     TEXT PRIMARY KEY,
	kind                   TEXT NOT NULL,
	name                   TEXT NOT NULL,
	origin_space_id        TEXT NOT NULL,
	destination_space_id   TEXT NOT NULL,
	timeframe_id           TEXT NOT NULL,
	material_id            TEXT NOT NULL,
	origin_process_id      TEXT NOT NULL,
	destination_process_id TEXT NOT NULL,
	process_id             TEXT NOT NULL,
	stock_type             TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS staf_values (
	staf_id     TEXT NOT NULL,
	material_id TEXT NOT NULL,
	value_id    TEXT NOT NULL,
	PRIMARY KEY (staf_id, material_id)
);
`

// NewSQLStore opens (creating if needed) a SQLite database at path and
// ensures the schema. Use ":memory:" for an ephemeral database.
func NewSQLStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("stafdb: open %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("stafdb: ensure schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error { return s.db.Close() }

// insertOnce inserts after checking the id is free. The primary key
// still backstops concurrent writers.
func (s *SQLStore) insertOnce(ctx context.Context, kind, table, id, insert string, args ...any) error {
	if id == "" {
		return fmt.Errorf("%s: empty id: %w", kind, ErrBadRecord)
	}

	var taken bool
	row := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)", id)
	if err := row.Scan(&taken); err != nil {
		return fmt.Errorf("%s %q: %w", kind, id, err)
	}
	if taken {
		return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID)
	}

	if _, err := s.db.ExecContext(ctx, insert, args...); err != nil {
		return fmt.Errorf("%s %q: %w", kind, id, err)
	}

	return nil
}

// PutSpace stores a space record.
func (s *SQLStore) PutSpace(ctx context.Context, r SpaceRecord) error {
	return s.insertOnce(ctx, "space", "spaces", r.ID,
		"INSERT INTO spaces (id, name) VALUES (?, ?)", r.ID, r.Name)
}

// GetSpace loads a space record by id.
func (s *SQLStore) GetSpace(ctx context.Context, id string) (SpaceRecord, error) {
	var r SpaceRecord
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM spaces WHERE id = ?", id).
		Scan(&r.ID, &r.Name)

	return r, wrapGet("space", id, err)
}

// PutMaterial stores a material record.
func (s *SQLStore) PutMaterial(ctx context.Context, r MaterialRecord) error {
	return s.insertOnce(ctx, "material", "materials", r.ID,
		"INSERT INTO materials (id, code, name, parent_name, is_separator) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Code, r.Name, r.ParentName, r.IsSeparator)
}

// GetMaterial loads a material record by id.
func (s *SQLStore) GetMaterial(ctx context.Context, id string) (MaterialRecord, error) {
	var r MaterialRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, code, name, parent_name, is_separator FROM materials WHERE id = ?", id).
		Scan(&r.ID, &r.Code, &r.Name, &r.ParentName, &r.IsSeparator)

	return r, wrapGet("material", id, err)
}

// PutTimeframe stores a timeframe record.
func (s *SQLStore) PutTimeframe(ctx context.Context, r TimeframeRecord) error {
	return s.insertOnce(ctx, "timeframe", "timeframes", r.ID,
		"INSERT INTO timeframes (id, start_time, end_time) VALUES (?, ?, ?)",
		r.ID, r.Start, r.End)
}

// GetTimeframe loads a timeframe record by id.
func (s *SQLStore) GetTimeframe(ctx context.Context, id string) (TimeframeRecord, error) {
	var r TimeframeRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, start_time, end_time FROM timeframes WHERE id = ?", id).
		Scan(&r.ID, &r.Start, &r.End)

	return r, wrapGet("timeframe", id, err)
}

// PutProcess stores a process record.
func (s *SQLStore) PutProcess(ctx context.Context, r ProcessRecord) error {
	return s.insertOnce(ctx, "process", "processes", r.ID,
		"INSERT INTO processes (id, code, name, space_id, is_separator, parent_name, type) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Code, r.Name, r.SpaceID, r.IsSeparator, r.ParentName, r.Type)
}

// GetProcess loads a process record by id.
func (s *SQLStore) GetProcess(ctx context.Context, id string) (ProcessRecord, error) {
	var r ProcessRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, code, name, space_id, is_separator, parent_name, type FROM processes WHERE id = ?", id).
		Scan(&r.ID, &r.Code, &r.Name, &r.SpaceID, &r.IsSeparator, &r.ParentName, &r.Type)

	return r, wrapGet("process", id, err)
}

// PutValue stores a value record. A nil Quantity persists as NULL.
func (s *SQLStore) PutValue(ctx context.Context, r ValueRecord) error {
	quantity := sql.NullFloat64{}
	if r.Quantity != nil {
		quantity = sql.NullFloat64{Float64: *r.Quantity, Valid: true}
	}

	return s.insertOnce(ctx, "value", "measurements", r.ID,
		"INSERT INTO measurements (id, quantity, uncertainty, unit) VALUES (?, ?, ?, ?)",
		r.ID, quantity, r.Uncertainty, r.Unit)
}

// GetValue loads a value record by id.
func (s *SQLStore) GetValue(ctx context.Context, id string) (ValueRecord, error) {
	var (
		r        ValueRecord
		quantity sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, quantity, uncertainty, unit FROM measurements WHERE id = ?", id).
		Scan(&r.ID, &quantity, &r.Uncertainty, &r.Unit)
	if quantity.Valid {
		q := quantity.Float64
		r.Quantity = &q
	}

	return r, wrapGet("value", id, err)
}

// PutStaf stores a stock-or-flow record together with its value map.
func (s *SQLStore) PutStaf(ctx context.Context, r StafRecord) error {
	if r.ID == "" {
		return fmt.Errorf("staf: empty id: %w", ErrBadRecord)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("staf %q: %w", r.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var taken bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM stafs WHERE id = ?)", r.ID).Scan(&taken); err != nil {
		return fmt.Errorf("staf %q: %w", r.ID, err)
	}
	if taken {
		return fmt.Errorf("staf %q: %w", r.ID, ErrDuplicateID)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stafs (id, kind, name, origin_space_id, destination_space_id, timeframe_id,
			material_id, origin_process_id, destination_process_id, process_id, stock_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.Name, r.OriginSpaceID, r.DestinationSpaceID, r.TimeframeID,
		r.MaterialID, r.OriginProcessID, r.DestinationProcessID, r.ProcessID, r.StockType); err != nil {
		return fmt.Errorf("staf %q: %w", r.ID, err)
	}

	for materialID, valueID := range r.ValueIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO staf_values (staf_id, material_id, value_id) VALUES (?, ?, ?)",
			r.ID, materialID, valueID); err != nil {
			return fmt.Errorf("staf %q, material %q: %w", r.ID, materialID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("staf %q: %w", r.ID, err)
	}

	return nil
}

// GetStaf loads a stock-or-flow record together with its value map.
func (s *SQLStore) GetStaf(ctx context.Context, id string) (StafRecord, error) {
	var r StafRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, name, origin_space_id, destination_space_id, timeframe_id,
			material_id, origin_process_id, destination_process_id, process_id, stock_type
		 FROM stafs WHERE id = ?`, id).
		Scan(&r.ID, &r.Kind, &r.Name, &r.OriginSpaceID, &r.DestinationSpaceID, &r.TimeframeID,
			&r.MaterialID, &r.OriginProcessID, &r.DestinationProcessID, &r.ProcessID, &r.StockType)
	if err != nil {
		return StafRecord{}, wrapGet("staf", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT material_id, value_id FROM staf_values WHERE staf_id = ?", id)
	if err != nil {
		return StafRecord{}, fmt.Errorf("staf %q values: %w", id, err)
	}
	defer rows.Close()

	r.ValueIDs = make(map[string]string)
	for rows.Next() {
		var materialID, valueID string
		if err := rows.Scan(&materialID, &valueID); err != nil {
			return StafRecord{}, fmt.Errorf("staf %q values: %w", id, err)
		}
		r.ValueIDs[materialID] = valueID
	}
	if err := rows.Err(); err != nil {
		return StafRecord{}, fmt.Errorf("staf %q values: %w", id, err)
	}

	return r, nil
}

// wrapGet maps the no-rows case onto ErrNotFound.
func wrapGet(kind, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}

	return fmt.Errorf("%s %q: %w", kind, id, err)
}
