package store

import (
	"context"
	"database/sql"
	"fmt"
)

// List returns all records in natural order (ascending id).
//
// Returns a KindNoTable error if the members table does not exist, and an
// empty slice (not nil) if it exists but holds no rows.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	var records []Record
	err := s.withDB(ctx, "list", func(db *sql.DB) error {
		exists, err := tableExists(ctx, db)
		if err != nil {
			return storeError("list", err)
		}
		if !exists {
			return &Error{Kind: KindNoTable, Op: "list", Path: s.path}
		}

		records, err = queryRecords(ctx, db, `
			SELECT iid, mname, msex, mphone FROM members
			ORDER BY iid ASC
		`)
		if err != nil {
			return storeError("list", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SearchByPhone returns every record whose phone equals phone exactly, in
// natural order. No match yields an empty slice, not an error.
func (s *SQLiteStore) SearchByPhone(ctx context.Context, phone string) ([]Record, error) {
	var records []Record
	err := s.withDB(ctx, "search", func(db *sql.DB) error {
		var err error
		records, err = queryRecords(ctx, db, `
			SELECT iid, mname, msex, mphone FROM members
			WHERE mphone = ?
			ORDER BY iid ASC
		`, normalize(phone))
		if err != nil {
			return storeError("search", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of records in the table.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.withDB(ctx, "count", func(db *sql.DB) error {
		var err error
		count, err = countRows(ctx, db)
		if err != nil {
			return storeError("count", err)
		}
		return nil
	})
	return count, err
}

func queryRecords(ctx context.Context, db *sql.DB, query string, args ...any) ([]Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Sex, &r.Phone); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []Record{}
	}

	return records, nil
}

// scanRecordRow scans a single-row query. Returns sql.ErrNoRows unwrapped
// so callers can test for it.
func scanRecordRow(row *sql.Row) (Record, error) {
	var r Record
	if err := row.Scan(&r.ID, &r.Name, &r.Sex, &r.Phone); err != nil {
		return Record{}, err
	}
	return r, nil
}
