package store

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// importDelimiter separates name, sex and phone in an import line.
// Fields are not quoted or escaped.
const importDelimiter = ","

// Insert appends one record and returns the number of rows affected.
// Empty fields are accepted.
func (s *SQLiteStore) Insert(ctx context.Context, name, sex, phone string) (int64, error) {
	var affected int64
	err := s.withDB(ctx, "insert", func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			"INSERT INTO members (mname, msex, mphone) VALUES (?, ?, ?)",
			normalize(name), normalize(sex), normalize(phone),
		)
		if err != nil {
			return storeError("insert", err)
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return storeError("insert", fmt.Errorf("rows affected: %w", err))
		}
		return nil
	})
	return affected, err
}

// Import reads name,sex,phone lines from textPath and inserts one row per
// line. Blank lines are skipped and fields past the third are ignored.
//
// All rows are inserted in a single transaction: a malformed line or a
// store failure leaves the table unchanged. The table is created if absent.
//
// Returns the total number of rows in the table after the import.
func (s *SQLiteStore) Import(ctx context.Context, textPath string) (int, error) {
	records, err := readImportFile(textPath)
	if err != nil {
		return 0, err
	}

	var total int
	err = s.withDB(ctx, "import", func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			return storeError("import", fmt.Errorf("failed to execute schema: %w", err))
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return storeError("import", fmt.Errorf("begin tx: %w", err))
		}
		defer tx.Rollback() // No-op if committed

		stmt, err := tx.PrepareContext(ctx, "INSERT INTO members (mname, msex, mphone) VALUES (?, ?, ?)")
		if err != nil {
			return storeError("import", fmt.Errorf("prepare insert: %w", err))
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.Name, r.Sex, r.Phone); err != nil {
				return storeError("import", fmt.Errorf("insert %q: %w", r.Name, err))
			}
		}

		total, err = countRows(ctx, tx)
		if err != nil {
			return storeError("import", err)
		}

		if err := tx.Commit(); err != nil {
			return storeError("import", fmt.Errorf("commit: %w", err))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("imported members", "file", textPath, "rows", len(records), "total", total)
	return total, nil
}

// readImportFile parses the whole import file before the database is touched.
func readImportFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: KindFileNotFound, Op: "import", Path: path, Err: err}
		}
		return nil, storeError("import", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}

		fields := strings.Split(line, importDelimiter)
		if len(fields) < 3 {
			return nil, &Error{
				Kind: KindMalformedLine,
				Op:   "import",
				Path: path,
				Line: lineNo,
				Err:  fmt.Errorf("want 3 fields, got %d", len(fields)),
			}
		}

		records = append(records, Record{
			Name:  normalize(fields[0]),
			Sex:   normalize(fields[1]),
			Phone: normalize(fields[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, storeError("import", fmt.Errorf("read %s: %w", path, err))
	}

	return records, nil
}

// UpdateByName sets sex and phone on the first record (lowest id) whose name
// equals name exactly. Name and id are unchanged; other records sharing the
// name are not touched.
//
// Returns the record before and after the update, or a KindNotFound error
// if no record has that name.
func (s *SQLiteStore) UpdateByName(ctx context.Context, name, sex, phone string) (before, after Record, err error) {
	name = normalize(name)

	err = s.withDB(ctx, "update", func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return storeError("update", fmt.Errorf("begin tx: %w", err))
		}
		defer tx.Rollback()

		before, err = scanRecordRow(tx.QueryRowContext(ctx, `
			SELECT iid, mname, msex, mphone FROM members
			WHERE mname = ?
			ORDER BY iid ASC
			LIMIT 1
		`, name))
		if errors.Is(err, sql.ErrNoRows) {
			return &Error{Kind: KindNotFound, Op: "update", Key: name}
		}
		if err != nil {
			return storeError("update", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE members SET msex = ?, mphone = ? WHERE iid = ?",
			normalize(sex), normalize(phone), before.ID,
		); err != nil {
			return storeError("update", err)
		}

		after, err = scanRecordRow(tx.QueryRowContext(ctx,
			"SELECT iid, mname, msex, mphone FROM members WHERE iid = ?", before.ID,
		))
		if err != nil {
			return storeError("update", fmt.Errorf("reread %d: %w", before.ID, err))
		}

		if err := tx.Commit(); err != nil {
			return storeError("update", fmt.Errorf("commit: %w", err))
		}
		return nil
	})
	if err != nil {
		return Record{}, Record{}, err
	}
	return before, after, nil
}

// DeleteAll removes every record and returns how many existed immediately
// before deletion. The table itself remains and the id sequence is not reset.
//
// On failure it returns -1 together with the error.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int, error) {
	before := -1
	err := s.withDB(ctx, "delete all", func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return storeError("delete all", fmt.Errorf("begin tx: %w", err))
		}
		defer tx.Rollback()

		count, err := countRows(ctx, tx)
		if err != nil {
			return storeError("delete all", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM members"); err != nil {
			return storeError("delete all", err)
		}

		if err := tx.Commit(); err != nil {
			return storeError("delete all", fmt.Errorf("commit: %w", err))
		}
		before = count
		return nil
	})
	if err != nil {
		return -1, err
	}
	return before, nil
}
