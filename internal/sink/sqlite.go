package sink

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"ordersynth/internal/model"
)

// Table is the SQLite table SQLiteWriter fills.
const Table = "clean_data"

const createTable = `CREATE TABLE IF NOT EXISTS ` + Table + ` (
	order_date   TEXT    NOT NULL,
	customer_id  INTEGER NOT NULL,
	product_name TEXT    NOT NULL,
	month_number INTEGER NOT NULL,
	unit_price   REAL    NOT NULL,
	quantity     INTEGER NOT NULL,
	line_total   REAL    NOT NULL
)`

const insertRow = `INSERT INTO ` + Table + `
	(order_date, customer_id, product_name, month_number, unit_price, quantity, line_total)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// SQLiteWriter stores rows in a SQLite database. The table is emptied when
// the writer is opened, matching the overwrite behavior of the CSV output.
type SQLiteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
}

func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM ` + Table); err != nil {
		db.Close()
		return nil, fmt.Errorf("truncate: %w", err)
	}
	stmt, err := db.Prepare(insertRow)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return &SQLiteWriter{db: db, stmt: stmt}, nil
}

func (s *SQLiteWriter) Append(r model.FlatRow) error {
	_, err := s.stmt.Exec(
		r.OrderDate.Format(model.DateLayout),
		r.CustomerID,
		r.ProductName,
		r.MonthNumber,
		r.UnitPrice,
		r.Quantity,
		r.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for queries over the stored rows.
func (s *SQLiteWriter) DB() *sql.DB { return s.db }

func (s *SQLiteWriter) Close() error {
	_ = s.stmt.Close()
	return s.db.Close()
}
