package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"product-extractor/internal/types"
)

// Driver names understood by NewSQLWriter
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// SQLWriter persists extraction results to a products table in SQLite,
// PostgreSQL or MySQL.
type SQLWriter struct {
	db     *sql.DB
	driver string
}

// NewSQLiteWriter opens (or creates) the SQLite database at path
func NewSQLiteWriter(path string) (*SQLWriter, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", path)
	return NewSQLWriter(DriverSQLite, dsn)
}

// NewPostgresWriter connects to PostgreSQL, retrying the ping for a short while
func NewPostgresWriter(dsn string) (*SQLWriter, error) {
	return NewSQLWriter(DriverPostgres, dsn)
}

// NewMySQLWriter connects to MySQL. dsn uses the go-sql-driver format, for
// example "user:pass@tcp(localhost:3306)/scraper_db".
func NewMySQLWriter(dsn string) (*SQLWriter, error) {
	normalized, err := mysqlDSN(dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLWriter(DriverMySQL, normalized)
}

// mysqlDSN turns on parseTime so extracted_at scans into time.Time, and stores
// times in UTC.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql: parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// NewSQLWriter opens a connection, checks it, and ensures the schema exists.
func NewSQLWriter(driver, dsn string) (*SQLWriter, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("sql: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}

	// database servers may still be starting
	attempts := 5
	if driver == DriverSQLite {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i < attempts-1 {
			time.Sleep(time.Second)
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping failed: %w", driver, err)
	}

	w := &SQLWriter{db: db, driver: driver}
	if err := w.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", driver, err)
	}

	return w, nil
}

func (w *SQLWriter) migrate() error {
	id, timestamp, inline, suffix := "INTEGER PRIMARY KEY AUTOINCREMENT", "TIMESTAMP", "", ""
	switch w.driver {
	case DriverPostgres:
		id = "SERIAL PRIMARY KEY"
	case DriverMySQL:
		// MySQL needs a prefix length to index TEXT and has no CREATE INDEX IF NOT EXISTS
		id, timestamp = "INT AUTO_INCREMENT PRIMARY KEY", "DATETIME"
		inline = ",\n\t\t\tINDEX idx_products_url (url(255))"
		suffix = " DEFAULT CHARSET=utf8mb4"
	}

	_, err := w.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS products (
			id           %s,
			url          TEXT NOT NULL,
			site         TEXT NOT NULL,
			title        TEXT NOT NULL,
			price        TEXT NOT NULL,
			rating       TEXT NOT NULL,
			availability TEXT NOT NULL,
			extracted_at %s NOT NULL%s
		)%s`, id, timestamp, inline, suffix))
	if err != nil {
		return err
	}
	if w.driver == DriverMySQL {
		return nil
	}

	_, err = w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_products_url ON products(url)`)
	return err
}

func (w *SQLWriter) insertQuery() string {
	if w.driver == DriverPostgres {
		return `INSERT INTO products (url, site, title, price, rating, availability, extracted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
	}
	return `INSERT INTO products (url, site, title, price, rating, availability, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
}

// Write inserts all results in a single transaction
func (w *SQLWriter) Write(results []*types.ExtractionResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin: %w", w.driver, err)
	}

	stmt, err := tx.Prepare(w.insertQuery())
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: prepare insert: %w", w.driver, err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(
			r.URL, r.Site, r.Product.Title, r.Product.Price,
			r.Product.Rating, r.Product.Availability, r.ExtractedAt.UTC(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%s: insert %s: %w", w.driver, r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", w.driver, err)
	}
	return nil
}

// FetchAll returns every stored result, oldest first
func (w *SQLWriter) FetchAll() ([]*types.ExtractionResult, error) {
	rows, err := w.db.Query(`
		SELECT url, site, title, price, rating, availability, extracted_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch all: %w", w.driver, err)
	}
	defer rows.Close()

	var results []*types.ExtractionResult
	for rows.Next() {
		r := &types.ExtractionResult{}
		if err := rows.Scan(
			&r.URL, &r.Site, &r.Product.Title, &r.Product.Price,
			&r.Product.Rating, &r.Product.Availability, &r.ExtractedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", w.driver, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close closes the database connection
func (w *SQLWriter) Close() error {
	return w.db.Close()
}
