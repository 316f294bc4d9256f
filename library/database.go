package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the durable store for catalog, patrons and loans, backed
// by SQLite. It persists full snapshots of the in-memory aggregates:
// each save replaces the previous snapshot in one transaction, so a
// crash mid-save never leaves a half-written state on disk.
type Database struct {
	db *sql.DB
}

// NewDatabase opens (or creates) the SQLite database at dbPath and
// applies schema migrations.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db}, nil
}

// Close closes the underlying database.
func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS collections (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL UNIQUE,
            position INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            year INTEGER NOT NULL,
            copies INTEGER NOT NULL CHECK (copies >= 0),
            position INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS patrons (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            fiscal_code TEXT NOT NULL UNIQUE,
            phone TEXT NOT NULL,
            registered BOOLEAN NOT NULL,
            discount REAL NOT NULL,
            penalty TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            id TEXT PRIMARY KEY,
            fiscal_code TEXT NOT NULL,
            collection TEXT NOT NULL,
            title TEXT NOT NULL,
            loaned_on TEXT NOT NULL,
            due_on TEXT NOT NULL,
            returned BOOLEAN NOT NULL DEFAULT 0
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Catalog snapshots
// ---------------------------------------------------------------------------

// SaveCatalog replaces the stored catalog snapshot. Collection and book
// positions are recorded so a load reproduces the exact order.
func (d *Database) SaveCatalog(cat *Catalog) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM collections`); err != nil {
		return err
	}

	insertCol, err := tx.Prepare(`INSERT INTO collections(name, position) VALUES(?, ?)`)
	if err != nil {
		return err
	}
	defer insertCol.Close()

	insertBook, err := tx.Prepare(`INSERT INTO books(collection_id, title, author, year, copies, position) VALUES(?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertBook.Close()

	for ci, col := range cat.Collections {
		res, err := insertCol.Exec(col.Name, ci)
		if err != nil {
			return fmt.Errorf("save collection %q: %w", col.Name, err)
		}
		colID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for bi, b := range col.Books {
			if _, err := insertBook.Exec(colID, b.Title, b.Author, b.Year, b.Copies, bi); err != nil {
				return fmt.Errorf("save book %q: %w", b.Title, err)
			}
		}
	}

	return tx.Commit()
}

// LoadCatalog reads the stored catalog snapshot in saved order.
func (d *Database) LoadCatalog() (*Catalog, error) {
	rows, err := d.db.Query(`SELECT id, name FROM collections ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cat := &Catalog{}
	var ids []int64
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		cat.Collections = append(cat.Collections, Collection{Name: name})
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		books, err := d.loadBooks(id)
		if err != nil {
			return nil, fmt.Errorf("load collection %q: %w", cat.Collections[i].Name, err)
		}
		cat.Collections[i].Books = books
	}

	return cat, nil
}

func (d *Database) loadBooks(collectionID int64) ([]Book, error) {
	rows, err := d.db.Query(`SELECT title, author, year, copies FROM books WHERE collection_id=? ORDER BY position`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.Title, &b.Author, &b.Year, &b.Copies); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ---------------------------------------------------------------------------
// Patron snapshots
// ---------------------------------------------------------------------------

// SavePatrons replaces the stored patron snapshot. Unlike the legacy CSV
// format, the accrued penalty is persisted and survives a reload.
func (d *Database) SavePatrons(reg *Registry) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM patrons`); err != nil {
		return err
	}

	insert, err := tx.Prepare(`INSERT INTO patrons(name, fiscal_code, phone, registered, discount, penalty) VALUES(?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	for _, p := range reg.Patrons {
		if _, err := insert.Exec(p.Name, p.FiscalCode, p.Phone, p.Registered, p.Discount, p.Penalty.String()); err != nil {
			return fmt.Errorf("save patron %s: %w", p.FiscalCode, err)
		}
	}

	return tx.Commit()
}

// LoadPatrons reads the stored patron snapshot.
func (d *Database) LoadPatrons() (*Registry, error) {
	rows, err := d.db.Query(`SELECT name, fiscal_code, phone, registered, discount, penalty FROM patrons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reg := &Registry{}
	for rows.Next() {
		var p Patron
		var penalty string
		if err := rows.Scan(&p.Name, &p.FiscalCode, &p.Phone, &p.Registered, &p.Discount, &penalty); err != nil {
			return nil, err
		}
		if p.Penalty, err = decimal.NewFromString(penalty); err != nil {
			return nil, fmt.Errorf("patron %s: bad penalty %q: %w", p.FiscalCode, penalty, err)
		}
		reg.Patrons = append(reg.Patrons, p)
	}
	return reg, rows.Err()
}

// ---------------------------------------------------------------------------
// Loan snapshots
// ---------------------------------------------------------------------------

// SaveLoans replaces the stored loan snapshot, closed loans included.
func (d *Database) SaveLoans(ledger *Ledger) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM loans`); err != nil {
		return err
	}

	insert, err := tx.Prepare(`INSERT INTO loans(id, fiscal_code, collection, title, loaned_on, due_on, returned) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	for _, loan := range ledger.Loans {
		if _, err := insert.Exec(loan.ID, loan.FiscalCode, loan.Collection, loan.Title, loan.LoanedOn, loan.DueOn, loan.Returned); err != nil {
			return fmt.Errorf("save loan %s: %w", loan.ID, err)
		}
	}

	return tx.Commit()
}

// LoadLoans reads the stored loan snapshot in insertion order, which
// keeps first-open-match settlement stable across restarts.
func (d *Database) LoadLoans() (*Ledger, error) {
	rows, err := d.db.Query(`SELECT id, fiscal_code, collection, title, loaned_on, due_on, returned FROM loans ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := &Ledger{}
	for rows.Next() {
		var loan Loan
		if err := rows.Scan(&loan.ID, &loan.FiscalCode, &loan.Collection, &loan.Title, &loan.LoanedOn, &loan.DueOn, &loan.Returned); err != nil {
			return nil, err
		}
		ledger.Loans = append(ledger.Loans, loan)
	}
	return ledger, rows.Err()
}
