package library

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// Manager is a thin façade over the aggregates and the Database, keeping
// CLI code simple. It loads the catalog, registry and ledger into memory
// on Open, routes every lending operation through them, and writes the
// whole state back on Save. One Manager serves one caller at a time.
type Manager struct {
	db *Database

	Catalog  *Catalog
	Registry *Registry
	Ledger   *Ledger
}

// Open opens (or creates) the SQLite database at dbPath and loads the
// stored state into memory.
func Open(dbPath string) (*Manager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	m := &Manager{db: db}
	if err := m.Load(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// Close closes the underlying database without saving.
func (m *Manager) Close() error { return m.db.Close() }

// Load replaces the in-memory state with the stored snapshots.
func (m *Manager) Load() error {
	cat, err := m.db.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	reg, err := m.db.LoadPatrons()
	if err != nil {
		return fmt.Errorf("load patrons: %w", err)
	}
	ledger, err := m.db.LoadLoans()
	if err != nil {
		return fmt.Errorf("load loans: %w", err)
	}
	m.Catalog, m.Registry, m.Ledger = cat, reg, ledger
	return nil
}

// Save writes the in-memory state back to the database.
func (m *Manager) Save() error {
	if err := m.db.SaveCatalog(m.Catalog); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	if err := m.db.SavePatrons(m.Registry); err != nil {
		return fmt.Errorf("save patrons: %w", err)
	}
	if err := m.db.SaveLoans(m.Ledger); err != nil {
		return fmt.Errorf("save loans: %w", err)
	}
	return nil
}

// ------------------ Patron helpers ------------------

// RegisterPatron validates the fiscal code and adds the patron as
// registered with the standard discount.
func (m *Manager) RegisterPatron(name, fiscalCode, phone string) (*Patron, error) {
	p, err := m.Registry.Register(name, fiscalCode, phone)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", fiscalCode, err)
	}
	return p, nil
}

// FindPatron looks a patron up by fiscal code, normalizing first.
func (m *Manager) FindPatron(fiscalCode string) (*Patron, error) {
	return m.Registry.Find(NormalizeFiscalCode(fiscalCode))
}

// ------------------ Catalog helpers ------------------

func (m *Manager) AddCollection(name string) *Collection {
	return m.Catalog.AddCollection(name)
}

func (m *Manager) AddBook(collection string, b Book) error {
	col, err := m.Catalog.FindCollection(collection)
	if err != nil {
		return fmt.Errorf("add book to %q: %w", collection, err)
	}
	col.AddBook(b)
	return nil
}

func (m *Manager) RemoveBook(collection, title string) error {
	col, err := m.Catalog.FindCollection(collection)
	if err != nil {
		return fmt.Errorf("remove book from %q: %w", collection, err)
	}
	col.RemoveBook(title)
	return nil
}

func (m *Manager) SearchBooks(query string) []Book {
	return m.Catalog.Search(query)
}

// ------------------ Circulation ------------------

// LendBook issues a loan of title from the named collection to the
// patron with the given fiscal code, due on dueOn.
func (m *Manager) LendBook(fiscalCode, collection, title string, dueOn Date) (*Loan, error) {
	p, err := m.FindPatron(fiscalCode)
	if err != nil {
		return nil, fmt.Errorf("lend %q: %w", title, err)
	}
	col, err := m.Catalog.FindCollection(collection)
	if err != nil {
		return nil, fmt.Errorf("lend %q: %w", title, err)
	}
	loan, err := m.Ledger.Issue(p, col, title, Today(), dueOn)
	if err != nil {
		return nil, fmt.Errorf("lend %q from %q: %w", title, collection, err)
	}
	return loan, nil
}

// ReturnBook settles the return of title by the patron on returnedOn.
// The fee is the late penalty charged, zero when in time; matched is
// false when no open loan existed for the triple (nothing changed).
func (m *Manager) ReturnBook(fiscalCode, collection, title string, returnedOn Date) (fee decimal.Decimal, matched bool, err error) {
	p, err := m.FindPatron(fiscalCode)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("return %q: %w", title, err)
	}
	col, err := m.Catalog.FindCollection(collection)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("return %q: %w", title, err)
	}
	fee, matched = m.Ledger.SettleReturn(p, col, title, returnedOn)
	return fee, matched, nil
}

// ReportLost settles the patron's open loan of title as lost, charging
// the flat loss fee. The copy is not returned to the shelf.
func (m *Manager) ReportLost(fiscalCode, collection, title string) (fee decimal.Decimal, matched bool, err error) {
	p, err := m.FindPatron(fiscalCode)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("report lost %q: %w", title, err)
	}
	col, err := m.Catalog.FindCollection(collection)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("report lost %q: %w", title, err)
	}
	fee, matched = m.Ledger.SettleLoss(p, col, title)
	return fee, matched, nil
}

// OpenLoans lists the patron's open loans.
func (m *Manager) OpenLoans(fiscalCode string) []Loan {
	return m.Ledger.OpenLoans(NormalizeFiscalCode(fiscalCode))
}

// ------------------ Legacy import/export ------------------

// ImportLegacy loads collections and patrons from the flat files of the
// original system, replacing the in-memory catalog and registry. Pass an
// empty patronsPath to import collections only.
func (m *Manager) ImportLegacy(collectionsPath, patronsPath string) error {
	f, err := os.Open(filepath.Clean(collectionsPath))
	if err != nil {
		return err
	}
	defer f.Close()

	collections, err := ReadCollections(f)
	if err != nil {
		return err
	}
	m.Catalog = &Catalog{Collections: collections}

	if patronsPath == "" {
		return nil
	}
	pf, err := os.Open(filepath.Clean(patronsPath))
	if err != nil {
		return err
	}
	defer pf.Close()

	patrons, err := ReadPatrons(pf)
	if err != nil {
		return err
	}
	m.Registry = &Registry{Patrons: patrons}
	return nil
}

// ------------------ Utilities ------------------

// PrettyBook formats a book for lists.
func PrettyBook(collection string, b Book) string {
	return fmt.Sprintf("%-20s %-30s %-25s %-6d %d", collection, b.Title, b.Author, b.Year, b.Copies)
}
