package library

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCatalogRoundTrip(t *testing.T) {
	db := tempDB(t)
	cat := newTestCatalog()

	if err := db.SaveCatalog(cat); err != nil {
		t.Fatalf("save catalog: %v", err)
	}
	back, err := db.LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	if len(back.Collections) != len(cat.Collections) {
		t.Fatalf("want %d collections, got %d", len(cat.Collections), len(back.Collections))
	}
	for i, col := range cat.Collections {
		got := back.Collections[i]
		if got.Name != col.Name {
			t.Fatalf("collection %d: want name %q, got %q", i, col.Name, got.Name)
		}
		if len(got.Books) != len(col.Books) {
			t.Fatalf("collection %q: want %d books, got %d", col.Name, len(col.Books), len(got.Books))
		}
		for j, b := range col.Books {
			if got.Books[j] != b {
				t.Fatalf("collection %q book %d: want %+v, got %+v", col.Name, j, b, got.Books[j])
			}
		}
	}
}

func TestCatalogSaveReplacesSnapshot(t *testing.T) {
	db := tempDB(t)

	if err := db.SaveCatalog(newTestCatalog()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	smaller := &Catalog{Collections: []Collection{{Name: "Unica"}}}
	if err := db.SaveCatalog(smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}

	back, err := db.LoadCatalog()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(back.Collections) != 1 || back.Collections[0].Name != "Unica" {
		t.Fatalf("stale snapshot survived: %+v", back.Collections)
	}
}

func TestPatronsRoundTripKeepsPenalty(t *testing.T) {
	db := tempDB(t)

	reg := &Registry{Patrons: []Patron{
		{
			Name:       "Mario Rossi",
			FiscalCode: "RSSMRA85T10A562S",
			Phone:      "333 1234567",
			Registered: true,
			Discount:   10,
			Penalty:    decimal.RequireFromString("2.50"),
		},
		{
			Name:       "Luigi Verdi",
			FiscalCode: "VRDLGU90A01H501X",
			Penalty:    decimal.Zero,
		},
	}}

	if err := db.SavePatrons(reg); err != nil {
		t.Fatalf("save patrons: %v", err)
	}
	back, err := db.LoadPatrons()
	if err != nil {
		t.Fatalf("load patrons: %v", err)
	}

	if len(back.Patrons) != 2 {
		t.Fatalf("want 2 patrons, got %d", len(back.Patrons))
	}
	mario := back.Patrons[0]
	if mario.FiscalCode != "RSSMRA85T10A562S" || !mario.Registered {
		t.Fatalf("patron fields lost: %+v", mario)
	}
	if !mario.Penalty.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("penalty not persisted: got %s", mario.Penalty)
	}
	if !back.Patrons[1].Penalty.IsZero() {
		t.Fatalf("zero penalty changed: got %s", back.Patrons[1].Penalty)
	}
}

func TestLoansRoundTrip(t *testing.T) {
	db := tempDB(t)

	ledger := &Ledger{Loans: []Loan{
		{
			ID:         "5f0c39a1-0f0e-4f7f-9a3e-000000000001",
			FiscalCode: "RSSMRA85T10A562S",
			Collection: "Centrale",
			Title:      "The Hobbit",
			LoanedOn:   MustDate("2024-01-01"),
			DueOn:      MustDate("2024-01-15"),
		},
		{
			ID:         "5f0c39a1-0f0e-4f7f-9a3e-000000000002",
			FiscalCode: "VRDLGU90A01H501X",
			Collection: "Centrale",
			Title:      "1984",
			LoanedOn:   MustDate("2023-12-01"),
			DueOn:      MustDate("2023-12-15"),
			Returned:   true,
		},
	}}

	if err := db.SaveLoans(ledger); err != nil {
		t.Fatalf("save loans: %v", err)
	}
	back, err := db.LoadLoans()
	if err != nil {
		t.Fatalf("load loans: %v", err)
	}

	if len(back.Loans) != 2 {
		t.Fatalf("want 2 loans, got %d", len(back.Loans))
	}
	for i, want := range ledger.Loans {
		if back.Loans[i] != want {
			t.Fatalf("loan %d: want %+v, got %+v", i, want, back.Loans[i])
		}
	}
}

func TestEmptyDatabaseLoads(t *testing.T) {
	db := tempDB(t)

	cat, err := db.LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(cat.Collections) != 0 {
		t.Fatalf("expected empty catalog")
	}
	reg, err := db.LoadPatrons()
	if err != nil {
		t.Fatalf("load patrons: %v", err)
	}
	if len(reg.Patrons) != 0 {
		t.Fatalf("expected empty registry")
	}
	ledger, err := db.LoadLoans()
	if err != nil {
		t.Fatalf("load loans: %v", err)
	}
	if len(ledger.Loans) != 0 {
		t.Fatalf("expected empty ledger")
	}
}
