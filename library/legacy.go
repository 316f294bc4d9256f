package library

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Legacy flat-file formats, kept compatible with the data files of the
// original system so old deployments can be imported:
//
//	collections file:  [Collection Name] header lines followed by
//	                   title,author,year,copies rows, blank-line separated
//	patrons file:      CSV rows of name,fiscal_code,phone,registered_on,discount
//
// The patrons file carries neither the registered flag (every persisted
// patron is registered) nor the accrued penalty (it resets to zero on
// load). The SQLite store does not have these limitations.

// ReadCollections parses the legacy collections format. Malformed book
// rows are skipped, matching the tolerance of the original loader.
func ReadCollections(r io.Reader) ([]Collection, error) {
	var collections []Collection
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			collections = append(collections, Collection{Name: line[1 : len(line)-1]})
			continue
		}
		if len(collections) == 0 {
			continue // book row before any collection header
		}
		parts := strings.SplitN(line, ",", 4)
		if len(parts) != 4 {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}
		copies, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil {
			continue
		}
		col := &collections[len(collections)-1]
		col.Books = append(col.Books, Book{
			Title:  parts[0],
			Author: parts[1],
			Year:   year,
			Copies: copies,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read collections: %w", err)
	}
	return collections, nil
}

// WriteCollections writes collections in the legacy format, preserving
// collection and book order so a read-back reproduces the input.
func WriteCollections(w io.Writer, collections []Collection) error {
	bw := bufio.NewWriter(w)
	for _, col := range collections {
		fmt.Fprintf(bw, "[%s]\n", col.Name)
		for _, b := range col.Books {
			fmt.Fprintf(bw, "%s,%s,%d,%d\n", b.Title, b.Author, b.Year, b.Copies)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ReadPatrons parses the legacy patrons CSV. Loaded patrons come back
// registered with a zero penalty; rows with too few fields are skipped.
func ReadPatrons(r io.Reader) ([]Patron, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read patrons: %w", err)
	}

	var patrons []Patron
	for _, rec := range records {
		if len(rec) < 5 {
			continue
		}
		discount, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
		if err != nil {
			discount = 0
		}
		patrons = append(patrons, Patron{
			Name:       rec[0],
			FiscalCode: NormalizeFiscalCode(rec[1]),
			Phone:      rec[2],
			Registered: true,
			Discount:   discount,
			Penalty:    decimal.Zero,
		})
	}
	return patrons, nil
}

// WritePatrons writes patrons in the legacy CSV format. The fourth field
// is the registration date; the original stamped the day of registration,
// which is not retained in the model, so the given date is used for every
// row.
func WritePatrons(w io.Writer, patrons []Patron, registeredOn Date) error {
	cw := csv.NewWriter(w)
	for _, p := range patrons {
		rec := []string{
			p.Name,
			p.FiscalCode,
			p.Phone,
			registeredOn.time().Format(LegacyDateFormat),
			strconv.FormatFloat(p.Discount, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write patrons: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
