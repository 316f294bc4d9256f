package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ali-sabri22/Biblioteca/library"
)

var dbPath string

func main() {
	root := &cobra.Command{
		Use:           "biblioteca",
		Short:         "Multi-collection library lending system",
		Long:          "Biblioteca tracks book inventory across collections, registered patrons, and loans, charging late and loss penalties.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "biblioteca.db", "path to the SQLite database")

	root.AddCommand(
		listCmd(),
		searchCmd(),
		patronsCmd(),
		registerCmd(),
		lendCmd(),
		returnCmd(),
		lostCmd(),
		loansCmd(),
		addBookCmd(),
		removeBookCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withManager opens the database, runs fn, and saves when fn reports a
// mutation. Every command is a single load-act-save round.
func withManager(fn func(m *library.Manager) (mutated bool, err error)) error {
	m, err := library.Open(dbPath)
	if err != nil {
		return err
	}
	defer m.Close()

	mutated, err := fn(m)
	if err != nil {
		return err
	}
	if mutated {
		return m.Save()
	}
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every collection and its books",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				if len(m.Catalog.Collections) == 0 {
					fmt.Println("No collections in the catalog.")
					return false, nil
				}
				fmt.Printf("%-20s %-30s %-25s %-6s %s\n", "Collection", "Title", "Author", "Year", "Copies")
				fmt.Println(strings.Repeat("-", 95))
				for _, col := range m.Catalog.Collections {
					for _, b := range col.Books {
						fmt.Println(library.PrettyBook(col.Name, b))
					}
				}
				return false, nil
			})
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search books by title or author substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				books := m.SearchBooks(args[0])
				if len(books) == 0 {
					fmt.Printf("No books found matching %q.\n", args[0])
					return false, nil
				}
				fmt.Printf("%-30s %-25s %-6s %s\n", "Title", "Author", "Year", "Copies")
				fmt.Println(strings.Repeat("-", 75))
				for _, b := range books {
					fmt.Printf("%-30s %-25s %-6d %d\n", truncateString(b.Title, 30), truncateString(b.Author, 25), b.Year, b.Copies)
				}
				return false, nil
			})
		},
	}
}

func patronsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patrons",
		Short: "List registered patrons with accrued penalties",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				if len(m.Registry.Patrons) == 0 {
					fmt.Println("No patrons registered.")
					return false, nil
				}
				fmt.Printf("%-25s %-18s %-15s %-10s %s\n", "Name", "Fiscal Code", "Phone", "Discount", "Penalty")
				fmt.Println(strings.Repeat("-", 80))
				for _, p := range m.Registry.Patrons {
					fmt.Printf("%-25s %-18s %-15s %-10.1f %s\n",
						truncateString(p.Name, 25), p.FiscalCode, p.Phone, p.Discount, p.Penalty.StringFixed(2))
				}
				return false, nil
			})
		},
	}
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <name> <fiscal-code> <phone>",
		Short: "Register a new patron",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				p, err := m.RegisterPatron(args[0], args[1], args[2])
				if err != nil {
					return false, err
				}
				fmt.Printf("Registered %s (%s) with %.0f%% discount.\n", p.Name, p.FiscalCode, p.Discount)
				return true, nil
			})
		},
	}
}

func lendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lend <fiscal-code> <collection> <title> <due-date>",
		Short: "Lend one copy of a title to a patron",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueOn, err := library.ParseDate(args[3])
			if err != nil {
				return err
			}
			return withManager(func(m *library.Manager) (bool, error) {
				loan, err := m.LendBook(args[0], args[1], args[2], dueOn)
				if err != nil {
					if errors.Is(err, library.ErrNotAvailable) {
						fmt.Printf("%q is not available in %q.\n", args[2], args[1])
						return false, nil
					}
					return false, err
				}
				fmt.Printf("Lent %q from %q, due %s.\n", loan.Title, loan.Collection, loan.DueOn)
				return true, nil
			})
		},
	}
}

func returnCmd() *cobra.Command {
	var onDate string
	cmd := &cobra.Command{
		Use:   "return <fiscal-code> <collection> <title>",
		Short: "Settle the return of a lent book",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			returnedOn := library.Today()
			if onDate != "" {
				var err error
				if returnedOn, err = library.ParseDate(onDate); err != nil {
					return err
				}
			}
			return withManager(func(m *library.Manager) (bool, error) {
				fee, matched, err := m.ReturnBook(args[0], args[1], args[2], returnedOn)
				if err != nil {
					return false, err
				}
				if !matched {
					fmt.Printf("No open loan of %q found for this patron.\n", args[2])
					return false, nil
				}
				if fee.IsPositive() {
					fmt.Printf("Book returned. Late fee charged: %s\n", fee.StringFixed(2))
				} else {
					fmt.Println("Book returned in time. No fee charged.")
				}
				return true, nil
			})
		},
	}
	cmd.Flags().StringVar(&onDate, "on", "", "return date (default today)")
	return cmd
}

func lostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lost <fiscal-code> <collection> <title>",
		Short: "Report a lent book as lost",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				fee, matched, err := m.ReportLost(args[0], args[1], args[2])
				if err != nil {
					return false, err
				}
				if !matched {
					fmt.Printf("No open loan of %q found for this patron.\n", args[2])
					return false, nil
				}
				fmt.Printf("Book reported lost. Fee charged: %s\n", fee.StringFixed(2))
				return true, nil
			})
		},
	}
}

func loansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loans <fiscal-code>",
		Short: "List a patron's open loans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				loans := m.OpenLoans(args[0])
				if len(loans) == 0 {
					fmt.Println("No open loans.")
					return false, nil
				}
				fmt.Printf("%-20s %-30s %-12s %s\n", "Collection", "Title", "Loaned", "Due")
				fmt.Println(strings.Repeat("-", 80))
				for _, loan := range loans {
					fmt.Printf("%-20s %-30s %-12s %s\n",
						truncateString(loan.Collection, 20), truncateString(loan.Title, 30), loan.LoanedOn, loan.DueOn)
				}
				return false, nil
			})
		},
	}
}

func addBookCmd() *cobra.Command {
	var year, copies int
	cmd := &cobra.Command{
		Use:   "add-book <collection> <title> <author>",
		Short: "Add a book to a collection, creating the collection if needed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				m.AddCollection(args[0])
				book := library.Book{Title: args[1], Author: args[2], Year: year, Copies: copies}
				if err := m.AddBook(args[0], book); err != nil {
					return false, err
				}
				fmt.Printf("Added %q to %q (%d copies).\n", book.Title, args[0], book.Copies)
				return true, nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "publication year")
	cmd.Flags().IntVar(&copies, "copies", 1, "number of copies")
	return cmd
}

func removeBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-book <collection> <title>",
		Short: "Remove the first book with the given title from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *library.Manager) (bool, error) {
				if err := m.RemoveBook(args[0], args[1]); err != nil {
					return false, err
				}
				fmt.Printf("Removed %q from %q.\n", args[1], args[0])
				return true, nil
			})
		},
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
