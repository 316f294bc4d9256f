package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Ali-sabri22/Biblioteca/library"
)

// import_legacy rebuilds the SQLite database from the flat data files of
// the original system (a bracket-header collections file and a patrons
// CSV). Any existing database at the target path is replaced.
func main() {
	dbPath := flag.String("db", "biblioteca.db", "path to the SQLite database to create")
	collectionsPath := flag.String("collections", "librerie.txt", "legacy collections file")
	patronsPath := flag.String("patrons", "utenti.csv", "legacy patrons CSV (empty to skip)")
	flag.Parse()

	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	for _, suffix := range []string{"", "-shm", "-wal"} {
		if err := os.Remove(*dbPath + suffix); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", *dbPath+suffix, err)
		}
	}

	manager, err := library.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	fmt.Printf("Importing %s", *collectionsPath)
	if *patronsPath != "" {
		fmt.Printf(" and %s", *patronsPath)
	}
	fmt.Println("...")

	if err := manager.ImportLegacy(*collectionsPath, *patronsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	if err := manager.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving database: %v\n", err)
		os.Exit(1)
	}

	bookCount := 0
	for _, col := range manager.Catalog.Collections {
		bookCount += len(col.Books)
	}
	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Collections: %d\n", len(manager.Catalog.Collections))
	fmt.Printf("Books: %d\n", bookCount)
	fmt.Printf("Patrons: %d\n", len(manager.Registry.Patrons))

	if bookCount > 0 {
		fmt.Println("\nImported books:")
		fmt.Printf("%-20s %-30s %-25s %-6s %s\n", "Collection", "Title", "Author", "Year", "Copies")
		for _, col := range manager.Catalog.Collections {
			for _, b := range col.Books {
				fmt.Println(library.PrettyBook(col.Name, b))
			}
		}
	}
}
