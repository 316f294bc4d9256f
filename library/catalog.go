package library

import "strings"

// Catalog owns every collection and the availability counts of their
// books. It is a plain in-memory aggregate: the caller decides when to
// load it from and save it to durable storage.
type Catalog struct {
	Collections []Collection
}

// FindCollection returns a pointer to the collection with the exact given
// name, or ErrCollectionNotFound.
func (c *Catalog) FindCollection(name string) (*Collection, error) {
	for i := range c.Collections {
		if c.Collections[i].Name == name {
			return &c.Collections[i], nil
		}
	}
	return nil, ErrCollectionNotFound
}

// AddCollection appends a new empty collection and returns it. If a
// collection with that name already exists it is returned unchanged.
func (c *Catalog) AddCollection(name string) *Collection {
	if existing, err := c.FindCollection(name); err == nil {
		return existing
	}
	c.Collections = append(c.Collections, Collection{Name: name})
	return &c.Collections[len(c.Collections)-1]
}

// AddBook appends a book to the collection. Duplicate titles are
// permitted; title matches always resolve to the first occurrence.
func (col *Collection) AddBook(b Book) {
	col.Books = append(col.Books, b)
}

// RemoveBook deletes the first book whose title equals the argument.
// No-op when the title is absent.
func (col *Collection) RemoveBook(title string) {
	for i := range col.Books {
		if col.Books[i].Title == title {
			col.Books = append(col.Books[:i], col.Books[i+1:]...)
			return
		}
	}
}

// findBook returns the first book with the given title, or nil.
func (col *Collection) findBook(title string) *Book {
	for i := range col.Books {
		if col.Books[i].Title == title {
			return &col.Books[i]
		}
	}
	return nil
}

// Search returns a snapshot of every book whose title or author contains
// the query as a case-sensitive substring, scanning collections in order
// and books in insertion order. The returned books are copies, not live
// records.
func (c *Catalog) Search(query string) []Book {
	var results []Book
	for i := range c.Collections {
		for _, b := range c.Collections[i].Books {
			if strings.Contains(b.Title, query) || strings.Contains(b.Author, query) {
				results = append(results, b)
			}
		}
	}
	return results
}
