package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog() *Catalog {
	return &Catalog{Collections: []Collection{
		{
			Name: "Centrale",
			Books: []Book{
				{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937, Copies: 2},
				{Title: "1984", Author: "George Orwell", Year: 1949, Copies: 1},
			},
		},
		{
			Name: "Succursale",
			Books: []Book{
				{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Year: 1954, Copies: 3},
				{Title: "Animal Farm", Author: "George Orwell", Year: 1945, Copies: 2},
			},
		},
	}}
}

func TestFindCollection(t *testing.T) {
	cat := newTestCatalog()

	col, err := cat.FindCollection("Succursale")
	require.NoError(t, err)
	assert.Equal(t, "Succursale", col.Name)

	_, err = cat.FindCollection("succursale")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestAddCollectionIsIdempotentByName(t *testing.T) {
	cat := newTestCatalog()

	col := cat.AddCollection("Centrale")
	assert.Len(t, cat.Collections, 2)
	assert.Len(t, col.Books, 2)

	cat.AddCollection("Nuova")
	assert.Len(t, cat.Collections, 3)
}

func TestSearchMatchesTitleOrAuthorSubstring(t *testing.T) {
	cat := newTestCatalog()

	results := cat.Search("Tolkien")
	require.Len(t, results, 2)
	// collection-then-insertion order
	assert.Equal(t, "The Hobbit", results[0].Title)
	assert.Equal(t, "The Fellowship of the Ring", results[1].Title)

	results = cat.Search("Animal")
	require.Len(t, results, 1)
	assert.Equal(t, "Animal Farm", results[0].Title)

	// case-sensitive substring containment, nothing fancier
	assert.Empty(t, cat.Search("tolkien"))
	assert.Empty(t, cat.Search("Asimov"))
}

func TestSearchReturnsCopies(t *testing.T) {
	cat := newTestCatalog()

	results := cat.Search("1984")
	require.Len(t, results, 1)
	results[0].Copies = 99

	book := cat.Collections[0].findBook("1984")
	require.NotNil(t, book)
	assert.Equal(t, 1, book.Copies)
}

func TestRemoveBookFirstMatchOnly(t *testing.T) {
	cat := newTestCatalog()
	col, err := cat.FindCollection("Centrale")
	require.NoError(t, err)

	// duplicates are permitted; removal takes the first
	col.AddBook(Book{Title: "1984", Author: "George Orwell", Year: 1949, Copies: 5})
	require.Len(t, col.Books, 3)

	col.RemoveBook("1984")
	require.Len(t, col.Books, 2)
	book := col.findBook("1984")
	require.NotNil(t, book)
	assert.Equal(t, 5, book.Copies)

	// removing an absent title is a no-op
	col.RemoveBook("No Such Book")
	assert.Len(t, col.Books, 2)
}
