package library

import "strings"

// CatalogSearch answers read-only queries over the catalog.
type CatalogSearch struct {
	store *EntityStore
}

// NewCatalogSearch returns a search over store's catalog.
func NewCatalogSearch(store *EntityStore) *CatalogSearch {
	return &CatalogSearch{store: store}
}

// Search returns the ids of every book whose title, author, or category
// contains query, case-insensitively, in catalog order. Every book is
// scanned exactly once; an empty query matches the whole catalog.
func (c *CatalogSearch) Search(query string) []string {
	q := strings.ToLower(query)
	var results []string
	for _, book := range c.store.Books() {
		if strings.Contains(strings.ToLower(book.Title), q) ||
			strings.Contains(strings.ToLower(book.Author), q) ||
			strings.Contains(strings.ToLower(book.Category), q) {
			results = append(results, book.ID)
		}
	}
	return results
}
