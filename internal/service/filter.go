package service

import (
	"sort"
	"strings"

	"bookshare-backend/internal/domain"
)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// FilterCatalog keeps entries whose title, author or description contains
// search (case-insensitive) and whose genre equals genre. Empty criteria match
// everything. Order is preserved.
func FilterCatalog(entries []domain.CatalogEntry, search, genre string) []domain.CatalogEntry {
	search = strings.ToLower(strings.TrimSpace(search))
	genre = strings.TrimSpace(genre)

	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if genre != "" && e.Genre != genre {
			continue
		}
		if search != "" && !containsFold(e.Title, search) && !containsFold(e.Author, search) && !containsFold(e.Description, search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterDonorBooks keeps books whose title or author contains search, case-insensitively.
func FilterDonorBooks(books []domain.Book, search string) []domain.Book {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return books
	}

	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if containsFold(b.Title, search) || containsFold(b.Author, search) {
			out = append(out, b)
		}
	}
	return out
}

// Genres returns the distinct non-empty genres of entries, sorted.
func Genres(entries []domain.CatalogEntry) []string {
	seen := make(map[string]struct{})
	genres := []string{}
	for _, e := range entries {
		if e.Genre == "" {
			continue
		}
		if _, ok := seen[e.Genre]; ok {
			continue
		}
		seen[e.Genre] = struct{}{}
		genres = append(genres, e.Genre)
	}
	sort.Strings(genres)
	return genres
}
