package domain

import (
	"fmt"
	"time"
)

type Book struct {
	ID          int32     `json:"id"`
	BookCode    string    `json:"book_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre,omitempty"`
	Edition     string    `json:"edition,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	Description string    `json:"description,omitempty"`
	DonorID     int32     `json:"donor_id"`
	IsAvailable bool      `json:"is_available"`
	CreatedOn   time.Time `json:"created_on"`
}

// CatalogEntry is an available book as a receiver sees it.
type CatalogEntry struct {
	Book
	DonorName string `json:"donor_name"`
	Requested bool   `json:"requested"`
}

// DefaultBookCode returns the display code given to books created without one.
func DefaultBookCode(now time.Time) string {
	return fmt.Sprintf("BOOK_%d", now.UnixMilli())
}
