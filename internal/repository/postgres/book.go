package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/repository"
)

const bookColumns = `id, book_code, title, author, genre, edition, publisher, description, donor_id, is_available, created_on`

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

func bookDest(b *domain.Book) []any {
	return []any{&b.ID, &b.BookCode, &b.Title, &b.Author, &b.Genre, &b.Edition, &b.Publisher, &b.Description, &b.DonorID, &b.IsAvailable, &b.CreatedOn}
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (book_code, title, author, genre, edition, publisher, description, donor_id, is_available)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_on`
	err := r.db.QueryRowContext(ctx, query, b.BookCode, b.Title, b.Author, b.Genre, b.Edition, b.Publisher, b.Description, b.DonorID, b.IsAvailable).Scan(&b.ID, &b.CreatedOn)
	return translateError(err, "book")
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(bookDest(b)...); err != nil {
		return nil, translateError(err, fmt.Sprintf("book %d", id))
	}
	return b, nil
}

func (r *bookRepository) ListByDonor(ctx context.Context, donorID int32) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE donor_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, donorID)
	if err != nil {
		return nil, translateError(err, "books")
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(bookDest(&b)...); err != nil {
			return nil, translateError(err, "books")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "books")
	}
	return books, nil
}

func (r *bookRepository) ListAvailable(ctx context.Context, receiverID int32) ([]domain.CatalogEntry, error) {
	query := `SELECT b.id, b.book_code, b.title, b.author, b.genre, b.edition, b.publisher, b.description, b.donor_id, b.is_available, b.created_on,
	                 p.full_name,
	                 EXISTS (SELECT 1 FROM book_requests r WHERE r.book_id = b.id AND r.receiver_id = $1) AS requested
	          FROM books b
	          JOIN profiles p ON p.id = b.donor_id
	          WHERE b.is_available = TRUE
	          ORDER BY b.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, translateError(err, "catalog")
	}
	defer rows.Close()

	entries := []domain.CatalogEntry{}
	for rows.Next() {
		var e domain.CatalogEntry
		dest := append(bookDest(&e.Book), &e.DonorName, &e.Requested)
		if err := rows.Scan(dest...); err != nil {
			return nil, translateError(err, "catalog")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "catalog")
	}
	return entries, nil
}

func (r *bookRepository) DeleteOwned(ctx context.Context, id, donorID int32) error {
	logger.DatabaseCall("DELETE", "books", "bookID", id, "donorID", donorID)
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1 AND donor_id = $2`, id, donorID)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return translateError(err, "book")
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("DELETE", rows, err, "bookID", id)
	if err != nil {
		return translateError(err, "book")
	}
	if rows == 0 {
		return r.ownershipError(ctx, id)
	}
	return nil
}

func (r *bookRepository) SetAvailabilityOwned(ctx context.Context, id, donorID int32, available bool) (*domain.Book, error) {
	b := &domain.Book{}
	query := `UPDATE books SET is_available = $1 WHERE id = $2 AND donor_id = $3 RETURNING ` + bookColumns
	err := r.db.QueryRowContext(ctx, query, available, id, donorID).Scan(bookDest(b)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.ownershipError(ctx, id)
	}
	if err != nil {
		return nil, translateError(err, "book")
	}
	return b, nil
}

// ownershipError explains why an owner-scoped write touched no rows.
func (r *bookRepository) ownershipError(ctx context.Context, id int32) error {
	var ownerID int32
	err := r.db.QueryRowContext(ctx, `SELECT donor_id FROM books WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		return translateError(err, fmt.Sprintf("book %d", id))
	}
	return fmt.Errorf("%w: book %d belongs to another donor", domain.ErrForbidden, id)
}
