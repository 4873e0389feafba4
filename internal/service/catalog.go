package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/repository"
)

type catalogService struct {
	bookRepo repository.BookRepository
	now      func() time.Time
}

func NewCatalogService(bookRepo repository.BookRepository) CatalogService {
	return &catalogService{
		bookRepo: bookRepo,
		now:      time.Now,
	}
}

func (s *catalogService) CreateBook(ctx context.Context, donorID int32, book *domain.Book) error {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.BookCode = strings.TrimSpace(book.BookCode)
	if book.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if book.Author == "" {
		return fmt.Errorf("%w: author is required", domain.ErrValidation)
	}
	if book.BookCode == "" {
		book.BookCode = domain.DefaultBookCode(s.now())
	}
	book.DonorID = donorID
	book.IsAvailable = true

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Book listed", "bookID", book.ID, "donorID", donorID)
	return nil
}

func (s *catalogService) DeleteBook(ctx context.Context, donorID, bookID int32) error {
	if err := s.bookRepo.DeleteOwned(ctx, bookID, donorID); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Book deleted", "bookID", bookID, "donorID", donorID)
	return nil
}

func (s *catalogService) SetAvailability(ctx context.Context, donorID, bookID int32, available bool) (*domain.Book, error) {
	return s.bookRepo.SetAvailabilityOwned(ctx, bookID, donorID, available)
}

func (s *catalogService) ListBooksForDonor(ctx context.Context, donorID int32, search string) ([]domain.Book, error) {
	books, err := s.bookRepo.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	return FilterDonorBooks(books, search), nil
}

func (s *catalogService) ListAvailableBooks(ctx context.Context, receiverID int32, search, genre string) ([]domain.CatalogEntry, error) {
	entries, err := s.bookRepo.ListAvailable(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	return FilterCatalog(entries, search, genre), nil
}

func (s *catalogService) ListGenres(ctx context.Context, receiverID int32) ([]string, error) {
	entries, err := s.bookRepo.ListAvailable(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	return Genres(entries), nil
}
