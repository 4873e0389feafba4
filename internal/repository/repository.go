package repository

import (
	"context"
	"time"

	"bookshare-backend/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id int32) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	MarkEmailVerified(ctx context.Context, id int32) error
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	ListByDonor(ctx context.Context, donorID int32) ([]domain.Book, error)
	// ListAvailable returns available books joined with the donor's name and
	// whether receiverID already requested each one.
	ListAvailable(ctx context.Context, receiverID int32) ([]domain.CatalogEntry, error)
	// DeleteOwned removes the book only when donorID owns it.
	DeleteOwned(ctx context.Context, id, donorID int32) error
	// SetAvailabilityOwned toggles availability only when donorID owns the book.
	SetAvailabilityOwned(ctx context.Context, id, donorID int32, available bool) (*domain.Book, error)
}

type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id int32) (*domain.Request, error)
	// Decide moves a pending request owned by donorID into status. Approval also
	// marks the book unavailable and rejects the other pending requests for it.
	Decide(ctx context.Context, id, donorID int32, status domain.RequestStatus) (*domain.Decision, error)
	ListForDonor(ctx context.Context, donorID int32) ([]domain.RequestView, error)
	ListForReceiver(ctx context.Context, receiverID int32) ([]domain.RequestView, error)
	PendingDigests(ctx context.Context, olderThan time.Time) ([]domain.PendingDigest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit int32) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
