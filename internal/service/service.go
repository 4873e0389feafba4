package service

import (
	"context"

	"bookshare-backend/internal/domain"
)

// SignUpInput carries the signup form fields.
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Role            domain.Role
	Phone           string
	Address         string
}

// AuthResult is returned by SignIn and Refresh.
type AuthResult struct {
	Profile      *domain.Profile
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.Profile, error)
	VerifyEmail(ctx context.Context, token string) (*domain.Profile, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	SignOut(ctx context.Context, profileID int32) error
	GetProfile(ctx context.Context, profileID int32) (*domain.Profile, error)
}

type CatalogService interface {
	CreateBook(ctx context.Context, donorID int32, book *domain.Book) error
	DeleteBook(ctx context.Context, donorID, bookID int32) error
	SetAvailability(ctx context.Context, donorID, bookID int32, available bool) (*domain.Book, error)
	ListBooksForDonor(ctx context.Context, donorID int32, search string) ([]domain.Book, error)
	ListAvailableBooks(ctx context.Context, receiverID int32, search, genre string) ([]domain.CatalogEntry, error)
	ListGenres(ctx context.Context, receiverID int32) ([]string, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, receiverID, bookID int32, message string) (*domain.Request, error)
	DecideRequest(ctx context.Context, donorID, requestID int32, decision domain.RequestStatus) (*domain.Decision, error)
	ListRequestsForDonor(ctx context.Context, donorID int32) ([]domain.RequestView, error)
	ListRequestsForReceiver(ctx context.Context, receiverID int32) ([]domain.RequestView, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, limit int32) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendVerification(ctx context.Context, email, name, link string) error

	// Request notifications
	SendRequestReceived(ctx context.Context, donorEmail, donorName, receiverName, bookTitle, message string) error
	SendRequestDecision(ctx context.Context, receiverEmail, receiverName, bookTitle string, status domain.RequestStatus, donor *domain.Contact) error

	// Jobs
	SendPendingReminder(ctx context.Context, digest domain.PendingDigest) error
}
