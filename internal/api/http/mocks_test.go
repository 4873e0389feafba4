package http

import (
	"context"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, in service.SignUpInput) (*domain.Profile, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) (*domain.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}
func (m *MockAuthService) SignOut(ctx context.Context, profileID int32) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}
func (m *MockAuthService) GetProfile(ctx context.Context, profileID int32) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateBook(ctx context.Context, donorID int32, book *domain.Book) error {
	args := m.Called(ctx, donorID, book)
	return args.Error(0)
}
func (m *MockCatalogService) DeleteBook(ctx context.Context, donorID, bookID int32) error {
	args := m.Called(ctx, donorID, bookID)
	return args.Error(0)
}
func (m *MockCatalogService) SetAvailability(ctx context.Context, donorID, bookID int32, available bool) (*domain.Book, error) {
	args := m.Called(ctx, donorID, bookID, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockCatalogService) ListBooksForDonor(ctx context.Context, donorID int32, search string) ([]domain.Book, error) {
	args := m.Called(ctx, donorID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockCatalogService) ListAvailableBooks(ctx context.Context, receiverID int32, search, genre string) ([]domain.CatalogEntry, error) {
	args := m.Called(ctx, receiverID, search, genre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogEntry), args.Error(1)
}
func (m *MockCatalogService) ListGenres(ctx context.Context, receiverID int32) ([]string, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) CreateRequest(ctx context.Context, receiverID, bookID int32, message string) (*domain.Request, error) {
	args := m.Called(ctx, receiverID, bookID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}
func (m *MockRequestService) DecideRequest(ctx context.Context, donorID, requestID int32, decision domain.RequestStatus) (*domain.Decision, error) {
	args := m.Called(ctx, donorID, requestID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Decision), args.Error(1)
}
func (m *MockRequestService) ListRequestsForDonor(ctx context.Context, donorID int32) ([]domain.RequestView, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestView), args.Error(1)
}
func (m *MockRequestService) ListRequestsForReceiver(ctx context.Context, receiverID int32) ([]domain.RequestView, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestView), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, limit int32) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
