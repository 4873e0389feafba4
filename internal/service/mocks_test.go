package service_test

import (
	"context"
	"time"

	"bookshare-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) MarkEmailVerified(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) ListByDonor(ctx context.Context, donorID int32) ([]domain.Book, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) ListAvailable(ctx context.Context, receiverID int32) ([]domain.CatalogEntry, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogEntry), args.Error(1)
}
func (m *MockBookRepo) DeleteOwned(ctx context.Context, id, donorID int32) error {
	args := m.Called(ctx, id, donorID)
	return args.Error(0)
}
func (m *MockBookRepo) SetAvailabilityOwned(ctx context.Context, id, donorID int32, available bool) (*domain.Book, error) {
	args := m.Called(ctx, id, donorID, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}
func (m *MockRequestRepo) Decide(ctx context.Context, id, donorID int32, status domain.RequestStatus) (*domain.Decision, error) {
	args := m.Called(ctx, id, donorID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Decision), args.Error(1)
}
func (m *MockRequestRepo) ListForDonor(ctx context.Context, donorID int32) ([]domain.RequestView, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestView), args.Error(1)
}
func (m *MockRequestRepo) ListForReceiver(ctx context.Context, receiverID int32) ([]domain.RequestView, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestView), args.Error(1)
}
func (m *MockRequestRepo) PendingDigests(ctx context.Context, olderThan time.Time) ([]domain.PendingDigest, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingDigest), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit int32) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendVerification(ctx context.Context, email, name, link string) error {
	args := m.Called(ctx, email, name, link)
	return args.Error(0)
}
func (m *MockEmailService) SendRequestReceived(ctx context.Context, donorEmail, donorName, receiverName, bookTitle, message string) error {
	args := m.Called(ctx, donorEmail, donorName, receiverName, bookTitle, message)
	return args.Error(0)
}
func (m *MockEmailService) SendRequestDecision(ctx context.Context, receiverEmail, receiverName, bookTitle string, status domain.RequestStatus, donor *domain.Contact) error {
	args := m.Called(ctx, receiverEmail, receiverName, bookTitle, status, donor)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingReminder(ctx context.Context, digest domain.PendingDigest) error {
	args := m.Called(ctx, digest)
	return args.Error(0)
}
