package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/repository"
)

type requestService struct {
	requestRepo repository.RequestRepository
	bookRepo    repository.BookRepository
	profileRepo repository.ProfileRepository
	emailSvc    EmailService
	noteRepo    repository.NotificationRepository
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	bookRepo repository.BookRepository,
	profileRepo repository.ProfileRepository,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		profileRepo: profileRepo,
		emailSvc:    emailSvc,
		noteRepo:    noteRepo,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, receiverID, bookID int32, message string) (*domain.Request, error) {
	message = strings.TrimSpace(message)
	if bookID <= 0 {
		return nil, fmt.Errorf("%w: book is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(message) > domain.MaxRequestMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", domain.ErrValidation, domain.MaxRequestMessageLength)
	}

	receiver, err := s.profileRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver.Role != domain.RoleReceiver {
		return nil, fmt.Errorf("%w: only receivers can request books", domain.ErrForbidden)
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.IsAvailable {
		return nil, fmt.Errorf("%w: book is no longer available", domain.ErrValidation)
	}
	if book.DonorID == receiverID {
		return nil, fmt.Errorf("%w: you cannot request your own book", domain.ErrValidation)
	}

	req := &domain.Request{
		BookID:     book.ID,
		DonorID:    book.DonorID,
		ReceiverID: receiverID,
		Message:    message,
		Status:     domain.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Book requested", "requestID", req.ID, "bookID", book.ID, "receiverID", receiverID)

	s.notifyDonor(ctx, req, book, receiver)
	return req, nil
}

// notifyDonor tells the donor about a new request. Failures are logged only.
func (s *requestService) notifyDonor(ctx context.Context, req *domain.Request, book *domain.Book, receiver *domain.Profile) {
	donor, err := s.profileRepo.GetByID(ctx, book.DonorID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load donor for notification", "donorID", book.DonorID, "error", err)
		return
	}

	if err := s.emailSvc.SendRequestReceived(ctx, donor.Email, donor.FullName, receiver.FullName, book.Title, req.Message); err != nil {
		logger.WarnContext(ctx, "Failed to send request email", "requestID", req.ID, "error", err)
	}

	note := &domain.Notification{
		UserID:  donor.ID,
		Title:   "New book request",
		Message: fmt.Sprintf("%s requested %s", receiver.FullName, book.Title),
		Attributes: map[string]string{
			"type":       "BOOK_REQUEST",
			"request_id": fmt.Sprintf("%d", req.ID),
			"book_id":    fmt.Sprintf("%d", book.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.WarnContext(ctx, "Failed to create notification", "userID", donor.ID, "error", err)
	}
}

func (s *requestService) DecideRequest(ctx context.Context, donorID, requestID int32, decision domain.RequestStatus) (*domain.Decision, error) {
	if !decision.IsDecision() {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", domain.ErrValidation)
	}

	result, err := s.requestRepo.Decide(ctx, requestID, donorID, decision)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Request decided", "requestID", requestID, "status", decision, "autoRejected", len(result.AutoRejected))

	s.notifyReceivers(ctx, result)
	return result, nil
}

// notifyReceivers tells the decided receiver, and anyone auto-rejected by an
// approval, about the outcome. Failures are logged only.
func (s *requestService) notifyReceivers(ctx context.Context, result *domain.Decision) {
	req := result.Request
	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load book for notification", "bookID", req.BookID, "error", err)
		return
	}

	var donorContact *domain.Contact
	if req.Status == domain.RequestStatusApproved {
		donor, err := s.profileRepo.GetByID(ctx, req.DonorID)
		if err != nil {
			logger.WarnContext(ctx, "Failed to load donor for notification", "donorID", req.DonorID, "error", err)
		} else {
			donorContact = &domain.Contact{FullName: donor.FullName, Email: donor.Email, Phone: donor.Phone}
		}
	}

	s.notifyReceiver(ctx, req, book, donorContact)
	for i := range result.AutoRejected {
		s.notifyReceiver(ctx, &result.AutoRejected[i], book, nil)
	}
}

func (s *requestService) notifyReceiver(ctx context.Context, req *domain.Request, book *domain.Book, donor *domain.Contact) {
	receiver, err := s.profileRepo.GetByID(ctx, req.ReceiverID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load receiver for notification", "receiverID", req.ReceiverID, "error", err)
		return
	}

	if err := s.emailSvc.SendRequestDecision(ctx, receiver.Email, receiver.FullName, book.Title, req.Status, donor); err != nil {
		logger.WarnContext(ctx, "Failed to send decision email", "requestID", req.ID, "error", err)
	}

	title := "Request rejected"
	if req.Status == domain.RequestStatusApproved {
		title = "Request approved"
	}
	note := &domain.Notification{
		UserID:  receiver.ID,
		Title:   title,
		Message: fmt.Sprintf("Your request for %s was %s", book.Title, req.Status),
		Attributes: map[string]string{
			"type":       "BOOK_REQUEST_" + strings.ToUpper(string(req.Status)),
			"request_id": fmt.Sprintf("%d", req.ID),
			"book_id":    fmt.Sprintf("%d", book.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.WarnContext(ctx, "Failed to create notification", "userID", receiver.ID, "error", err)
	}
}

func (s *requestService) ListRequestsForDonor(ctx context.Context, donorID int32) ([]domain.RequestView, error) {
	return s.requestRepo.ListForDonor(ctx, donorID)
}

func (s *requestService) ListRequestsForReceiver(ctx context.Context, receiverID int32) ([]domain.RequestView, error) {
	views, err := s.requestRepo.ListForReceiver(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].RedactForReceiver()
	}
	return views, nil
}
