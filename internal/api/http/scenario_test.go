package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/security"
	"bookshare-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// memStore is an in-memory stand-in for the postgres repositories with the
// same ownership, uniqueness and compare-and-swap rules.
type memStore struct {
	mu       sync.Mutex
	nextID   int32
	profiles map[int32]*domain.Profile
	books    map[int32]*domain.Book
	requests map[int32]*domain.Request
	notes    []domain.Notification
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[int32]*domain.Profile{},
		books:    map[int32]*domain.Book{},
		requests: map[int32]*domain.Request{},
	}
}

func (s *memStore) id() int32 {
	s.nextID++
	return s.nextID
}

type memProfiles struct{ *memStore }
type memBooks struct{ *memStore }
type memRequests struct{ *memStore }
type memNotes struct{ *memStore }

func (s memProfiles) Create(_ context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return fmt.Errorf("%w: email is already registered", domain.ErrValidation)
		}
	}
	p.ID = s.id()
	p.CreatedOn = time.Now()
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s memProfiles) GetByID(_ context.Context, id int32) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s memProfiles) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s memProfiles) MarkEmailVerified(_ context.Context, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.EmailVerified = true
	return nil
}

func (s memBooks) Create(_ context.Context, b *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	b.CreatedOn = time.Now()
	cp := *b
	s.books[b.ID] = &cp
	return nil
}

func (s memBooks) GetByID(_ context.Context, id int32) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s memBooks) sorted(keep func(*domain.Book) bool) []domain.Book {
	out := []domain.Book{}
	for _, b := range s.books {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s memBooks) ListByDonor(_ context.Context, donorID int32) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(b *domain.Book) bool { return b.DonorID == donorID }), nil
}

func (s memBooks) ListAvailable(_ context.Context, receiverID int32) ([]domain.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := []domain.CatalogEntry{}
	for _, b := range s.sorted(func(b *domain.Book) bool { return b.IsAvailable }) {
		e := domain.CatalogEntry{Book: b, DonorName: s.profiles[b.DonorID].FullName}
		for _, r := range s.requests {
			if r.BookID == b.ID && r.ReceiverID == receiverID {
				e.Requested = true
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s memBooks) owned(id, donorID int32) (*domain.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.DonorID != donorID {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func (s memBooks) DeleteOwned(_ context.Context, id, donorID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owned(id, donorID); err != nil {
		return err
	}
	delete(s.books, id)
	for rid, r := range s.requests {
		if r.BookID == id {
			delete(s.requests, rid)
		}
	}
	return nil
}

func (s memBooks) SetAvailabilityOwned(_ context.Context, id, donorID int32, available bool) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.owned(id, donorID)
	if err != nil {
		return nil, err
	}
	b.IsAvailable = available
	cp := *b
	return &cp, nil
}

func (s memRequests) Create(_ context.Context, req *domain.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.BookID == req.BookID && r.ReceiverID == req.ReceiverID {
			return fmt.Errorf("%w: you have already requested this book", domain.ErrDuplicateRequest)
		}
	}
	book, ok := s.books[req.BookID]
	if !ok || !book.IsAvailable {
		return fmt.Errorf("%w: book %d is no longer available", domain.ErrValidation, req.BookID)
	}
	req.DonorID = book.DonorID
	req.ID = s.id()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s memRequests) GetByID(_ context.Context, id int32) (*domain.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s memRequests) Decide(_ context.Context, id, donorID int32, status domain.RequestStatus) (*domain.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	switch {
	case !ok:
		return nil, domain.ErrNotFound
	case r.DonorID != donorID:
		return nil, domain.ErrForbidden
	case r.Status != domain.RequestStatusPending:
		return nil, fmt.Errorf("%w: request %d is already %s", domain.ErrInvalidTransition, id, r.Status)
	}
	if status == domain.RequestStatusApproved {
		for _, other := range s.requests {
			if other.BookID == r.BookID && other.Status == domain.RequestStatusApproved {
				return nil, fmt.Errorf("%w: book %d was already given to another receiver", domain.ErrInvalidTransition, r.BookID)
			}
		}
	}
	r.Status = status
	decision := &domain.Decision{Request: func() *domain.Request { cp := *r; return &cp }()}
	if status == domain.RequestStatusApproved {
		s.books[r.BookID].IsAvailable = false
		for _, other := range s.requests {
			if other.BookID == r.BookID && other.ID != r.ID && other.Status == domain.RequestStatusPending {
				other.Status = domain.RequestStatusRejected
				decision.AutoRejected = append(decision.AutoRejected, *other)
			}
		}
	}
	return decision, nil
}

func (s memRequests) views(match func(*domain.Request) bool, counterparty func(*domain.Request) int32) []domain.RequestView {
	views := []domain.RequestView{}
	for _, r := range s.requests {
		if !match(r) {
			continue
		}
		p := s.profiles[counterparty(r)]
		b := s.books[r.BookID]
		views = append(views, domain.RequestView{
			Request:      *r,
			BookTitle:    b.Title,
			BookAuthor:   b.Author,
			Counterparty: domain.Contact{FullName: p.FullName, Email: p.Email, Phone: p.Phone},
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID > views[j].ID })
	return views
}

func (s memRequests) ListForDonor(_ context.Context, donorID int32) ([]domain.RequestView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views(func(r *domain.Request) bool { return r.DonorID == donorID }, func(r *domain.Request) int32 { return r.ReceiverID }), nil
}

func (s memRequests) ListForReceiver(_ context.Context, receiverID int32) ([]domain.RequestView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views(func(r *domain.Request) bool { return r.ReceiverID == receiverID }, func(r *domain.Request) int32 { return r.DonorID }), nil
}

func (s memRequests) PendingDigests(context.Context, time.Time) ([]domain.PendingDigest, error) {
	return nil, nil
}

func (s memNotes) Create(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.id()
	s.notes = append(s.notes, *n)
	return nil
}

func (s memNotes) List(_ context.Context, userID int32, limit int32) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Notification{}
	for i := len(s.notes) - 1; i >= 0 && int32(len(out)) < limit; i-- {
		if s.notes[i].UserID == userID {
			out = append(out, s.notes[i])
		}
	}
	return out, nil
}

func (s memNotes) MarkAsRead(_ context.Context, id, userID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id && s.notes[i].UserID == userID {
			s.notes[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func newScenarioEnv() (*testEnv, *memStore) {
	store := newMemStore()
	profiles, books, requests, notes := memProfiles{store}, memBooks{store}, memRequests{store}, memNotes{store}

	tokens := security.NewTokenManager(testSecret, security.TokenTTLs{})
	emailSvc := service.NewEmailService("", "no-reply@example.com", "Books")
	e := &testEnv{tokens: tokens}
	e.router = NewRouter(Services{
		Auth:          service.NewAuthService(profiles, tokens, emailSvc, service.AuthOptions{SkipEmailVerification: true}),
		Catalog:       service.NewCatalogService(books),
		Requests:      service.NewRequestService(requests, books, profiles, emailSvc, notes),
		Notifications: service.NewNotificationService(notes),
	}, RouterOptions{Tokens: tokens, AuthRateLimit: rate.Inf, AuthRateBurst: 1})
	return e, store
}

func signUpAndIn(t *testing.T, e *testEnv, email, name, role, phone string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"secret1","confirm_password":"secret1","full_name":%q,"role":%q,"phone":%q}`, email, name, role, phone)
	rec := e.do(http.MethodPost, "/api/v1/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(http.MethodPost, "/api/v1/auth/login", fmt.Sprintf(`{"email":%q,"password":"secret1"}`, email), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode(t, rec)
	assert.Equal(t, "/"+role, res["destination"])
	return res["access_token"].(string)
}

func TestScenario_DonationLifecycle(t *testing.T) {
	e, store := newScenarioEnv()

	donorA := signUpAndIn(t, e, "a@example.com", "Donor A", "donor", "555-0100")
	receiverB := signUpAndIn(t, e, "b@example.com", "Receiver B", "receiver", "")
	donorC := signUpAndIn(t, e, "c@example.com", "Donor C", "donor", "")

	// Donor A lists a book; it is available by default and appears exactly once.
	rec := e.do(http.MethodPost, "/api/v1/donor/books", `{"title":"Intro to Algorithms","author":"Cormen"}`, donorA)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	book := decode(t, rec)["book"].(map[string]any)
	bookID := int(book["id"].(float64))
	assert.True(t, strings.HasPrefix(book["book_id"].(string), "BOOK_"))

	rec = e.do(http.MethodGet, "/api/v1/donor/books", "", donorA)
	books := decode(t, rec)["books"].([]any)
	require.Len(t, books, 1)
	assert.Equal(t, true, books[0].(map[string]any)["is_available"])

	// Empty filters return the whole available set; an unknown genre returns nothing.
	rec = e.do(http.MethodGet, "/api/v1/books", "", receiverB)
	assert.Len(t, decode(t, rec)["books"], 1)
	rec = e.do(http.MethodGet, "/api/v1/books?genre=Poetry", "", receiverB)
	assert.Len(t, decode(t, rec)["books"], 0)

	// Receiver B requests it with no message.
	requestPath := fmt.Sprintf("/api/v1/books/%d/requests", bookID)
	rec = e.do(http.MethodPost, requestPath, "", receiverB)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["request"].(map[string]any)
	assert.Equal(t, "pending", created["status"])
	requestID := int(created["id"].(float64))

	// A second request for the same pair is a duplicate and adds no row.
	rec = e.do(http.MethodPost, requestPath, `{"message":"again"}`, receiverB)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_request", errorCode(t, rec))
	assert.Len(t, store.requests, 1)

	rec = e.do(http.MethodGet, "/api/v1/books", "", receiverB)
	assert.Equal(t, true, decode(t, rec)["books"].([]any)[0].(map[string]any)["requested"])

	// Pending: donor name visible, contact hidden.
	rec = e.do(http.MethodGet, "/api/v1/receiver/requests", "", receiverB)
	mine := decode(t, rec)["requests"].([]any)
	require.Len(t, mine, 1)
	contact := mine[0].(map[string]any)["counterparty"].(map[string]any)
	assert.Equal(t, "Donor A", contact["full_name"])
	assert.NotContains(t, contact, "email")
	assert.NotContains(t, contact, "phone")

	// The donor sees the receiver's contact.
	rec = e.do(http.MethodGet, "/api/v1/donor/requests", "", donorA)
	incoming := decode(t, rec)["requests"].([]any)
	require.Len(t, incoming, 1)
	assert.Equal(t, "b@example.com", incoming[0].(map[string]any)["counterparty"].(map[string]any)["email"])

	// Another donor can neither delete the book nor decide the request.
	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/v1/donor/books/%d", bookID), "", donorC)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, store.books, 1)
	decisionPath := fmt.Sprintf("/api/v1/donor/requests/%d/decision", requestID)
	rec = e.do(http.MethodPost, decisionPath, `{"status":"approved"}`, donorC)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Donor A approves: the receiver now sees email and phone.
	rec = e.do(http.MethodPost, decisionPath, `{"status":"approved"}`, donorA)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(http.MethodGet, "/api/v1/receiver/requests", "", receiverB)
	approved := decode(t, rec)["requests"].([]any)[0].(map[string]any)
	assert.Equal(t, "approved", approved["status"])
	contact = approved["counterparty"].(map[string]any)
	assert.Equal(t, "a@example.com", contact["email"])
	assert.Equal(t, "555-0100", contact["phone"])

	// Approval closed the book and cannot be repeated.
	rec = e.do(http.MethodGet, "/api/v1/books", "", receiverB)
	assert.Len(t, decode(t, rec)["books"], 0)
	rec = e.do(http.MethodPost, decisionPath, `{"status":"rejected"}`, donorA)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", errorCode(t, rec))

	// Both parties were notified in-app.
	rec = e.do(http.MethodGet, "/api/v1/notifications", "", receiverB)
	assert.Len(t, decode(t, rec)["notifications"], 1)
	rec = e.do(http.MethodGet, "/api/v1/notifications", "", donorA)
	assert.Len(t, decode(t, rec)["notifications"], 1)

	// The owner can delete; requests go with the book.
	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/v1/donor/books/%d", bookID), "", donorA)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.requests)
}
