package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/repository"
)

const requestColumns = `id, book_id, donor_id, receiver_id, message, status, created_at, updated_at`

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

func requestDest(req *domain.Request) []any {
	return []any{&req.ID, &req.BookID, &req.DonorID, &req.ReceiverID, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt}
}

// Create inserts a request only while the book is available. The share lock
// makes the insert wait for an in-flight approval of the same book and then
// see its outcome.
func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `INSERT INTO book_requests (book_id, donor_id, receiver_id, message, status)
	          SELECT b.id, b.donor_id, $2, $3, $4 FROM books b
	          WHERE b.id = $1 AND b.is_available
	          FOR SHARE
	          RETURNING id, donor_id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, req.BookID, req.ReceiverID, req.Message, req.Status).Scan(&req.ID, &req.DonorID, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: book %d is no longer available", domain.ErrValidation, req.BookID)
	}
	return translateError(err, "request")
}

func (r *requestRepository) GetByID(ctx context.Context, id int32) (*domain.Request, error) {
	req := &domain.Request{}
	query := `SELECT ` + requestColumns + ` FROM book_requests WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(requestDest(req)...); err != nil {
		return nil, translateError(err, fmt.Sprintf("request %d", id))
	}
	return req, nil
}

// Decide runs the pending -> decided transition as a compare-and-swap on the
// current status so a request can only be decided once. A book is given to at
// most one receiver.
func (r *requestRepository) Decide(ctx context.Context, id, donorID int32, status domain.RequestStatus) (*domain.Decision, error) {
	logger.EnterMethod("requestRepository.Decide", "requestID", id, "donorID", donorID, "status", status)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("requestRepository.Decide", err)
		return nil, translateError(err, "request")
	}
	defer tx.Rollback()

	// Every decision on a book serializes on the book row, always taken before
	// any request row.
	var bookID int32
	lockQuery := `SELECT b.id FROM books b JOIN book_requests r ON r.book_id = b.id
	              WHERE r.id = $1 FOR UPDATE OF b`
	if err := tx.QueryRowContext(ctx, lockQuery, id).Scan(&bookID); err != nil {
		err = translateError(err, fmt.Sprintf("request %d", id))
		logger.ExitMethodWithError("requestRepository.Decide", err, "step", "lock book")
		return nil, err
	}

	req := &domain.Request{}
	query := `UPDATE book_requests SET status = $1, updated_at = now()
	          WHERE id = $2 AND donor_id = $3 AND status = 'pending'
	          RETURNING ` + requestColumns
	err = tx.QueryRowContext(ctx, query, status, id, donorID).Scan(requestDest(req)...)
	if errors.Is(err, sql.ErrNoRows) {
		err = transitionError(ctx, tx, id, donorID)
		logger.ExitMethodWithError("requestRepository.Decide", err)
		return nil, err
	}
	if err != nil {
		logger.ExitMethodWithError("requestRepository.Decide", err)
		return nil, translateError(err, "request")
	}

	decision := &domain.Decision{Request: req}
	if status == domain.RequestStatusApproved {
		var given bool
		givenQuery := `SELECT EXISTS (SELECT 1 FROM book_requests WHERE book_id = $1 AND id <> $2 AND status = 'approved')`
		if err := tx.QueryRowContext(ctx, givenQuery, bookID, req.ID).Scan(&given); err != nil {
			logger.ExitMethodWithError("requestRepository.Decide", err, "step", "check approved requests")
			return nil, translateError(err, "request")
		}
		if given {
			err := fmt.Errorf("%w: book %d was already given to another receiver", domain.ErrInvalidTransition, bookID)
			logger.ExitMethodWithError("requestRepository.Decide", err)
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE books SET is_available = FALSE WHERE id = $1`, bookID); err != nil {
			logger.ExitMethodWithError("requestRepository.Decide", err, "step", "mark book unavailable")
			return nil, translateError(err, "book")
		}

		rejectQuery := `UPDATE book_requests SET status = 'rejected', updated_at = now()
		                WHERE book_id = $1 AND id <> $2 AND status = 'pending'
		                RETURNING ` + requestColumns
		rows, err := tx.QueryContext(ctx, rejectQuery, bookID, req.ID)
		if err != nil {
			logger.ExitMethodWithError("requestRepository.Decide", err, "step", "reject competing requests")
			return nil, translateError(err, "request")
		}
		for rows.Next() {
			var other domain.Request
			if err := rows.Scan(requestDest(&other)...); err != nil {
				rows.Close()
				logger.ExitMethodWithError("requestRepository.Decide", err, "step", "scan rejected request")
				return nil, translateError(err, "request")
			}
			decision.AutoRejected = append(decision.AutoRejected, other)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			logger.ExitMethodWithError("requestRepository.Decide", err, "step", "reject competing requests")
			return nil, translateError(err, "request")
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("requestRepository.Decide", err, "step", "commit")
		return nil, translateError(err, "request")
	}

	logger.ExitMethod("requestRepository.Decide", "requestID", id, "autoRejected", len(decision.AutoRejected))
	return decision, nil
}

// transitionError explains why the guarded update matched no row.
func transitionError(ctx context.Context, tx *sql.Tx, id, donorID int32) error {
	var (
		owner  int32
		status domain.RequestStatus
	)
	err := tx.QueryRowContext(ctx, `SELECT donor_id, status FROM book_requests WHERE id = $1`, id).Scan(&owner, &status)
	if err != nil {
		return translateError(err, fmt.Sprintf("request %d", id))
	}
	if owner != donorID {
		return fmt.Errorf("%w: request %d belongs to another donor", domain.ErrForbidden, id)
	}
	return fmt.Errorf("%w: request %d is already %s", domain.ErrInvalidTransition, id, status)
}

const requestViewSelect = `SELECT r.id, r.book_id, r.donor_id, r.receiver_id, r.message, r.status, r.created_at, r.updated_at,
	       b.title, b.author, p.full_name, p.email, p.phone
	FROM book_requests r
	JOIN books b ON b.id = r.book_id`

func (r *requestRepository) ListForDonor(ctx context.Context, donorID int32) ([]domain.RequestView, error) {
	query := requestViewSelect + `
	JOIN profiles p ON p.id = r.receiver_id
	WHERE r.donor_id = $1
	ORDER BY r.created_at DESC`
	return r.listViews(ctx, query, donorID)
}

func (r *requestRepository) ListForReceiver(ctx context.Context, receiverID int32) ([]domain.RequestView, error) {
	query := requestViewSelect + `
	JOIN profiles p ON p.id = r.donor_id
	WHERE r.receiver_id = $1
	ORDER BY r.created_at DESC`
	return r.listViews(ctx, query, receiverID)
}

func (r *requestRepository) listViews(ctx context.Context, query string, id int32) ([]domain.RequestView, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, translateError(err, "requests")
	}
	defer rows.Close()

	views := []domain.RequestView{}
	for rows.Next() {
		var v domain.RequestView
		dest := append(requestDest(&v.Request), &v.BookTitle, &v.BookAuthor, &v.Counterparty.FullName, &v.Counterparty.Email, &v.Counterparty.Phone)
		if err := rows.Scan(dest...); err != nil {
			return nil, translateError(err, "requests")
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "requests")
	}
	return views, nil
}

func (r *requestRepository) PendingDigests(ctx context.Context, olderThan time.Time) ([]domain.PendingDigest, error) {
	query := `SELECT p.id, p.full_name, p.email, COUNT(r.id), MIN(r.created_at)
	          FROM book_requests r
	          JOIN profiles p ON p.id = r.donor_id
	          WHERE r.status = 'pending' AND r.created_at < $1
	          GROUP BY p.id, p.full_name, p.email
	          ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query, olderThan)
	if err != nil {
		return nil, translateError(err, "pending digests")
	}
	defer rows.Close()

	var digests []domain.PendingDigest
	for rows.Next() {
		var d domain.PendingDigest
		if err := rows.Scan(&d.DonorID, &d.DonorName, &d.DonorEmail, &d.PendingCount, &d.OldestSince); err != nil {
			return nil, translateError(err, "pending digests")
		}
		digests = append(digests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "pending digests")
	}
	return digests, nil
}
