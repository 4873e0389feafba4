package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"bookshare-backend/internal/domain"

	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"

	requestUniqueConstraint = "book_requests_book_id_receiver_id_key"
	profileEmailConstraint  = "profiles_email_key"
)

// translateError maps driver errors onto the domain error taxonomy.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			switch pqErr.Constraint {
			case requestUniqueConstraint:
				return fmt.Errorf("%w: you have already requested this book", domain.ErrDuplicateRequest)
			case profileEmailConstraint:
				return fmt.Errorf("%w: email is already registered", domain.ErrValidation)
			}
			return fmt.Errorf("%w: %s already exists", domain.ErrValidation, what)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s references a missing row", domain.ErrNotFound, what)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStore, what, err)
}
