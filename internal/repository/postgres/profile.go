package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/repository"
)

const profileColumns = `id, full_name, email, phone, address, role, password_hash, email_verified, created_on`

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	if err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Address, &p.Role, &p.PasswordHash, &p.EmailVerified, &p.CreatedOn); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (full_name, email, phone, address, role, password_hash, email_verified)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_on`
	err := r.db.QueryRowContext(ctx, query, p.FullName, p.Email, p.Phone, p.Address, p.Role, p.PasswordHash, p.EmailVerified).Scan(&p.ID, &p.CreatedOn)
	return translateError(err, "profile")
}

func (r *profileRepository) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("profile %d", id))
	}
	return p, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE LOWER(email) = LOWER($1)`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "profile")
	}
	return p, nil
}

func (r *profileRepository) MarkEmailVerified(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "profile")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return translateError(err, "profile")
	}
	if rows == 0 {
		return fmt.Errorf("%w: profile %d", domain.ErrNotFound, id)
	}
	return nil
}
