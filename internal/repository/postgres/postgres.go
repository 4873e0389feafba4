package postgres

import (
	"database/sql"
	"fmt"

	"bookshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	repository.ProfileRepository
	repository.BookRepository
	repository.RequestRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		ProfileRepository:      NewProfileRepository(db),
		BookRepository:         NewBookRepository(db),
		RequestRepository:      NewRequestRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
