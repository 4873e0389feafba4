package domain

import "time"

type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}

// PendingDigest summarises the pending requests waiting on one donor.
type PendingDigest struct {
	DonorID      int32
	DonorName    string
	DonorEmail   string
	PendingCount int
	OldestSince  time.Time
}
