package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// MaxRequestMessageLength bounds the optional note a receiver sends with a request.
const MaxRequestMessageLength = 1000

// Terminal reports whether no further transition is allowed out of s.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// IsDecision reports whether s is a status a donor may decide a request into.
func (s RequestStatus) IsDecision() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

type Request struct {
	ID         int32         `json:"id"`
	BookID     int32         `json:"book_id"`
	DonorID    int32         `json:"donor_id"`
	ReceiverID int32         `json:"receiver_id"`
	Message    string        `json:"message,omitempty"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// RequestView is a request joined with the book summary and the counterpart's
// contact details: the receiver for a donor, the donor for a receiver.
type RequestView struct {
	Request
	BookTitle    string  `json:"book_title"`
	BookAuthor   string  `json:"book_author"`
	Counterparty Contact `json:"counterparty"`
}

// RedactForReceiver hides the donor's email and phone until the request is approved.
func (v *RequestView) RedactForReceiver() {
	if v.Status != RequestStatusApproved {
		v.Counterparty.Email = ""
		v.Counterparty.Phone = ""
	}
}

// Decision is the outcome of a successful DecideRequest.
type Decision struct {
	Request      *Request  `json:"request"`
	AutoRejected []Request `json:"auto_rejected,omitempty"`
}
