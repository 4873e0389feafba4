package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleDonor.Valid())
	assert.True(t, RoleReceiver.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestRequestStatus(t *testing.T) {
	assert.False(t, RequestStatusPending.Terminal())
	assert.True(t, RequestStatusApproved.Terminal())
	assert.True(t, RequestStatusRejected.Terminal())

	assert.True(t, RequestStatusApproved.IsDecision())
	assert.True(t, RequestStatusRejected.IsDecision())
	assert.False(t, RequestStatusPending.IsDecision())
	assert.False(t, RequestStatus("cancelled").IsDecision())
}

func TestRequestView_RedactForReceiver(t *testing.T) {
	contact := Contact{FullName: "Donor A", Email: "a@example.com", Phone: "555-0100"}

	for _, status := range []RequestStatus{RequestStatusPending, RequestStatusRejected} {
		v := RequestView{Request: Request{Status: status}, Counterparty: contact}
		v.RedactForReceiver()
		assert.Equal(t, Contact{FullName: "Donor A"}, v.Counterparty, status)
	}

	v := RequestView{Request: Request{Status: RequestStatusApproved}, Counterparty: contact}
	v.RedactForReceiver()
	assert.Equal(t, contact, v.Counterparty)
}

func TestDefaultBookCode(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "BOOK_1700000000123", DefaultBookCode(now))
}
