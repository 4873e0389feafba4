// Package session models the per-request authentication state the HTTP
// middleware builds from a bearer token.
package session

import (
	"context"
	"errors"
	"fmt"

	"bookshare-backend/internal/domain"
)

type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateFailed         State = "failed"
)

// Dashboard destinations returned by Landing.
const (
	DestinationDonor    = "/donor"
	DestinationReceiver = "/receiver"
	DestinationAuth     = "/auth"
)

var ErrIllegalTransition = errors.New("illegal session transition")

// Session moves anonymous -> authenticating -> authenticated | failed.
// Authenticated and failed are terminal.
type Session struct {
	state     State
	profileID int32
	email     string
	role      domain.Role
	err       error
}

func New() *Session {
	return &Session{state: StateAnonymous}
}

func (s *Session) State() State { return s.state }

func (s *Session) ProfileID() int32 { return s.profileID }

func (s *Session) Email() string { return s.email }

func (s *Session) Role() domain.Role { return s.role }

// Err is the reason a failed session failed.
func (s *Session) Err() error { return s.err }

func (s *Session) Authenticated() bool { return s.state == StateAuthenticated }

func (s *Session) Begin() error {
	if s.state != StateAnonymous {
		return fmt.Errorf("%w: begin from %s", ErrIllegalTransition, s.state)
	}
	s.state = StateAuthenticating
	return nil
}

func (s *Session) Complete(profileID int32, email string, role domain.Role) error {
	if s.state != StateAuthenticating {
		return fmt.Errorf("%w: complete from %s", ErrIllegalTransition, s.state)
	}
	s.state = StateAuthenticated
	s.profileID = profileID
	s.email = email
	s.role = role
	return nil
}

func (s *Session) Fail(reason error) error {
	if s.state != StateAuthenticating {
		return fmt.Errorf("%w: fail from %s", ErrIllegalTransition, s.state)
	}
	s.state = StateFailed
	s.err = reason
	return nil
}

// Destination is the dashboard the landing route sends this session to.
func (s *Session) Destination() string {
	if !s.Authenticated() {
		return DestinationAuth
	}
	switch s.role {
	case domain.RoleDonor:
		return DestinationDonor
	case domain.RoleReceiver:
		return DestinationReceiver
	default:
		return DestinationAuth
	}
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or an anonymous one if none was attached.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return New()
}
