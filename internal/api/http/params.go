package http

import (
	"fmt"
	"net/http"
	"strconv"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/session"

	"github.com/gorilla/mux"
)

// parseInt32 accepts only the canonical decimal form of an int32: no base
// prefixes, leading zeros, signs on positives or out-of-range values.
func parseInt32(raw string) (int32, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if strconv.FormatInt(v, 10) != raw {
		return 0, fmt.Errorf("non-canonical integer %q", raw)
	}
	return int32(v), nil
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := parseInt32(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, name, raw)
	}
	return id, nil
}

func queryInt32(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := parseInt32(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, name, raw)
	}
	return v, nil
}

// principal returns the authenticated profile id of the request's session.
func principal(r *http.Request) (int32, error) {
	sess := session.FromContext(r.Context())
	if !sess.Authenticated() {
		return 0, fmt.Errorf("%w: not signed in", domain.ErrAuth)
	}
	return sess.ProfileID(), nil
}
