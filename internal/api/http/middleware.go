package http

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bookshare-backend/internal/config"
	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/security"
	"bookshare-backend/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing the caller's when sent.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthMiddleware builds the request Session from the bearer token and enforces
// the route's EndpointPolicy.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var routeName string
		if route := mux.CurrentRoute(r); route != nil {
			routeName = route.GetName()
		}
		policy := config.GetEndpointPolicy(routeName)
		sess := session.New()
		serve := func() {
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		}

		if policy.Level == config.SecurityPublic {
			serve()
			return
		}

		token := bearerToken(r)
		if token == "" {
			if policy.Level == config.SecurityOptional {
				serve()
				return
			}
			writeError(w, r, fmt.Errorf("%w: authorization token is not provided", domain.ErrAuth))
			return
		}

		want := security.TokenTypeAccess
		if policy.Level == config.SecurityRefresh {
			want = security.TokenTypeRefresh
		}

		_ = sess.Begin()
		claims, err := m.tokens.ValidateTokenOfType(token, want)
		if err != nil {
			_ = sess.Fail(err)
			if policy.Level == config.SecurityOptional {
				serve()
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrAuth, err))
			return
		}
		_ = sess.Complete(claims.ProfileID, claims.Email, claims.Role)

		if policy.Role != "" && claims.Role != policy.Role {
			writeError(w, r, fmt.Errorf("%w: %s role required", domain.ErrForbidden, policy.Role))
			return
		}
		serve()
	})
}

// limiterIdleTTL is how long a client's bucket survives without traffic. A
// bucket idle that long has refilled, so dropping it loses no state.
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// IPRateLimiter keeps one token bucket per client IP and drops idle ones.
type IPRateLimiter struct {
	limiters  sync.Map
	rate      rate.Limit
	burst     int
	trusted   []netip.Prefix
	idleTTL   time.Duration
	lastPrune atomic.Int64
	now       func() time.Time
}

// NewIPRateLimiter builds a limiter. X-Forwarded-For is only honoured on
// connections from a trusted proxy prefix.
func NewIPRateLimiter(r rate.Limit, burst int, trustedProxies []netip.Prefix) *IPRateLimiter {
	l := &IPRateLimiter{
		rate:    r,
		burst:   burst,
		trusted: trustedProxies,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
	}
	l.lastPrune.Store(l.now().UnixNano())
	return l
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	now := l.now()
	l.maybePrune(now)

	entry, ok := l.limiters.Load(ip)
	if !ok {
		fresh := &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		entry, _ = l.limiters.LoadOrStore(ip, fresh)
	}
	e := entry.(*ipLimiter)
	e.lastSeen.Store(now.UnixNano())
	return e.limiter
}

// maybePrune sweeps idle buckets at most once per idle period.
func (l *IPRateLimiter) maybePrune(now time.Time) {
	last := l.lastPrune.Load()
	if now.UnixNano()-last < int64(l.idleTTL) || !l.lastPrune.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, value any) bool {
		if value.(*ipLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

// Size reports how many client buckets are held.
func (l *IPRateLimiter) Size() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Limit rejects requests over the per-IP budget with 429.
func (l *IPRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trusted)
		if !l.GetLimiter(ip).Allow() {
			logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: errorBody{Code: "rate_limited", Message: "too many requests"}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the connection's peer address. When the peer is a trusted
// proxy, the rightmost X-Forwarded-For hop outside the trusted set is used.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !isTrustedProxy(peer, trusted) {
		return peer
	}

	var hops []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(header, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if !isTrustedProxy(hops[i], trusted) {
			return hops[i]
		}
	}
	return peer
}

func isTrustedProxy(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
