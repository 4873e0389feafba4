package http

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/security"
	"bookshare-backend/internal/service"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// Pinger reports store liveness; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Services struct {
	Auth          service.AuthService
	Catalog       service.CatalogService
	Requests      service.RequestService
	Notifications service.NotificationService
}

type RouterOptions struct {
	Tokens         security.TokenManager
	AuthRateLimit  rate.Limit
	AuthRateBurst  int
	TrustedProxies []netip.Prefix
	HealthCheckDB  Pinger
}

// NewRouter wires every route. Route names key config.EndpointSecurityConfig.
func NewRouter(svcs Services, opts RouterOptions) *mux.Router {
	authH := NewAuthHandler(svcs.Auth)
	donorH := NewDonorHandler(svcs.Catalog, svcs.Requests)
	receiverH := NewReceiverHandler(svcs.Catalog, svcs.Requests)
	noteH := NewNotificationHandler(svcs.Notifications)
	limiter := NewIPRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst, opts.TrustedProxies)

	router := mux.NewRouter()
	router.Use(RequestID, AccessLog, NewAuthMiddleware(opts.Tokens).Middleware)

	router.HandleFunc("/healthz", healthHandler(opts.HealthCheckDB)).Methods(http.MethodGet).Name("Health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/landing", authH.Landing).Methods(http.MethodGet).Name("Landing")

	// Auth
	api.Handle("/auth/signup", limiter.Limit(http.HandlerFunc(authH.SignUp))).Methods(http.MethodPost).Name("Auth.SignUp")
	api.Handle("/auth/login", limiter.Limit(http.HandlerFunc(authH.SignIn))).Methods(http.MethodPost).Name("Auth.SignIn")
	api.HandleFunc("/auth/verify", authH.VerifyEmail).Methods(http.MethodGet).Name("Auth.VerifyEmail")
	api.HandleFunc("/auth/refresh", authH.Refresh).Methods(http.MethodPost).Name("Auth.Refresh")
	api.HandleFunc("/auth/logout", authH.SignOut).Methods(http.MethodPost).Name("Auth.SignOut")
	api.HandleFunc("/me", authH.Me).Methods(http.MethodGet).Name("Profile.Me")

	// Donor dashboard
	api.HandleFunc("/donor/books", donorH.ListBooks).Methods(http.MethodGet).Name("Donor.ListBooks")
	api.HandleFunc("/donor/books", donorH.CreateBook).Methods(http.MethodPost).Name("Donor.CreateBook")
	api.HandleFunc("/donor/books/{id}/availability", donorH.SetAvailability).Methods(http.MethodPatch).Name("Donor.SetAvailability")
	api.HandleFunc("/donor/books/{id}", donorH.DeleteBook).Methods(http.MethodDelete).Name("Donor.DeleteBook")
	api.HandleFunc("/donor/requests", donorH.ListRequests).Methods(http.MethodGet).Name("Donor.ListRequests")
	api.HandleFunc("/donor/requests/{id}/decision", donorH.DecideRequest).Methods(http.MethodPost).Name("Donor.DecideRequest")

	// Receiver dashboard
	api.HandleFunc("/books", receiverH.ListBooks).Methods(http.MethodGet).Name("Receiver.ListBooks")
	api.HandleFunc("/books/genres", receiverH.ListGenres).Methods(http.MethodGet).Name("Receiver.ListGenres")
	api.HandleFunc("/books/{id}/requests", receiverH.CreateRequest).Methods(http.MethodPost).Name("Receiver.CreateRequest")
	api.HandleFunc("/receiver/requests", receiverH.ListRequests).Methods(http.MethodGet).Name("Receiver.ListRequests")

	// Notifications
	api.HandleFunc("/notifications", noteH.List).Methods(http.MethodGet).Name("Notifications.List")
	api.HandleFunc("/notifications/{id}/read", noteH.MarkRead).Methods(http.MethodPost).Name("Notifications.MarkRead")

	return router
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.WarnContext(r.Context(), "Health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
