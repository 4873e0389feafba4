package http

import (
	"net/http"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/service"
	"bookshare-backend/internal/session"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type signUpRequest struct {
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirm_password"`
	FullName        string      `json:"full_name"`
	Role            domain.Role `json:"role"`
	Phone           string      `json:"phone"`
	Address         string      `json:"address"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Profile      *domain.Profile `json:"profile"`
	Destination  string          `json:"destination"`
}

func newTokenResponse(res *service.AuthResult) tokenResponse {
	sess := session.New()
	_ = sess.Begin()
	_ = sess.Complete(res.Profile.ID, res.Profile.Email, res.Profile.Role)
	return tokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		Profile:      res.Profile,
		Destination:  sess.Destination(),
	}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.authSvc.SignUp(r.Context(), service.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		Role:            req.Role,
		Phone:           req.Phone,
		Address:         req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"profile":               profile,
		"verification_required": !profile.EmailVerified,
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	profile, err := h.authSvc.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(res))
}

// Refresh expects the refresh token as the bearer token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.authSvc.Refresh(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(res))
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	profileID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authSvc.SignOut(r.Context(), profileID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"destination": session.DestinationAuth})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profileID, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.authSvc.GetProfile(r.Context(), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// Landing reports where the current session belongs.
func (h *AuthHandler) Landing(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"state":       sess.State(),
		"role":        sess.Role(),
		"destination": sess.Destination(),
	})
}
