package security

import (
	"errors"
	"strconv"
	"time"

	"bookshare-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeVerify  TokenType = "email_verify"
)

const issuer = "bookshare-auth"

// ProfileClaims are the claims carried by every token this service issues.
type ProfileClaims struct {
	ProfileID int32       `json:"profile_id"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Type      TokenType   `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(profile *domain.Profile) (string, error)
	GenerateRefreshToken(profile *domain.Profile) (string, error)
	GenerateVerifyToken(profile *domain.Profile) (string, error)
	ValidateToken(tokenString string) (*ProfileClaims, error)
	ValidateTokenOfType(tokenString string, want TokenType) (*ProfileClaims, error)
}

// TokenTTLs sets how long each token type stays valid.
type TokenTTLs struct {
	Access  time.Duration
	Refresh time.Duration
	Verify  time.Duration
}

type tokenManager struct {
	secret []byte
	ttls   TokenTTLs
	now    func() time.Time
}

func NewTokenManager(secret string, ttls TokenTTLs) TokenManager {
	if ttls.Access == 0 {
		ttls.Access = time.Hour
	}
	if ttls.Refresh == 0 {
		ttls.Refresh = 7 * 24 * time.Hour
	}
	if ttls.Verify == 0 {
		ttls.Verify = 24 * time.Hour
	}
	return &tokenManager{
		secret: []byte(secret),
		ttls:   ttls,
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(profile *domain.Profile) (string, error) {
	return m.sign(profile, TokenTypeAccess, m.ttls.Access, "api-access")
}

func (m *tokenManager) GenerateRefreshToken(profile *domain.Profile) (string, error) {
	return m.sign(profile, TokenTypeRefresh, m.ttls.Refresh, "token-refresh")
}

func (m *tokenManager) GenerateVerifyToken(profile *domain.Profile) (string, error) {
	return m.sign(profile, TokenTypeVerify, m.ttls.Verify, "email-verification")
}

func (m *tokenManager) sign(profile *domain.Profile, typ TokenType, ttl time.Duration, audience string) (string, error) {
	now := m.now()
	claims := ProfileClaims{
		ProfileID: profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(profile.ID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*ProfileClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ProfileClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ProfileClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ProfileID == 0 && claims.Subject != "" {
		uid, _ := strconv.Atoi(claims.Subject)
		claims.ProfileID = int32(uid)
	}
	return claims, nil
}

func (m *tokenManager) ValidateTokenOfType(tokenString string, want TokenType) (*ProfileClaims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
