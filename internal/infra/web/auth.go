package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/ports/repository"
)

// AuthService guards the admin surface. Login verifies the configured
// password hash and issues a short-lived HS256 token whose jti is kept
// server-side so tokens can be revoked by purging the store.
type AuthService struct {
	passwordHash string
	secret       []byte
	ttl          time.Duration
	tokens       repository.AdminTokenRepository
	log          *zerolog.Logger
}

func NewAuthService(passwordHash, secret string, ttl time.Duration, tokens repository.AdminTokenRepository, logger *zerolog.Logger) *AuthService {
	l := logger.With().Str("component", "AuthService").Logger()
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		passwordHash: passwordHash,
		secret:       []byte(secret),
		ttl:          ttl,
		tokens:       tokens,
		log:          &l,
	}
}

// Login checks the password and returns a signed token.
func (a *AuthService) Login(r *http.Request, password string) (string, error) {
	if a.passwordHash == "" || len(a.secret) == 0 {
		a.log.Error().Msg("admin auth is not configured")
		return "", domain.ErrUnauthorized
	}

	match, err := argon2id.ComparePasswordAndHash(password, a.passwordHash)
	if err != nil || !match {
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	jti := uuid.NewString()
	claims := jwt.RegisteredClaims{
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", err
	}
	if err := a.tokens.Store(r.Context(), jti, now); err != nil {
		return "", err
	}
	a.log.Info().Str("remote", r.RemoteAddr).Msg("admin login")
	return signed, nil
}

// Verify parses the token, checks the signature and confirms the jti is
// still present in the token store.
func (a *AuthService) Verify(r *http.Request, raw string) error {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return domain.ErrUnauthorized
	}
	valid, err := a.tokens.Valid(r.Context(), claims.ID)
	if err != nil || !valid {
		return domain.ErrUnauthorized
	}
	return nil
}

// Middleware accepts the token as a Bearer header or, for EventSource
// clients that cannot set headers, a token query parameter.
func (a *AuthService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			raw = r.URL.Query().Get("token")
		}
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing token"})
			return
		}
		if err := a.Verify(r, raw); err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
