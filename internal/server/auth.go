package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/washboardhq/washboard/internal/services"
	"github.com/washboardhq/washboard/pkg/models"
)

// AccessClaims is the payload of a Washboard access token.
type AccessClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies access tokens and rotates refresh
// tokens. Access tokens are HS256 JWTs; refresh tokens are opaque,
// single-use, and stored hashed.
type Authenticator struct {
	users      services.UserRepository
	refresh    services.RefreshTokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
}

// NewAuthenticator creates an Authenticator over the given repositories.
func NewAuthenticator(users services.UserRepository, refresh services.RefreshTokenRepository,
	secret []byte, accessTTL, refreshTTL time.Duration, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		users:      users,
		refresh:    refresh,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifies credentials and returns the account on success.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*services.UserAccount, error) {
	account, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// Burn a comparison anyway so unknown usernames cost the same.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000"), []byte(password))
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, services.ErrNotFound
	}
	return account, nil
}

// IssueAccess mints a signed access token for the user.
func (a *Authenticator) IssueAccess(user models.User) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			Issuer:    "washboardd",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.accessTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// IssueRefresh mints a new opaque refresh token for the user.
func (a *Authenticator) IssueRefresh(ctx context.Context, userID int) (string, error) {
	return a.refresh.Issue(ctx, userID, a.refreshTTL)
}

// VerifyAccess validates a bearer token and returns its claims.
func (a *Authenticator) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// Rotate consumes a refresh token and mints a fresh pair.
func (a *Authenticator) Rotate(ctx context.Context, refreshToken string) (access, refresh string, err error) {
	userID, err := a.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}
	account, err := a.users.Get(ctx, userID)
	if err != nil {
		return "", "", err
	}
	access, err = a.IssueAccess(account.User)
	if err != nil {
		return "", "", err
	}
	refresh, err = a.refresh.Issue(ctx, userID, a.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// handleLogin exchanges credentials for a token pair plus the user profile.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow() {
		TooManyRequests(w, "too many login attempts, slow down", r.URL.Path)
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if req.Username == "" || req.Password == "" {
		BadRequest(w, "username and password are required", r.URL.Path)
		return
	}

	account, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			Unauthorized(w, "no active account found with the given credentials", r.URL.Path)
			return
		}
		s.logger.Error("login failed", zap.Error(err))
		InternalError(w, "login failed", r.URL.Path)
		return
	}

	access, err := s.auth.IssueAccess(account.User)
	if err != nil {
		s.logger.Error("issue access token", zap.Error(err))
		InternalError(w, "login failed", r.URL.Path)
		return
	}
	refresh, err := s.auth.IssueRefresh(r.Context(), account.ID)
	if err != nil {
		s.logger.Error("issue refresh token", zap.Error(err))
		InternalError(w, "login failed", r.URL.Path)
		return
	}

	s.logger.Info("user logged in", zap.String("username", account.Username))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access":  access,
		"refresh": refresh,
		"user":    account.User,
	})
}

// handleRefresh rotates a refresh token into a fresh token pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		BadRequest(w, "refresh token is required", r.URL.Path)
		return
	}

	access, refresh, err := s.auth.Rotate(r.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			Unauthorized(w, "refresh token is invalid or expired", r.URL.Path)
			return
		}
		s.logger.Error("token rotation failed", zap.Error(err))
		InternalError(w, "token refresh failed", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access":  access,
		"refresh": refresh,
	})
}

// handleMe returns the profile of the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		Unauthorized(w, "missing bearer token", r.URL.Path)
		return
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		Unauthorized(w, "invalid token subject", r.URL.Path)
		return
	}
	account, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.User)
}

// claimsKey is the context key for authenticated request claims.
type claimsKey struct{}

func withClaims(ctx context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the access claims attached by requireAuth, if any.
func ClaimsFrom(ctx context.Context) (*AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*AccessClaims)
	return claims, ok
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
