package jwt

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeSSE     = "sse"

	sseTokenTTL = 5 * time.Minute
)

var ErrMissingIdentity = errors.New("token does not carry a user identity")

// Identity is the caller as described by a verified access token.
type Identity struct {
	UserID    string
	Email     string
	Role      user.Role
	ManagerID string
}

// IsManager reports whether the caller holds the manager role.
func (i Identity) IsManager() bool {
	return i.Role == user.RoleManager
}

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	GenerateSSEToken(userID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, err error)
	ValidateRefreshToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	secureCookie           bool
	tokenAuth              *jwtauth.JWTAuth
	revokedTokens          map[string]int64
	mu                     sync.RWMutex
	now                    func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 signer. Expirations use time.ParseDuration syntax.
func NewJWTService(secretKey string, accessTokenExpiration string, refreshTokenExpiration string, secureCookie bool) (*JWTService, error) {
	access, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, err
	}
	refresh, err := time.ParseDuration(refreshTokenExpiration)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration:  access,
		refreshTokenExpiration: refresh,
		secureCookie:           secureCookie,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:          make(map[string]int64),
		now:                    time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}
	if u.HasManager() {
		claims["manager_id"] = *u.ManagerID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		// jti keeps two refresh tokens minted in the same second distinct
		"jti":  uuid.NewString(),
		"type": TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// RevokeToken blacklists a token until it would have expired anyway.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now().Unix()
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(userID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TokenTypeSSE,
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns the user ID
func (j *JWTService) ValidateSSEToken(tokenString string) (userID string, err error) {
	return j.validateTyped(tokenString, TokenTypeSSE)
}

func (j *JWTService) ValidateRefreshToken(tokenString string) (userID string, err error) {
	return j.validateTyped(tokenString, TokenTypeRefresh)
}

func (j *JWTService) validateTyped(tokenString string, wantType string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

// IdentityFromContext reads the caller placed in ctx by jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, err
	}
	return IdentityFromClaims(claims)
}

func IdentityFromClaims(claims map[string]interface{}) (Identity, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrMissingIdentity
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	managerID, _ := claims["manager_id"].(string)
	return Identity{
		UserID:    userID,
		Email:     email,
		Role:      user.Role(role),
		ManagerID: managerID,
	}, nil
}

// WithIdentity returns a context carrying a pre-verified identity, for tests and internal callers.
func WithIdentity(ctx context.Context, ja *jwtauth.JWTAuth, id Identity) (context.Context, error) {
	claims := map[string]interface{}{
		"user_id": id.UserID,
		"email":   id.Email,
		"role":    string(id.Role),
		"type":    TokenTypeAccess,
	}
	if id.ManagerID != "" {
		claims["manager_id"] = id.ManagerID
	}
	token, _, err := ja.Encode(claims)
	if err != nil {
		return ctx, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
