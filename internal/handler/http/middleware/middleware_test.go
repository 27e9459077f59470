package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func withIdentity(t *testing.T, r *http.Request, id jwt.Identity) *http.Request {
	t.Helper()
	ctx, err := jwt.WithIdentity(r.Context(), jwtauth.New("HS256", []byte("secret"), nil), id)
	require.NoError(t, err)
	return r.WithContext(ctx)
}

func TestRequireManager(t *testing.T) {
	h := RequireManager(http.HandlerFunc(okHandler))

	tests := []struct {
		name string
		role user.Role
		want int
	}{
		{"manager", user.RoleManager, http.StatusNoContent},
		{"employee", user.RoleEmployee, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withIdentity(t, httptest.NewRequest(http.MethodGet, "/", nil), jwt.Identity{UserID: "u1", Role: tt.role})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	jwtService, err := jwt.NewJWTService("secret", "1h", "24h", false)
	require.NoError(t, err)

	chain := jwtauth.Verifier(jwtService.JWTAuth())(AuthRequired(jwtService)(http.HandlerFunc(okHandler)))

	access, exp, err := jwtService.GenerateAccessToken(user.User{ID: "u1", Email: "a@example.com", Role: user.RoleEmployee})
	require.NoError(t, err)
	refresh, _, err := jwtService.GenerateRefreshToken("u1")
	require.NoError(t, err)

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call(access))
	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("garbage"))
	assert.Equal(t, http.StatusUnauthorized, call(refresh))

	jwtService.RevokeToken(access, exp)
	assert.Equal(t, http.StatusUnauthorized, call(access))
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(rate.Every(time.Hour), 2)(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIdempotency_StoresAndReplays(t *testing.T) {
	db, mock := redismock.NewClientMock()

	calls := 0
	h := Idempotency(db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/entry", nil)
		req.Header.Set(IdempotencyHeader, "abc")
		return withIdentity(t, req, jwt.Identity{UserID: "u1", Role: user.RoleEmployee})
	}

	cacheKey := "idemp:/api/v1/attendance/entry:u1:abc"
	lockKey := cacheKey + ":lock"
	payload, err := json.Marshal(cachedResponse{Status: http.StatusCreated, Body: `{"ok":true}`})
	require.NoError(t, err)

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(cacheKey, string(payload), idempotencyCacheTTL).SetVal("OK")
	mock.ExpectDel(lockKey).SetVal(1)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newReq())
	assert.Equal(t, http.StatusCreated, rec.Code)

	mock.ExpectGet(cacheKey).SetVal(string(payload))

	replay := httptest.NewRecorder()
	h.ServeHTTP(replay, newReq())
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.JSONEq(t, `{"ok":true}`, replay.Body.String())
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))

	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentDuplicateConflicts(t *testing.T) {
	db, mock := redismock.NewClientMock()
	h := Idempotency(db)(http.HandlerFunc(okHandler))

	cacheKey := "idemp:/api/v1/wfh/requests:u1:k"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", idempotencyLockTTL).SetVal(false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wfh/requests", nil)
	req.Header.Set(IdempotencyHeader, "k")
	req = withIdentity(t, req, jwt.Identity{UserID: "u1"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_RedisDownFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	h := Idempotency(db)(http.HandlerFunc(okHandler))

	mock.ExpectGet("idemp:/x:u1:k").SetErr(errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyHeader, "k")
	req = withIdentity(t, req, jwt.Identity{UserID: "u1"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIdempotency_SkipsWithoutKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	h := Idempotency(db)(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
