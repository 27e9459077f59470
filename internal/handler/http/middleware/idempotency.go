package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/jwt"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func idempotencyKeys(r *http.Request, userID, key string) (cacheKey, lockKey string) {
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", r.URL.Path, userID, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored response for a repeated Idempotency-Key on POST requests.
// A concurrent duplicate gets 409 while the first is still running. Server errors are not cached.
// A nil client disables the middleware.
func Idempotency(rdb redis.Cmdable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if rdb == nil || key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := jwt.IdentityFromContext(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey, lockKey := idempotencyKeys(r, identity.UserID, key)

			val, err := rdb.Get(ctx, cacheKey).Result()
			if err == nil {
				var cached cachedResponse
				if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("Idempotent-Replayed", "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write([]byte(cached.Body))
					return
				}
			} else if !errors.Is(err, redis.Nil) {
				// Redis is down; serve without the guarantee rather than fail the request.
				slog.Warn("Idempotency cache unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
			if err != nil {
				slog.Warn("Idempotency lock unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.Error(w, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed")
				return
			}

			var buf bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < http.StatusInternalServerError {
				payload, _ := json.Marshal(cachedResponse{Status: status, Body: buf.String()})
				if err := rdb.Set(ctx, cacheKey, string(payload), idempotencyCacheTTL).Err(); err != nil {
					slog.Warn("Idempotency cache write failed", "error", err)
				}
			}
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				slog.Warn("Idempotency lock release failed", "error", err)
			}
		})
	}
}
