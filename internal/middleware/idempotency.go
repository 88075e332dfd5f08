package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// How long the "in-progress" lock is held before the handler must have
// finished and stored the final response.
const provisionalLockTTL = 60 * time.Second

// idempEntry is the per-key record stored in redis.
type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

// bodyRecorder duplicates the response body so it can be stored for replay.
type bodyRecorder struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func buildIdempotencyKey(method, route, staffID, key string) string {
	return "idemp:" + method + ":" + route + ":" + staffID + ":" + key
}

func bodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Idempotency replays the stored response when a mutating request is retried
// with the same Idempotency-Key by the same staff actor on the same resource
// path.
// Requests without the header pass through; the storage constraints remain
// the authoritative duplicate guard either way.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if key == "" {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		staffID, _ := GetStaffIDFromContext(c)

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		hash := bodyHash(body)

		// The concrete request path, not the route template, so the same key
		// against different resources never collides.
		redisKey := buildIdempotencyKey(c.Request.Method, c.Request.URL.Path, staffID, key)

		provisional, _ := json.Marshal(idempEntry{
			InProgress: true,
			BodySHA256: hash,
			CreatedAt:  time.Now().UTC(),
		})
		ok, err := rdb.SetNX(c.Request.Context(), redisKey, provisional, provisionalLockTTL).Result()
		if err != nil {
			logger.Error("Idempotency store unavailable", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "idempotency store unavailable"})
			return
		}
		if !ok {
			raw, err := rdb.Get(c.Request.Context(), redisKey).Bytes()
			if err != nil {
				logger.Error("Failed to load idempotency entry", slog.String("key", redisKey), slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request is already in progress"})
				return
			}
			var cur idempEntry
			if err := json.Unmarshal(raw, &cur); err != nil {
				logger.Error("Corrupt idempotency entry", slog.String("key", redisKey), slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request is already in progress"})
				return
			}
			if cur.BodySHA256 != hash {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Idempotency-Key reused with different body"})
				return
			}
			if !cur.InProgress && cur.Code != 0 {
				logger.Info("Replaying idempotent response", slog.String("key", redisKey), slog.Int("status", cur.Code))
				c.Abort()
				c.Data(cur.Code, "application/json", cur.Body)
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request is already in progress"})
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		// A 5xx must not become sticky for the key's TTL; drop the provisional
		// lock so the caller can retry.
		if rec.Status() >= http.StatusInternalServerError {
			if err := rdb.Del(c.Request.Context(), redisKey).Err(); err != nil {
				logger.Error("Failed to release idempotency lock after server error", slog.String("key", redisKey), slog.String("error", err.Error()))
			}
			return
		}

		final, _ := json.Marshal(idempEntry{
			InProgress: false,
			Code:       rec.Status(),
			Body:       rec.buf.Bytes(),
			BodySHA256: hash,
			CreatedAt:  time.Now().UTC(),
		})
		if err := rdb.Set(c.Request.Context(), redisKey, final, ttl).Err(); err != nil {
			logger.Error("Failed to store idempotent response", slog.String("key", redisKey), slog.String("error", err.Error()))
		}
	}
}
