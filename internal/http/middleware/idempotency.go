// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key handling for POST /rides. The
// validator checks the header, stashes the key, and asks a lookup whether a
// ride was already created under it. A hit marks the request as a replay
// (carrying the stored ride id) and lets it bypass rate limiting. Serving the
// replay is up to the handler.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// ErrCodeBadIdempotencyKey is the error_code for a malformed key.
const ErrCodeBadIdempotencyKey = "BAD_IDEMPOTENCY_KEY"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemRide   = "idem.ride" // int64 ride id of a stored result
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// ReplayRideID returns the ride id previously created under this request's
// key, if the lookup found one.
func ReplayRideID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxKeyIdemRide)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// IsReplay reports whether the request repeats a completed create.
func IsReplay(c *gin.Context) bool {
	_, ok := ReplayRideID(c)
	return ok
}

// IdempotencyOptions configures key validation.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; nil uses ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports the ride id stored for key, if still valid at now.
// repo.IdempotencyStore.Lookup satisfies it.
type IdempotencyLookup func(ctx context.Context, key string, now time.Time) (rideID int64, found bool, err error)

func unsafeMethod(m string) bool {
	return m == http.MethodPost || m == http.MethodPut || m == http.MethodPatch
}

// IdempotencyValidator validates Idempotency-Key on POST, PUT and PATCH
// requests when present; other methods pass through untouched. Invalid keys
// are rejected with 400; lookup errors are logged and the request proceeds as
// a first attempt.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		if !unsafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			SetErrorCode(c, ErrCodeBadIdempotencyKey)
			RecordError(ErrCodeBadIdempotencyKey)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error_code": ErrCodeBadIdempotencyKey,
				"message":    "Invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			id, found, err := lookup(c.Request.Context(), key, time.Now().UTC())
			switch {
			case err != nil:
				log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
			case found:
				c.Set(ctxKeyIdemRide, id)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
