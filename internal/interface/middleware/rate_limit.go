package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bienesraices/pkg/response"
)

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc names the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that skip the limit.
type AllowFunc func(*gin.Context) bool

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath gives every form (method + route) its own budget per IP.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + c.Request.Method + ":" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID counts signed-in users per account and anonymous ones per IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

// KeyByUserAndParam counts per user and path parameter, e.g. messages sent
// by one buyer to one listing.
func KeyByUserAndParam(param string) KeyFunc {
	byUser := KeyByUserID()
	return func(c *gin.Context) string {
		return byUser(c) + ":" + param + ":" + c.Param(param)
	}
}

// INCR and PEXPIRE on first hit, answering {count, pttl} in one round trip.
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// Window is a fixed-window counter stored in Redis.
type Window struct {
	rdb    *redis.Client
	length time.Duration
}

func NewWindow(rdb *redis.Client, length time.Duration) *Window {
	return &Window{rdb: rdb, length: length}
}

// Hit counts one request against key and reports the count so far and the
// time left in the current window.
func (w *Window) Hit(ctx context.Context, key string) (int, time.Duration, error) {
	res, err := hitScript.Run(ctx, w.rdb, []string{key}, w.length.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, redis.Nil
	}
	reset := time.Duration(res[1]) * time.Millisecond
	if reset < 0 {
		reset = 0
	}
	return int(res[0]), reset, nil
}

// RateLimit allows max requests per key and window. A nil client disables
// it and Redis errors fail open.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	counter := NewWindow(rdb, window)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		count, reset, err := counter.Hit(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}
		resetSec := int(reset.Seconds())

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limitRemaining(max, count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "too many requests, try again later", nil)
			return
		}
		c.Next()
	}
}

func limitRemaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}
