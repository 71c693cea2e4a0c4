// Package ratelimit provides per-client request rate limiting middleware.
package ratelimit

import (
	"os"

	"github.com/gin-gonic/gin"
	libredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"codeberg.org/promptdesk/server/internal/errors"
	"codeberg.org/promptdesk/server/internal/logger"
)

// default limit for prompt submissions per client IP
const defaultRate = "10-M"

// builds a gin middleware limiting requests per client IP. the limit is
// formatted like "10-M" (10 per minute) and can be overridden with the
// PROMPT_RATE_LIMIT environment variable. state lives in Redis when a
// client is provided, in memory otherwise.
func Middleware(redisClient *libredis.Client) (gin.HandlerFunc, error) {
	rateStr := os.Getenv("PROMPT_RATE_LIMIT")
	if rateStr == "" {
		rateStr = defaultRate
	}

	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, err
	}

	var store limiter.Store

	if redisClient != nil {
		store, err = sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
			Prefix: "ratelimit",
		})
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStore()
		logger.Debug("rate limiter using in-memory store")
	}

	instance := limiter.New(store, rate)

	middleware := mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "rate limit exceeded, try again later")
		}),
	)

	return middleware, nil
}
