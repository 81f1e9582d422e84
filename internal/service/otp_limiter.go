package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPLimiter caps how many verification codes an address may request in a
// fixed window.
type OTPLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

type redisOTPLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisOTPLimiter(client *redis.Client, limit int, window time.Duration) OTPLimiter {
	return &redisOTPLimiter{client: client, limit: limit, window: window}
}

func (l *redisOTPLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("otp_resend:%s", strings.ToLower(email))

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	// The first request in a window starts the clock.
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.limit), nil
}
