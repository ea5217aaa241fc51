package serverutils

import (
	"time"

	"bi-copilot-be/internal/pkg/apperrors"
	"bi-copilot-be/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimitMiddleware enforces the per-endpoint budget. Authenticated routes
// key on the user id; unauthenticated ones fall back to the client IP.
func RateLimitMiddleware(limiter ratelimit.Limiter, endpoint string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key, ok := ctx.Locals("user_id").(string)
		if !ok || key == "" {
			key = ctx.IP()
		}

		decision := limiter.Allow(ctx.UserContext(), key, endpoint)
		if !decision.Allowed {
			return &apperrors.RateLimitError{
				Limit:      decision.Limit,
				RetryAfter: time.Duration(decision.RetryAfter) * time.Second,
			}
		}
		return ctx.Next()
	}
}
