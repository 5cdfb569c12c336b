package health

import (
	healthsvc "nostr-ads-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Rdb *redis.Client
	DB  healthsvc.DBPinger
}

// JSON GET /health/json — dependency status and traffic counters.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.Context(), h.Rdb, h.DB)
	return c.JSON(result)
}
