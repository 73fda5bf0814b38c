package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/civicgrid/backend/pkg/utils"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, "OK", fiber.Map{"status": "up"})
}

// Ready reports whether the service can actually reach its backends.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"database": "up", "redis": "up"}
	healthy := true

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		checks["database"] = "down"
		healthy = false
	}

	if err := h.redis.Ping(c.Context()).Err(); err != nil {
		checks["redis"] = "down"
		healthy = false
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.Response{
			Success: false,
			Error:   "dependencies unavailable",
			Data:    checks,
		})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Ready", checks)
}
