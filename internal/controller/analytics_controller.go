package controller

import (
	"bi-copilot-be/internal/pkg/serverutils"
	"bi-copilot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAnalyticsController interface {
	RegisterRoutes(r fiber.Router)
	GetUsageStats(ctx *fiber.Ctx) error
}

type analyticsController struct {
	service service.IAnalyticsService
}

func NewAnalyticsController(service service.IAnalyticsService) IAnalyticsController {
	return &analyticsController{service: service}
}

func (c *analyticsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analytics/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/usage", c.GetUsageStats)
}

func (c *analyticsController) GetUsageStats(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	periodDays := ctx.QueryInt("days", 30)

	res, err := c.service.GetUsageStats(ctx.Context(), userId, periodDays)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get usage stats", res))
}
