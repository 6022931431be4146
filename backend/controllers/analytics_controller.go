package controllers

import (
	"log"

	"skillnexis/backend/config"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsController exposes the platform statistics of the admin dashboard.
type AnalyticsController struct {
	Data   *services.AdminDataManager
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAnalyticsController(data *services.AdminDataManager, cfg *config.Config, logger *log.Logger) *AnalyticsController {
	return &AnalyticsController{Data: data, Cfg: cfg, Logger: logger}
}

func (ac *AnalyticsController) GetPlatformAnalytics(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, ac.Data.GetStats(c.UserContext()))
}

// RefreshPlatformAnalytics recomputes the stats now instead of waiting for the scheduler.
func (ac *AnalyticsController) RefreshPlatformAnalytics(c *fiber.Ctx) error {
	stats, err := ac.Data.RefreshStats(c.UserContext())
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return utils.Message(c, "Stats refreshed", stats)
}
