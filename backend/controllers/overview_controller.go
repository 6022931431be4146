package controllers

import (
	"log"

	"skillnexis/backend/config"
	"skillnexis/backend/middleware"
	"skillnexis/backend/models"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	activeCoursesLimit   = 3
	recommendationsLimit = 3
)

type OverviewController struct {
	Catalog  *services.CourseCatalog
	Data     *services.AdminDataManager
	Progress *services.ProgressService
	Cfg      *config.Config
	Logger   *log.Logger
}

func NewOverviewController(catalog *services.CourseCatalog, data *services.AdminDataManager, progress *services.ProgressService, cfg *config.Config, logger *log.Logger) *OverviewController {
	return &OverviewController{Catalog: catalog, Data: data, Progress: progress, Cfg: cfg, Logger: logger}
}

// SearchCourses searches the catalog by title or description
func (oc *OverviewController) SearchCourses(c *fiber.Ctx) error {
	search := c.Query("search")
	category := models.Category(c.Query("category"))
	sort := services.CourseSort(c.Query("sort", string(services.SortPopularity)))

	if category != "" && !category.Valid() {
		return utils.BadRequest(c, "Unknown category")
	}
	switch sort {
	case services.SortPopularity, services.SortNewest, services.SortTitle:
	default:
		return utils.BadRequest(c, "sort must be one of: popularity, newest, title")
	}

	courses := oc.Catalog.Search(c.UserContext(), search, category, sort)
	return utils.Success(c, fiber.StatusOK, courses, fiber.Map{"total": len(courses)})
}

// GetUserOverview returns the dashboard of the current student
func (oc *OverviewController) GetUserOverview(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	ctx := c.UserContext()

	user, ok := oc.Data.GetUser(ctx, session.User.ID)
	if !ok {
		return utils.NotFound(c, "User not found")
	}

	overview, err := oc.Progress.Overview(ctx, user.ID)
	if err != nil {
		return respondError(c, oc.Logger, err)
	}

	active := make([]models.CourseProgress, 0, activeCoursesLimit)
	for _, cp := range overview.Courses {
		if cp.Progress < models.ProgressCompleted && len(active) < activeCoursesLimit {
			active = append(active, cp)
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"averageProgress":  overview.AverageProgress,
		"completedCourses": overview.CompletedCourses,
		"certificates":     overview.Certificates,
		"activeCourses":    active,
		"recommendations":  oc.Catalog.Recommend(ctx, user, recommendationsLimit),
	})
}
