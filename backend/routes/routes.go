package routes

import (
	"errors"
	"log"

	"skillnexis/backend/config"
	"skillnexis/backend/controllers"
	"skillnexis/backend/middleware"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services are the wired domain services the HTTP layer depends on.
type Services struct {
	Data     *services.AdminDataManager
	Auth     *services.AuthService
	Progress *services.ProgressService
	Catalog  *services.CourseCatalog
	Contact  *services.ContactService
	Practice *services.PracticeService
}

// NewApp builds the fiber app with the shared middleware stack and all routes.
func NewApp(cfg *config.Config, svc *Services, logger *log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "SkillNexis",
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return utils.Error(c, fe.Code, fe)
			}
			logger.Printf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
			return utils.InternalServerError(c, "Internal server error. Please try again later.")
		},
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	SetupRoutes(app, svc, cfg, logger)
	return app
}

func SetupRoutes(app *fiber.App, svc *Services, cfg *config.Config, logger *log.Logger) {
	authMiddleware := middleware.AuthMiddleware(cfg, svc.Auth)
	adminMiddleware := middleware.AdminMiddleware()

	// Auth routes
	authController := controllers.NewAuthController(svc.Auth, cfg, logger)
	app.Post("/api/auth/register", middleware.RegisterRateLimiter(), authController.Register)
	app.Post("/api/auth/login", middleware.LoginRateLimiter(), authController.Login)
	app.Post("/api/auth/logout", authMiddleware, authController.Logout)
	app.Get("/api/auth/me", authMiddleware, authController.Me)

	// Courses routes
	coursesController := controllers.NewCoursesController(svc.Catalog, svc.Data, svc.Progress, cfg, logger)
	courses := app.Group("/api/courses")
	courses.Get("/", coursesController.GetAvailableCourses)
	courses.Get("/:slug", coursesController.GetCourseDetails)
	courses.Post("/:slug/enroll", authMiddleware, coursesController.Enroll)
	courses.Post("/:slug/video", authMiddleware, coursesController.MarkVideoWatched)

	// Quiz routes
	quizzesController := controllers.NewQuizzesController(svc.Data, svc.Progress, cfg, logger)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/:slug", quizzesController.GetQuiz)
	quizzes.Post("/:slug/submit", quizzesController.SubmitQuiz)

	// Progress, assessment and certificate routes
	progressController := controllers.NewProgressController(svc.Progress, cfg, logger)
	app.Get("/api/progress", authMiddleware, progressController.GetProgressOverview)
	app.Get("/api/progress/:slug", authMiddleware, progressController.GetCourseProgress)
	app.Post("/api/assessments/:slug", authMiddleware, progressController.SubmitAssessment)
	app.Get("/api/certificates", authMiddleware, progressController.GetCertificates)
	app.Get("/api/certificates/:slug", authMiddleware, progressController.GetCertificate)

	// Overview routes
	overviewController := controllers.NewOverviewController(svc.Catalog, svc.Data, svc.Progress, cfg, logger)
	app.Get("/api/overview/courses", overviewController.SearchCourses)
	app.Get("/api/overview", authMiddleware, overviewController.GetUserOverview)

	// Practice routes
	practiceController := controllers.NewPracticeController(svc.Practice, cfg, logger)
	practice := app.Group("/api/practice", authMiddleware)
	practice.Get("/", practiceController.GetChallenges)
	practice.Get("/:id", practiceController.GetChallenge)
	practice.Put("/:id/draft", practiceController.SaveDraft)
	practice.Delete("/:id/draft", practiceController.ResetDraft)
	practice.Post("/:id/check", practiceController.CheckRun)

	// Contact
	contactController := controllers.NewContactController(svc.Contact, cfg, logger)
	app.Post("/api/contact", middleware.ContactRateLimiter(), contactController.SendMessage)

	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)

	// Admin routes for users
	userController := controllers.NewUserController(svc.Data, cfg, logger)
	admin.Get("/users", userController.GetUsers)
	admin.Post("/users", userController.CreateUser)
	admin.Put("/users/:id", userController.UpdateUser)
	admin.Delete("/users/:id", userController.DeleteUser)
	admin.Post("/users/:id/enroll/:courseId", userController.EnrollUser)
	admin.Post("/users/:id/complete/:courseId", userController.CompleteCourse)

	// Admin routes for courses
	admin.Get("/courses", coursesController.GetAllCourses)
	admin.Post("/courses", coursesController.CreateCourse)
	admin.Put("/courses/:id", coursesController.UpdateCourse)
	admin.Delete("/courses/:id", coursesController.DeleteCourse)

	// Admin routes for quizzes
	admin.Get("/quizzes", quizzesController.GetAllQuizzes)
	admin.Post("/quizzes", quizzesController.CreateQuiz)
	admin.Put("/quizzes/:slug", quizzesController.UpdateQuiz)
	admin.Delete("/quizzes/:slug", quizzesController.DeleteQuiz)

	// Stats
	analyticsController := controllers.NewAnalyticsController(svc.Data, cfg, logger)
	admin.Get("/stats", analyticsController.GetPlatformAnalytics)
	admin.Post("/stats/refresh", analyticsController.RefreshPlatformAnalytics)
}
