package routes

import (
	"kitobxon/backend/config"
	"kitobxon/backend/controllers"
	"kitobxon/backend/middleware"
	"kitobxon/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	engine := services.NewGamification(db)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	teacherOnly := middleware.RequireRole("teacher")
	adminOnly := middleware.RequireRole("admin")

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Reading log routes
	booksController := controllers.NewBooksController(db, cfg, engine)
	books := app.Group("/api/books", authMiddleware)
	books.Get("/", booksController.GetBooks)
	books.Post("/", booksController.CreateBook)
	books.Get("/:id", booksController.GetBook)
	books.Delete("/:id", booksController.DeleteBook)

	// Quiz routes
	quizController := controllers.NewQuizController(db, cfg, engine)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/:bookId", quizController.GetQuiz)
	quizzes.Post("/:bookId/submit", quizController.SubmitQuiz)
	app.Get("/api/results", authMiddleware, quizController.GetResults)

	// Gamification routes
	gamificationController := controllers.NewGamificationController(db, cfg, engine)
	gamification := app.Group("/api/gamification", authMiddleware)
	gamification.Get("/level", gamificationController.GetLevel)
	gamification.Get("/badges", gamificationController.GetBadges)
	gamification.Get("/leaderboard", gamificationController.Leaderboard)

	// Notification routes
	notificationsController := controllers.NewNotificationsController(db, cfg)
	notifications := app.Group("/api/notifications", authMiddleware)
	notifications.Get("/", notificationsController.GetNotifications)
	notifications.Put("/:id/read", notificationsController.MarkRead)
	notifications.Delete("/:id", notificationsController.DeleteNotification)

	// Reading plan routes
	plansController := controllers.NewPlansController(db, cfg)
	plans := app.Group("/api/plans", authMiddleware)
	plans.Get("/", plansController.GetPlans)
	plans.Post("/", plansController.CreatePlan)
	plans.Put("/:id", plansController.UpdatePlan)
	plans.Delete("/:id", plansController.DeletePlan)

	// Teacher routes
	teacherController := controllers.NewTeacherController(db, cfg, engine)
	teacher := app.Group("/api/teacher", authMiddleware, teacherOnly)
	teacher.Get("/summaries", teacherController.GetPendingSummaries)
	teacher.Put("/summaries/:id/approve", teacherController.ApproveSummary)
	teacher.Get("/students", teacherController.GetStudents)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg, engine)
	admin := app.Group("/api/admin", authMiddleware, adminOnly)
	admin.Get("/users", adminController.GetUsers)
	admin.Post("/users", adminController.CreateUser)
	admin.Delete("/users/:id", adminController.DeleteUser)
	admin.Put("/users/:id/xp", adminController.AdjustXP)
	admin.Get("/settings", adminController.GetSettings)
	admin.Put("/settings", adminController.UpdateSetting)
	admin.Get("/stats", adminController.GetStats)
}
