package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/database"
	"github.com/scholarity/scholarity-api/handlers"
	academic_handlers "github.com/scholarity/scholarity-api/handlers/academic"
	admin_handlers "github.com/scholarity/scholarity-api/handlers/admin"
	auth_handlers "github.com/scholarity/scholarity-api/handlers/auth"
	course_handlers "github.com/scholarity/scholarity-api/handlers/course"
	instructor_handlers "github.com/scholarity/scholarity-api/handlers/instructor"
	student_handlers "github.com/scholarity/scholarity-api/handlers/student"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/services/storage"
	"github.com/scholarity/scholarity-api/utils/auth"
	"github.com/scholarity/scholarity-api/utils/cache"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every endpoint with its middleware chain
func SetupRoutes(app *fiber.App, store database.Storage, spaces *storage.SpacesClient) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "scholarity-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis-backed brute force protection; disabled when Redis is down
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	var bruteForceProtection *middleware.BruteForceProtection
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	} else {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	instructorHandler := instructor_handlers.NewInstructorHandler(db, jwtManager)
	profileHandler := instructor_handlers.NewProfileHandler(db)
	studentHandler := student_handlers.NewProfileHandler(db)
	courseHandler := course_handlers.NewCourseHandler(db, spaces)
	academicHandler := academic_handlers.NewAcademicHandler(db)
	adminHandler := admin_handlers.NewAdminHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	authGroup.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Instructor application flow. Join is public (signup + application);
	// apply and verification-status need an authenticated account, active
	// or not.
	instructorGroup := api.Group("/instructor")
	instructorGroup.Post("/join", instructorHandler.Join)
	instructorGroup.Post("/apply", authMiddleware.Required(), instructorHandler.Apply)
	instructorGroup.Get("/verification-status", authMiddleware.Required(), instructorHandler.VerificationStatus)

	// Public browsing
	api.Get("/teachers", profileHandler.ListTeachers)
	api.Get("/courses", courseHandler.ListCourses)
	api.Get("/courses/:id", courseHandler.GetCourse)
	api.Get("/academic/categories", academicHandler.ListCategories)

	// Student routes: learner profile, active accounts only
	studentGroup := api.Group("/student",
		authMiddleware.Required(),
		authMiddleware.RequireRoles(rbac.RoleStudent),
		authMiddleware.ActiveOnly(),
	)
	studentGroup.Get("/profile", studentHandler.GetProfile)
	studentGroup.Put("/profile", studentHandler.UpsertProfile)

	// Teacher routes: instructor or admin, active accounts only
	teacherGroup := api.Group("/teacher",
		authMiddleware.Required(),
		authMiddleware.RequireRoles(rbac.RoleTeacher, rbac.RoleAdmin, rbac.RoleSuperAdmin),
		authMiddleware.ActiveOnly(),
	)
	teacherGroup.Get("/profile", profileHandler.GetProfile)
	teacherGroup.Put("/profile", profileHandler.UpsertProfile)
	teacherGroup.Get("/courses", courseHandler.MyCourses)
	teacherGroup.Post("/courses", courseHandler.CreateCourse)
	teacherGroup.Put("/courses/:id", courseHandler.UpdateCourse)
	teacherGroup.Delete("/courses/:id", courseHandler.DeleteCourse)
	teacherGroup.Post("/courses/:id/submit", courseHandler.SubmitCourse)
	teacherGroup.Post("/courses/:id/toggle", courseHandler.ToggleCourse)
	teacherGroup.Post("/courses/:id/thumbnail", courseHandler.UploadThumbnail)
	teacherGroup.Post("/courses/:id/units", courseHandler.AddUnit)
	teacherGroup.Post("/units/:id/lessons", courseHandler.AddLesson)
	teacherGroup.Put("/lessons/:id", courseHandler.UpdateLesson)
	teacherGroup.Post("/academic/requests", academicHandler.RequestItem)

	// Admin routes
	adminGroup := api.Group("/admin",
		authMiddleware.Required(),
		authMiddleware.RequireAdmin(),
		authMiddleware.ActiveOnly(),
	)

	// Instructor application review
	adminGroup.Get("/instructor/applications", instructorHandler.ListApplications)
	adminGroup.Patch("/instructor/applications/:id",
		middleware.AdminAudit(db, "application_review", "applications"),
		instructorHandler.Review)

	// Course moderation
	adminGroup.Get("/courses", courseHandler.AdminCourses)
	adminGroup.Get("/courses/pending", courseHandler.PendingCourses)
	adminGroup.Get("/courses/:id/logs", courseHandler.CourseLogs)
	adminGroup.Post("/courses/:id/approve",
		middleware.AdminAudit(db, "course_approve", "courses"),
		courseHandler.ApproveCourse)
	adminGroup.Post("/courses/:id/reject",
		middleware.AdminAudit(db, "course_reject", "courses"),
		courseHandler.RejectCourse)
	adminGroup.Post("/courses/:id/toggle",
		middleware.AdminAudit(db, "course_toggle", "courses"),
		courseHandler.ToggleCourse)
	adminGroup.Put("/courses/:id",
		middleware.AdminAudit(db, "course_update", "courses"),
		courseHandler.UpdateCourse)
	adminGroup.Delete("/courses/:id",
		middleware.AdminAudit(db, "course_delete", "courses"),
		courseHandler.DeleteCourse)
	adminGroup.Post("/courses/bulk-delete",
		middleware.AdminAudit(db, "course_bulk_delete", "courses"),
		courseHandler.BulkDeleteCourses)

	// User management
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/users/:id", adminHandler.GetUser)
	adminGroup.Post("/users/:id/toggle",
		middleware.AdminAudit(db, "user_toggle", "users"),
		adminHandler.ToggleUserActive)
	adminGroup.Patch("/users/:id/role",
		middleware.AdminAudit(db, "role_change", "users"),
		adminHandler.ChangeUserRole)
	adminGroup.Delete("/users/:id",
		middleware.AdminAudit(db, "user_delete", "users"),
		adminHandler.DeleteUser)
	adminGroup.Get("/students", studentHandler.ListStudents)
	adminGroup.Get("/roles", adminHandler.ListRoles)
	adminGroup.Get("/audit-logs", adminHandler.ListAuditLogs)

	// Taxonomy management
	adminGroup.Post("/academic/categories",
		middleware.AdminAudit(db, "category_create", "categories"),
		academicHandler.CreateCategory)
	adminGroup.Put("/academic/categories/:id",
		middleware.AdminAudit(db, "category_update", "categories"),
		academicHandler.UpdateCategory)
	adminGroup.Delete("/academic/categories/:id",
		middleware.AdminAudit(db, "category_delete", "categories"),
		academicHandler.DeleteCategory)
	adminGroup.Post("/academic/categories/bulk-delete",
		middleware.AdminAudit(db, "category_bulk_delete", "categories"),
		academicHandler.BulkDeleteCategories)
	adminGroup.Post("/academic/subjects",
		middleware.AdminAudit(db, "subject_create", "subjects"),
		academicHandler.CreateSubject)
	adminGroup.Put("/academic/subjects/:id",
		middleware.AdminAudit(db, "subject_update", "subjects"),
		academicHandler.UpdateSubject)
	adminGroup.Delete("/academic/subjects/:id",
		middleware.AdminAudit(db, "subject_delete", "subjects"),
		academicHandler.DeleteSubject)
	adminGroup.Get("/academic/requests", academicHandler.ListRequests)
	adminGroup.Patch("/academic/requests/:id",
		middleware.AdminAudit(db, "taxonomy_request_resolve", "requests"),
		academicHandler.ResolveTaxonomyRequest)
}
