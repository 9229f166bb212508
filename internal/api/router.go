package api

import (
	"net/http"
	"time"

	"quiz_week/internal/api/handler"
	"quiz_week/internal/app/service"
	"quiz_week/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	questionService *service.QuestionService,
	submissionService *service.SubmissionService,
	reportService *service.ReportService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token from "Authorization: Bearer T" and puts
	// claims in context; Authenticator enforces it per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Quiz routes (authenticated): active sets, questions, submit
		quizHandler := handler.NewQuizHandler(questionService, submissionService)
		v1.Route("/quiz", quizHandler.RegisterRoutes)

		// Question management (admin)
		questionHandler := handler.NewQuestionHandler(questionService)
		v1.Route("/questions", questionHandler.RegisterRoutes)

		// User profile + admin user management
		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", userHandler.RegisterRoutes)

		// Reports (admin)
		reportHandler := handler.NewReportHandler(reportService)
		v1.Route("/reports", reportHandler.RegisterRoutes)
	})

	return r
}
