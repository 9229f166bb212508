package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz_week/internal/api"
	"quiz_week/internal/app/service"
	"quiz_week/internal/app/worker"
	"quiz_week/internal/common/security"
	"quiz_week/internal/domain/repository"
	"quiz_week/internal/platform/config"
	"quiz_week/internal/platform/database"
	"quiz_week/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	questionRepo := repository.NewPgQuestionRepository(database.DB)
	resultRepo := repository.NewPgResultRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	questionService := service.NewQuestionService(questionRepo, config.AppConfig.TotalQuizSets)
	submissionService := service.NewSubmissionService(resultRepo, questionRepo, userRepo)
	reportService := service.NewReportService(resultRepo, questionRepo, userRepo)

	// 7. Initialize Weekly Cleanup Worker (as a goroutine)
	cleanupWorker := worker.NewCleanupWorker(queue.RDB, resultRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go cleanupWorker.Start(workerCtx)
	fmt.Println("Cleanup worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, questionService, submissionService, reportService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
