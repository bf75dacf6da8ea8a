package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktracker/internal/config"
	"tasktracker/internal/repository"
	"tasktracker/internal/server"
	"tasktracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL)
	taskSvc := service.NewTaskService(taskRepo)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.CleanupInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		purged, err := authSvc.PurgeExpiredSessions(jobCtx)
		if err != nil {
			log.Printf("[warn] purge sessions: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("[info] purged %d expired sessions", purged)
		}
	}); err != nil {
		log.Fatalf("schedule session cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := server.New(authSvc, taskSvc, &cfg)

	log.Println("Task tracker started.")
	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
