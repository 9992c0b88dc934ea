package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nizar-zouaoui/my-todos-personal/internal/api"
	"github.com/nizar-zouaoui/my-todos-personal/internal/config"
	"github.com/nizar-zouaoui/my-todos-personal/internal/mailer"
	"github.com/nizar-zouaoui/my-todos-personal/internal/push"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository/memory"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository/postgres"
	"github.com/nizar-zouaoui/my-todos-personal/internal/scheduler"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
	"github.com/nizar-zouaoui/my-todos-personal/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize repositories: postgres when a database is configured,
	// otherwise the in-memory store.
	var repos *repository.Repositories
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		repos = postgres.NewRepositories(db)
		log.Println("Using postgres storage")
	} else {
		repos = memory.NewRepositories()
		log.Println("DATABASE_URL not set, using in-memory storage")
	}

	// Initialize mailer
	var mail mailer.Mailer
	if cfg.SendGridAPIKey != "" {
		mail = mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFrom)
	} else {
		mail = mailer.LogMailer{}
		log.Println("SENDGRID_API_KEY not set, login codes will be logged")
	}

	// Initialize web push
	var sender push.Sender
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		webpushSender, err := push.NewWebPushSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
		if err != nil {
			log.Fatalf("failed to initialize web push: %v", err)
		}
		sender = webpushSender
	} else {
		log.Println("VAPID keys not set, web push disabled")
	}

	// Initialize WebSocket hub
	hub := ws.NewHub()

	// Initialize services
	services := service.NewServices(repos, cfg, mail, sender, hub)

	// Initialize router
	router := api.NewRouter(services, cfg, hub)

	// Background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	sched := scheduler.New()
	sched.Add("reminder-sweep", cfg.ReminderInterval, func(ctx context.Context) error {
		_, err := services.Reminder.ProcessDue(ctx)
		return err
	})
	sched.Add("code-cleanup", cfg.CodeCleanupInterval, func(ctx context.Context) error {
		return services.Auth.CleanupExpiredCodes(ctx)
	})
	sched.Start(jobCtx)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	cancelJobs()
	sched.Wait()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
