package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nizar-zouaoui/my-todos-personal/internal/api/handlers"
	"github.com/nizar-zouaoui/my-todos-personal/internal/api/middleware"
	"github.com/nizar-zouaoui/my-todos-personal/internal/config"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
	"github.com/nizar-zouaoui/my-todos-personal/internal/ws"
)

func NewRouter(services *service.Services, cfg *config.Config, hub *ws.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	todoHandler := handlers.NewTodoHandler(services.Todo)
	friendHandler := handlers.NewFriendHandler(services.Friend)
	pushHandler := handlers.NewPushHandler(services.Notification, cfg.VAPIDPublicKey)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/send-code", authHandler.SendCode)
			r.Get("/code-status", authHandler.CodeStatus)
			r.Post("/verify", authHandler.Verify)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", userHandler.GetProfile)
				r.Put("/", userHandler.UpdateProfile)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/search", userHandler.Search)
				r.Get("/{userID}/public", userHandler.GetPublicProfile)
			})

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", todoHandler.List)
				r.Post("/", todoHandler.Create)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", todoHandler.Get)
					r.Patch("/", todoHandler.Update)
					r.Delete("/", todoHandler.Delete)
					r.Post("/toggle", todoHandler.Toggle)
					r.Post("/mute", todoHandler.ToggleMute)

					r.Route("/collaborators", func(r chi.Router) {
						r.Get("/", todoHandler.ListCollaborators)
						r.Post("/{userID}", todoHandler.AddCollaborator)
						r.Delete("/{userID}", todoHandler.RemoveCollaborator)
					})
				})
			})

			r.Route("/friends", func(r chi.Router) {
				r.Get("/", friendHandler.ListFriends)
				r.Delete("/{userID}", friendHandler.RemoveFriend)

				r.Route("/requests", func(r chi.Router) {
					r.Get("/", friendHandler.ListPendingRequests)
					r.Post("/", friendHandler.SendRequest)
					r.Get("/sent", friendHandler.ListSentRequests)
					r.Post("/{requestID}/accept", friendHandler.AcceptRequest)
					r.Post("/{requestID}/decline", friendHandler.DeclineRequest)
				})
			})

			r.Route("/push", func(r chi.Router) {
				r.Post("/subscribe", pushHandler.Subscribe)
				r.Post("/unsubscribe", pushHandler.Unsubscribe)
				r.Get("/status", pushHandler.Status)
				r.Post("/send-test", pushHandler.SendTest)
			})
		})
	})

	return r
}
