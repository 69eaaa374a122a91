package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/noteflow-api/internal/api"
	apiMiddleware "github.com/phrazzld/noteflow-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService)
	noteHandler := api.NewNoteHandler(app.noteService)
	subscriptionHandler := api.NewSubscriptionHandler(app.subscriptionService, app.scheduler)
	notificationHandler := api.NewNotificationHandler(app.scheduler, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	adminMiddleware := apiMiddleware.NewAdminMiddleware(app.config.Auth.AdminToken)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			// Note endpoints
			r.Post("/notes", noteHandler.Create)
			r.Get("/notes", noteHandler.List)
			r.Get("/notes/{id}", noteHandler.Get)
			r.Put("/notes/{id}", noteHandler.Update)
			r.Delete("/notes/{id}", noteHandler.Delete)
			r.Get("/search", noteHandler.Search)

			// Push subscription endpoints
			r.Post("/notifications/subscribe", subscriptionHandler.Subscribe)
			r.Post("/notifications/unsubscribe", subscriptionHandler.Unsubscribe)
			r.Get("/notifications/subscriptions", subscriptionHandler.List)
			r.Post("/notifications/test", subscriptionHandler.SendTest)
		})

		// Admin routes, guarded by the static admin token instead of user JWTs
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware.Authorize)

			r.Post("/admin/notifications/run", notificationHandler.Run)
			r.Get("/admin/notifications/status", notificationHandler.Status)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
