package http

import (
	"net/http"

	"github.com/atinyakov/moodpair/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the mood-journal API.
// It applies JSON content-type enforcement, request logging, and
// session-cookie resolution, and mounts all routes under /api.
//
// Session resolution is permissive here: handlers answer anonymous
// reads with empty data and gate mutations themselves.
func NewRouter(
	authHandler *AuthHandler,
	moodHandler *MoodHandler,
	taskHandler *TaskHandler,
	coupleHandler *CoupleHandler,
	resolver middleware.SessionResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Resolve the session cookie into a user id in context
	r.Use(middleware.WithSession(resolver))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/profile", authHandler.Profile)
		})

		r.Route("/moods", func(r chi.Router) {
			r.Get("/", moodHandler.List)
			r.Post("/", moodHandler.Create)
			r.Get("/analytics", moodHandler.MonthlyAnalytics)
			r.Put("/{id}", moodHandler.Update)
			r.Delete("/{id}", moodHandler.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/month", taskHandler.ListMonth)
			r.Patch("/{id}", taskHandler.SetDone)
			r.Delete("/{id}", taskHandler.Delete)
		})

		r.Route("/couple-spaces", func(r chi.Router) {
			r.Get("/", coupleHandler.ListSpaces)
			r.Post("/", coupleHandler.CreateSpace)
			r.Patch("/{id}", coupleHandler.UpdateSpace)
			r.Delete("/{id}", coupleHandler.DeleteSpace)
		})

		r.Route("/couple-moods", func(r chi.Router) {
			r.Get("/", coupleHandler.ListMoods)
			r.Post("/", coupleHandler.CreateMood)
			r.Put("/{id}", coupleHandler.UpdateMood)
			r.Delete("/{id}", coupleHandler.DeleteMood)
		})

		r.Get("/users/search", authHandler.Search)
	})

	return r
}
