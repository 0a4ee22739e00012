package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskstack/api/internal/core/ports"
)

func NewHandler(userHandler *UserHandler, taskHandler *TaskHandler, auth ports.AuthService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	requireAuth := AuthMiddleware(auth)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Signup)
		r.Post("/login", userHandler.Login)
		r.Get("/{id}/avatar", userHandler.GetAvatar)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", userHandler.Logout)
			r.Post("/logout-all", userHandler.LogoutAll)
			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.PatchMe)
			r.Delete("/me", userHandler.DeleteMe)
			r.Post("/me/avatar", userHandler.UploadAvatar)
			r.Delete("/me/avatar", userHandler.DeleteAvatar)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/{id}", taskHandler.Get)
		r.Patch("/{id}", taskHandler.Patch)
		r.Delete("/{id}", taskHandler.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"title":   "Page not found",
			"message": "Looks like you're looking for a page that doesn't exist :(",
		})
	})

	return r
}
