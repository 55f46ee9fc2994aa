package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/apperror"
	"github.com/BuzzLyutic/task-tracker-api/pkg/respond"
)

// NewRouter собирает маршруты API. authenticate может быть nil, тогда
// маршруты задач доступны без токена.
func NewRouter(tasks *TaskHandler, dispatcher *apperror.Dispatcher, authenticate func(http.Handler) http.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dispatcher.Dispatch(w, r, apperror.FromKey(apperror.KeyRouteNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dispatcher.Dispatch(w, r, apperror.FromKey(apperror.KeyMethodNotAllowed))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/tasks", func(r chi.Router) {
		if authenticate != nil {
			r.Use(authenticate)
		} else {
			logger.Warn("task routes are served without authentication")
		}
		r.Post("/", tasks.Create)
		r.Get("/", tasks.List)
		r.Delete("/", tasks.DeleteBatch)
		r.Get("/{id}", tasks.Get)
		r.Patch("/{id}", tasks.Update)
		r.Put("/{id}", tasks.Update)
		r.Delete("/{id}", tasks.Delete)
	})

	return r
}
