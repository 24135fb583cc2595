package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andy11223386/akashicConnect/internal/handler"
	"github.com/andy11223386/akashicConnect/internal/httputil"
	"github.com/andy11223386/akashicConnect/internal/metrics"
	authmw "github.com/andy11223386/akashicConnect/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	TweetHandler   *handler.TweetHandler
	CommentHandler *handler.CommentHandler
	MediaHandler   *handler.MediaHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(authmw.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	requireAuth := authmw.AuthMiddleware(cfg.JWTSecret)
	optionalAuth := authmw.OptionalAuthMiddleware(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		// Public routes - no authentication required
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh", cfg.AuthHandler.Refresh)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.GetProfile)
			r.Get("/tweets", cfg.TweetHandler.ListByUser)
			r.With(requireAuth).Patch("/", cfg.UserHandler.UpdateProfile)
			r.With(requireAuth).Put("/avatar", cfg.UserHandler.UploadAvatar)
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/", cfg.TweetHandler.List)
			r.Post("/history", cfg.TweetHandler.History)
			r.With(requireAuth).Post("/", cfg.TweetHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				// Viewer identity is recorded on view events when present.
				r.With(optionalAuth).Get("/", cfg.TweetHandler.Get)
				r.Get("/comments", cfg.TweetHandler.Comments)
				r.With(requireAuth).Post("/like", cfg.TweetHandler.Like)
				r.With(requireAuth).Post("/retweet", cfg.TweetHandler.Retweet)
			})
		})

		r.With(optionalAuth).Post("/comments", cfg.CommentHandler.Create)

		// Media endpoints (direct-to-R2 uploads)
		r.With(requireAuth).Post("/media/tweets/presign", cfg.MediaHandler.PresignTweetImage)
	})

	return r
}
