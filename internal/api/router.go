package api

import (
	"blog_api/internal/api/handler"
	"blog_api/internal/api/middleware"
	"blog_api/internal/app/service"
	"blog_api/internal/common/security"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	postService *service.PostService,
	loginLimiter *middleware.RateLimiter,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// JWT Auth Middleware Setup
	// It will search for a token in "Authorization: Bearer T".
	r.Use(jwtauth.Verifier(security.TokenAuth)) // Verifies token, puts claims in context

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Blog Post API - Welcome!"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(apiRouter chi.Router) {
		// Auth routes (public, login rate-limited)
		authHandler := handler.NewAuthHandler(authService)
		apiRouter.Route("/auth", func(authRouter chi.Router) {
			authHandler.RegisterRoutes(authRouter, loginLimiter)
		})

		// Post routes (reads public, mutations behind the gate)
		postHandler := handler.NewPostHandler(postService)
		apiRouter.Route("/post", postHandler.RegisterRoutes)
	})

	return r
}
