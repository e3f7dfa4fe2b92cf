package http

import (
	"net/http"

	"github.com/avdeyev/burnscan/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the classification API.
//
// Routes:
//
//	POST /login                       → authHandler.Login
//	POST /register                    → authHandler.Register
//	POST /predict                     → classificationHandler.Predict (bearer)
//	GET  /classifications/{user_id}   → classificationHandler.History (bearer)
//	POST /feedback                    → classificationHandler.Feedback (bearer)
//
// JSON routes enforce Content-Type: application/json; /predict accepts
// multipart uploads and is exempt. Protected routes run behind BearerAuth,
// which resolves the token to a live user before the handler executes.
func NewRouter(
	authHandler *AuthHandler,
	classificationHandler *ClassificationHandler,
	resolver middleware.CallerResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
	})

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(resolver))

		r.Post("/predict", classificationHandler.Predict)
		r.Get("/classifications/{user_id}", classificationHandler.History)
		r.With(chiMiddleware.AllowContentType("application/json")).
			Post("/feedback", classificationHandler.Feedback)
	})

	return r
}
