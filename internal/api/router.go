package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/hanifnaufal/chat-with-vid/internal/api/middleware"
	"github.com/hanifnaufal/chat-with-vid/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler     http.HandlerFunc
	CreateChatHandler http.HandlerFunc
	GetChatHandler    http.HandlerFunc
	ListChatsHandler  http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/v1/chats", orNotImplemented(deps.CreateChatHandler))
		r.Get("/api/v1/chats", orNotImplemented(deps.ListChatsHandler))
		r.Get("/api/v1/chats/{chatID}", orNotImplemented(deps.GetChatHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented")
	}
}
