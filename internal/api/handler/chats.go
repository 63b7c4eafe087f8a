package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hanifnaufal/chat-with-vid/internal/api/response"
	"github.com/hanifnaufal/chat-with-vid/internal/chat"
	"github.com/hanifnaufal/chat-with-vid/internal/store"
	"github.com/hanifnaufal/chat-with-vid/pkg/models"
)

// youtubeURLPattern accepts the usual YouTube URL shapes (watch, embed, short
// links) with an 11-character video id.
var youtubeURLPattern = regexp.MustCompile(
	`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%?]{11})`)

// ChatStarter creates a chat and schedules its background processing.
type ChatStarter interface {
	StartChat(ctx context.Context, sourceURL, sourceType string) (uuid.UUID, error)
}

// ChatReader returns a chat in whatever state it is currently in.
type ChatReader interface {
	GetChat(ctx context.Context, id string) (*models.Chat, error)
}

// NewCreateChatHandler returns an http.HandlerFunc for POST /api/v1/chats.
// The response carries only the chat id; processing happens in the background
// and the client polls for results.
func NewCreateChatHandler(svc ChatStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SourceURL  string `json:"source_url"`
			SourceType string `json:"source_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
				"Invalid JSON body")
			return
		}

		if req.SourceURL == "" {
			response.Error(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
				"source_url is required")
			return
		}
		u, err := url.Parse(req.SourceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			response.Error(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
				"source_url must be an absolute http or https URL")
			return
		}

		if !youtubeURLPattern.MatchString(req.SourceURL) {
			response.Error(w, http.StatusBadRequest, "INVALID_URL",
				"Invalid YouTube URL")
			return
		}

		chatID, err := svc.StartChat(r.Context(), req.SourceURL, req.SourceType)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred")
			return
		}

		response.Accepted(w, map[string]string{"chat_id": chatID.String()})
	}
}

// NewGetChatHandler returns an http.HandlerFunc for GET /api/v1/chats/{chatID}.
func NewGetChatHandler(svc ChatReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")

		c, err := svc.GetChat(r.Context(), chatID)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrInvalidChatID):
				response.Error(w, http.StatusBadRequest, "INVALID_CHAT_ID",
					"Chat id is not a valid identifier")
			case errors.Is(err, store.ErrNotFound):
				response.Error(w, http.StatusNotFound, "CHAT_NOT_FOUND",
					"No chat exists with the given id")
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred")
			}
			return
		}

		response.JSON(w, c)
	}
}

// NewListChatsHandler returns the GET /api/v1/chats placeholder.
func NewListChatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, map[string]any{"chats": []any{}})
	}
}
