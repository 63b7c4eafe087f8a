// Package chat orchestrates the chat lifecycle: a synchronous create path
// that returns immediately, a background task that populates the record, and
// a read path that tolerates observing any state.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hanifnaufal/chat-with-vid/internal/store"
	"github.com/hanifnaufal/chat-with-vid/internal/youtube"
	"github.com/hanifnaufal/chat-with-vid/pkg/models"
)

var ErrInvalidChatID = errors.New("invalid chat id")

const defaultSourceType = "YOUTUBE"

// Enqueuer schedules a background population task.
type Enqueuer interface {
	Enqueue(task Task) bool
}

// Service coordinates the store, the fetchers, and the work queue.
type Service struct {
	store       store.Store
	transcripts youtube.TranscriptFetcher
	metadata    youtube.MetadataFetcher
	queue       Enqueuer
}

// NewService creates a chat service with all collaborators injected.
func NewService(s store.Store, transcripts youtube.TranscriptFetcher, metadata youtube.MetadataFetcher, queue Enqueuer) *Service {
	return &Service{
		store:       s,
		transcripts: transcripts,
		metadata:    metadata,
		queue:       queue,
	}
}

// StartChat creates the chat record and schedules background processing.
// It returns the new chat id without waiting for the background task.
// Extraction failure here is not fatal; the stored video_id falls back to the
// unknown sentinel and the background task decides terminally.
func (s *Service) StartChat(ctx context.Context, sourceURL, sourceType string) (uuid.UUID, error) {
	if sourceType == "" {
		sourceType = defaultSourceType
	}

	videoID, err := youtube.ExtractVideoID(sourceURL)
	if err != nil {
		slog.Warn("could not extract video id at creation", "source_url", sourceURL, "error", err)
		videoID = models.UnknownVideoID
	}

	chat, err := s.store.CreateChat(ctx, sourceURL, sourceType, videoID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create chat: %w", err)
	}

	if !s.queue.Enqueue(Task{ChatID: chat.ID, SourceURL: sourceURL}) {
		slog.Error("task queue full, chat left in processing", "chat_id", chat.ID)
	}

	slog.Info("chat created", "chat_id", chat.ID, "video_id", videoID, "source_type", sourceType)
	return chat.ID, nil
}

// GetChat validates the id before any store access and returns the chat in
// whatever state it is currently in.
func (s *Service) GetChat(ctx context.Context, idStr string) (*models.Chat, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChatID, idStr)
	}
	return s.store.GetChat(ctx, id)
}

// ProcessVideo is the background task body. It mutates the chat exactly once
// to a terminal state: complete with all fetched fields, or error with an
// error message. Failures are never propagated to a caller.
func (s *Service) ProcessVideo(ctx context.Context, chatID uuid.UUID, sourceURL string) {
	slog.Info("processing video", "chat_id", chatID, "source_url", sourceURL)

	startedAt := time.Now().UTC()
	if err := s.store.UpdateChat(ctx, chatID, store.WithProcessingStartedAt(startedAt)); err != nil {
		slog.Error("could not record processing start", "chat_id", chatID, "error", err)
	}

	// Hard failure this time, unlike the create path.
	videoID, err := youtube.ExtractVideoID(sourceURL)
	if err != nil {
		s.failChat(ctx, chatID, err)
		return
	}

	transcript, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		s.failChat(ctx, chatID, err)
		return
	}
	slog.Debug("transcript retrieved", "chat_id", chatID, "transcript_length", len(transcript))

	meta, err := s.metadata.Fetch(ctx, videoID)
	if err != nil {
		s.failChat(ctx, chatID, err)
		return
	}

	err = s.store.UpdateChat(ctx, chatID,
		store.WithStatus(models.ChatStatusComplete),
		store.WithTranscript(transcript),
		store.WithTitle(meta.Title),
		store.WithChannelName(meta.ChannelName),
		store.WithPublicationDate(meta.PublicationDate),
		store.WithViewCount(meta.ViewCount),
		store.WithThumbnailURL(meta.ThumbnailURL),
	)
	if err != nil {
		slog.Error("could not store processing results", "chat_id", chatID, "error", err)
		return
	}

	slog.Info("chat processed", "chat_id", chatID, "status", models.ChatStatusComplete)
}

// failChat writes the terminal error state. The message stays human-readable
// since polling the record is the only failure channel.
func (s *Service) failChat(ctx context.Context, chatID uuid.UUID, cause error) {
	msg := fmt.Sprintf("Error processing video: %v", cause)
	if !isVideoError(cause) {
		msg = fmt.Sprintf("Unexpected error: %v", cause)
	}
	slog.Error("video processing failed", "chat_id", chatID, "error", cause)

	err := s.store.UpdateChat(ctx, chatID,
		store.WithStatus(models.ChatStatusError),
		store.WithErrorMessage(msg),
	)
	if err != nil {
		slog.Error("could not store error state", "chat_id", chatID, "error", err)
	}
}

func isVideoError(err error) bool {
	return errors.Is(err, youtube.ErrInvalidURL) ||
		errors.Is(err, youtube.ErrVideoUnavailable) ||
		errors.Is(err, youtube.ErrTranscriptsDisabled) ||
		errors.Is(err, youtube.ErrNoTranscript) ||
		errors.Is(err, youtube.ErrTranscriptFetch) ||
		errors.Is(err, youtube.ErrMetadataFetch)
}

// Compile-time check that Service can drive the queue workers.
var _ Processor = (*Service)(nil)
