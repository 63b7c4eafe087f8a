package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hanifnaufal/chat-with-vid/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// CreateChat inserts a chat in processing status and returns the full row.
	CreateChat(ctx context.Context, sourceURL, sourceType, videoID string) (*models.Chat, error)
	// GetChat returns ErrNotFound when the id is absent.
	GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	// UpdateChat applies only the supplied fields. Updating an absent id is a
	// silent no-op; last write wins.
	UpdateChat(ctx context.Context, id uuid.UUID, opts ...ChatUpdateOption) error
}

// ChatUpdateParams collects the fields an UpdateChat call sets. Exported so
// store doubles in tests can observe what would be written.
type ChatUpdateParams struct {
	Status              *string
	Transcript          *string
	ErrorMessage        *string
	Title               *string
	ChannelName         *string
	PublicationDate     *time.Time
	ViewCount           *int64
	ThumbnailURL        *string
	ProcessingStartedAt *time.Time
}

type ChatUpdateOption func(*ChatUpdateParams)

// ApplyChatUpdates folds opts into a params struct.
func ApplyChatUpdates(opts ...ChatUpdateOption) *ChatUpdateParams {
	params := &ChatUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}
	return params
}

func WithStatus(status string) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.Status = &status }
}

func WithTranscript(transcript string) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.Transcript = &transcript }
}

func WithErrorMessage(msg string) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.ErrorMessage = &msg }
}

func WithTitle(title string) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.Title = &title }
}

func WithChannelName(name string) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.ChannelName = &name }
}

// WithPublicationDate accepts nil so an absent upstream timestamp stays null.
func WithPublicationDate(date *time.Time) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.PublicationDate = date }
}

func WithViewCount(count int64) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.ViewCount = &count }
}

func WithThumbnailURL(url string) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.ThumbnailURL = &url }
}

func WithProcessingStartedAt(t time.Time) ChatUpdateOption {
	return func(p *ChatUpdateParams) { p.ProcessingStartedAt = &t }
}
