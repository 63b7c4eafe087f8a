package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hanifnaufal/chat-with-vid/pkg/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const chatColumns = `id, source_url, source_type, video_id, status, title, channel_name,
	publication_date, view_count, thumbnail_url, transcript, error_message,
	generated_summary, actionable_items, suggested_questions,
	processing_started_at, created_at, updated_at`

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) CreateChat(ctx context.Context, sourceURL, sourceType, videoID string) (*models.Chat, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO chats (id, source_url, source_type, video_id, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+chatColumns,
		uuid.New(), sourceURL, sourceType, videoID, models.ChatStatusProcessing)

	chat, err := scanChat(row)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

func (s *PostgresStore) GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE id = $1`, id)

	chat, err := scanChat(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return chat, nil
}

func (s *PostgresStore) UpdateChat(ctx context.Context, id uuid.UUID, opts ...ChatUpdateOption) error {
	params := ApplyChatUpdates(opts...)

	query := `UPDATE chats SET updated_at = $2`
	args := []any{id, time.Now().UTC()}
	argIdx := 3

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		set("status", *params.Status)
	}
	if params.Transcript != nil {
		set("transcript", *params.Transcript)
	}
	if params.ErrorMessage != nil {
		set("error_message", *params.ErrorMessage)
	}
	if params.Title != nil {
		set("title", *params.Title)
	}
	if params.ChannelName != nil {
		set("channel_name", *params.ChannelName)
	}
	if params.PublicationDate != nil {
		set("publication_date", *params.PublicationDate)
	}
	if params.ViewCount != nil {
		set("view_count", *params.ViewCount)
	}
	if params.ThumbnailURL != nil {
		set("thumbnail_url", *params.ThumbnailURL)
	}
	if params.ProcessingStartedAt != nil {
		set("processing_started_at", *params.ProcessingStartedAt)
	}

	query += " WHERE id = $1"

	// Absent ids affect zero rows; that is deliberately not an error.
	_, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update chat: %w", err)
	}
	return nil
}

func scanChat(row pgx.Row) (*models.Chat, error) {
	var c models.Chat
	err := row.Scan(&c.ID, &c.SourceURL, &c.SourceType, &c.VideoID, &c.Status,
		&c.Title, &c.ChannelName, &c.PublicationDate, &c.ViewCount,
		&c.ThumbnailURL, &c.Transcript, &c.ErrorMessage, &c.GeneratedSummary,
		&c.ActionableItems, &c.SuggestedQuestions, &c.ProcessingStartedAt,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
