package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ChatStatusProcessing = "processing"
	ChatStatusComplete   = "complete"
	ChatStatusError      = "error"
)

// UnknownVideoID is stored when extraction fails on the create path.
// The background task re-extracts and treats failure as terminal there.
const UnknownVideoID = "unknown"

// Chat tracks one video's processing lifecycle. The API returns a chat_id on
// POST /api/v1/chats; the client polls GET /api/v1/chats/{chat_id} until
// status is complete or error.
type Chat struct {
	ID                  uuid.UUID       `db:"id"                    json:"id"`
	SourceURL           string          `db:"source_url"            json:"source_url"`
	SourceType          string          `db:"source_type"           json:"source_type"`
	VideoID             string          `db:"video_id"              json:"video_id"`
	Status              string          `db:"status"                json:"status"`
	Title               *string         `db:"title"                 json:"title"`
	ChannelName         *string         `db:"channel_name"          json:"channel_name"`
	PublicationDate     *time.Time      `db:"publication_date"      json:"publication_date"`
	ViewCount           *int64          `db:"view_count"            json:"view_count"`
	ThumbnailURL        *string         `db:"thumbnail_url"         json:"thumbnail_url"`
	Transcript          *string         `db:"transcript"            json:"transcript"`
	ErrorMessage        *string         `db:"error_message"         json:"error_message"`
	GeneratedSummary    *string         `db:"generated_summary"     json:"generated_summary"`
	ActionableItems     json.RawMessage `db:"actionable_items"      json:"actionable_items"`
	SuggestedQuestions  json.RawMessage `db:"suggested_questions"   json:"suggested_questions"`
	ProcessingStartedAt *time.Time      `db:"processing_started_at" json:"processing_started_at,omitempty"`
	CreatedAt           time.Time       `db:"created_at"            json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"            json:"updated_at"`
}
