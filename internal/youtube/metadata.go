package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// VideoMetadata holds the subset of video metadata persisted on a chat.
type VideoMetadata struct {
	Title           string
	ChannelName     string
	PublicationDate *time.Time
	ViewCount       int64
	ThumbnailURL    string
}

// MetadataFetcher retrieves metadata for a video id.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (*VideoMetadata, error)
}

// YtDlpClient shells out to the yt-dlp binary for metadata extraction.
// Missing individual fields degrade to defaults; only a failed invocation is
// an error.
type YtDlpClient struct {
	binaryPath string
	timeout    time.Duration
}

// NewYtDlpClient creates a metadata client. binaryPath may be a bare name
// resolved via PATH.
func NewYtDlpClient(binaryPath string, timeout time.Duration) *YtDlpClient {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &YtDlpClient{binaryPath: binaryPath, timeout: timeout}
}

func (c *YtDlpClient) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	cmd := exec.CommandContext(ctx, c.binaryPath,
		"-J", "--skip-download", "--no-warnings", videoURL)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: yt-dlp: %v, stderr: %s",
			ErrMetadataFetch, err, strings.TrimSpace(stderr.String()))
	}

	meta, err := parseVideoInfo(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataFetch, err)
	}
	return meta, nil
}

// parseVideoInfo decodes yt-dlp -J output, defaulting absent fields.
func parseVideoInfo(data []byte) (*VideoMetadata, error) {
	var info struct {
		Title     string `json:"title"`
		Uploader  string `json:"uploader"`
		Timestamp *int64 `json:"timestamp"`
		ViewCount *int64 `json:"view_count"`
		Thumbnail string `json:"thumbnail"`
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding yt-dlp output: %w", err)
	}

	meta := &VideoMetadata{
		Title:        "Unknown Title",
		ChannelName:  "Unknown Channel",
		ThumbnailURL: info.Thumbnail,
	}
	if info.Title != "" {
		meta.Title = info.Title
	}
	if info.Uploader != "" {
		meta.ChannelName = info.Uploader
	}
	if info.ViewCount != nil {
		meta.ViewCount = *info.ViewCount
	}
	if info.Timestamp != nil && *info.Timestamp > 0 {
		t := time.Unix(*info.Timestamp, 0).UTC()
		meta.PublicationDate = &t
	}
	return meta, nil
}

// Compile-time check that YtDlpClient implements MetadataFetcher.
var _ MetadataFetcher = (*YtDlpClient)(nil)
