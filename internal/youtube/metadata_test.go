package youtube

import (
	"testing"
	"time"
)

func TestParseVideoInfo_AllFields(t *testing.T) {
	data := []byte(`{
		"title": "Test Video",
		"uploader": "Test Channel",
		"timestamp": 1700000000,
		"view_count": 1000,
		"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hq720.jpg"
	}`)

	meta, err := parseVideoInfo(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "Test Video" {
		t.Errorf("title: got %q", meta.Title)
	}
	if meta.ChannelName != "Test Channel" {
		t.Errorf("channel: got %q", meta.ChannelName)
	}
	if meta.ViewCount != 1000 {
		t.Errorf("view count: got %d", meta.ViewCount)
	}
	if meta.ThumbnailURL != "https://i.ytimg.com/vi/dQw4w9WgXcQ/hq720.jpg" {
		t.Errorf("thumbnail: got %q", meta.ThumbnailURL)
	}
	want := time.Unix(1700000000, 0).UTC()
	if meta.PublicationDate == nil || !meta.PublicationDate.Equal(want) {
		t.Errorf("publication date: got %v, want %v", meta.PublicationDate, want)
	}
}

func TestParseVideoInfo_MissingFieldsDefault(t *testing.T) {
	meta, err := parseVideoInfo([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "Unknown Title" {
		t.Errorf("title: got %q", meta.Title)
	}
	if meta.ChannelName != "Unknown Channel" {
		t.Errorf("channel: got %q", meta.ChannelName)
	}
	if meta.ViewCount != 0 {
		t.Errorf("view count: got %d", meta.ViewCount)
	}
	if meta.ThumbnailURL != "" {
		t.Errorf("thumbnail: got %q", meta.ThumbnailURL)
	}
	if meta.PublicationDate != nil {
		t.Errorf("publication date: got %v, want nil", meta.PublicationDate)
	}
}

func TestParseVideoInfo_ZeroTimestampStaysNull(t *testing.T) {
	meta, err := parseVideoInfo([]byte(`{"timestamp": 0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.PublicationDate != nil {
		t.Errorf("publication date: got %v, want nil", meta.PublicationDate)
	}
}

func TestParseVideoInfo_InvalidJSON(t *testing.T) {
	if _, err := parseVideoInfo([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
