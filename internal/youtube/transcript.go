package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// TranscriptFetcher retrieves the full transcript text for a video id.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// TranscriptClient fetches captions through YouTube's InnerTube player
// endpoint: one call to resolve the available caption tracks, one to download
// the chosen track as json3, flattened into newline-joined text.
type TranscriptClient struct {
	baseURL        string
	preferredLangs []string
	client         *http.Client
}

// NewTranscriptClient creates a transcript client. preferredLangs are tried in
// order; if none matches, the first available track is used.
func NewTranscriptClient(baseURL string, preferredLangs []string, timeout time.Duration) *TranscriptClient {
	return &TranscriptClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		preferredLangs: preferredLangs,
		client:         &http.Client{Timeout: timeout},
	}
}

func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	tracks, err := c.listCaptionTracks(ctx, videoID)
	if err != nil {
		return "", err
	}

	track := c.pickTrack(tracks)
	text, err := c.fetchTrack(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: video %s", ErrNoTranscript, videoID)
	}
	return text, nil
}

func (c *TranscriptClient) listCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := json.Marshal(playerRequest{
		Context: innertubeContext{Client: innertubeClient{
			ClientName:    "ANDROID",
			ClientVersion: "20.10.38",
		}},
		VideoID: videoID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal player request: %w", err)
	}

	u := c.baseURL + "/youtubei/v1/player"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: player endpoint status %d", ErrTranscriptFetch, resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decoding player response: %w", err)
	}

	switch player.PlayabilityStatus.Status {
	case "", "OK":
	default:
		return nil, fmt.Errorf("%w: video %s (%s)", ErrVideoUnavailable, videoID,
			player.PlayabilityStatus.Status)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: video %s", ErrTranscriptsDisabled, videoID)
	}
	return tracks, nil
}

// pickTrack returns the first track matching a preferred language, falling
// back to whatever is available.
func (c *TranscriptClient) pickTrack(tracks []captionTrack) captionTrack {
	for _, lang := range c.preferredLangs {
		for _, t := range tracks {
			if t.LanguageCode == lang || strings.HasPrefix(t.LanguageCode, lang+"-") {
				return t
			}
		}
	}
	return tracks[0]
}

func (c *TranscriptClient) fetchTrack(ctx context.Context, trackURL string) (string, error) {
	sep := "?"
	if strings.Contains(trackURL, "?") {
		sep = "&"
	}
	u := trackURL + sep + "fmt=json3"
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = c.baseURL + u
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: caption track status %d", ErrTranscriptFetch, resp.StatusCode)
	}

	var track trackResponse
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		return "", fmt.Errorf("decoding caption track: %w", err)
	}

	var lines []string
	for _, ev := range track.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// classifyError maps transport-level errors onto the fetch sentinel so the
// orchestrator sees a single error kind carrying the cause.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: timeout: %v", ErrTranscriptFetch, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrTranscriptFetch, err)
	}
	return fmt.Errorf("%w: %v", ErrTranscriptFetch, err)
}

// --- InnerTube request/response types ---

type playerRequest struct {
	Context innertubeContext `json:"context"`
	VideoID string           `json:"videoId"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type trackResponse struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Compile-time check that TranscriptClient implements TranscriptFetcher.
var _ TranscriptFetcher = (*TranscriptClient)(nil)
