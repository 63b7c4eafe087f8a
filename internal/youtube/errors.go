package youtube

import "errors"

var (
	ErrInvalidURL          = errors.New("invalid youtube url")
	ErrVideoUnavailable    = errors.New("video unavailable")
	ErrTranscriptsDisabled = errors.New("transcripts disabled for video")
	ErrNoTranscript        = errors.New("no transcript available in any language")
	ErrTranscriptFetch     = errors.New("transcript fetch failed")
	ErrMetadataFetch       = errors.New("metadata fetch failed")
)
