package youtube

import (
	"fmt"
	"regexp"
)

// videoIDPattern matches the 11-character video id following a v= query
// parameter or a path segment (youtu.be/, /embed/, /v/).
var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// ExtractVideoID pulls the video id out of a YouTube URL.
func ExtractVideoID(url string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	return m[1], nil
}
