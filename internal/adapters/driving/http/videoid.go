package http

import (
	"fmt"
	"regexp"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// URL shapes YouTube serves videos under.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`watch\?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`shorts/([a-zA-Z0-9_-]{11})`),
}

// bareVideoID matches a raw 11-character YouTube video identifier.
var bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID resolves a YouTube URL (or a bare video ID) to the video
// identifier.
func ExtractVideoID(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: empty url", domain.ErrInvalidVideoURL)
	}

	for _, pattern := range videoURLPatterns {
		if match := pattern.FindStringSubmatch(input); match != nil {
			return match[1], nil
		}
	}

	if bareVideoID.MatchString(input) {
		return input, nil
	}

	return "", fmt.Errorf("%w: %q", domain.ErrInvalidVideoURL, input)
}
