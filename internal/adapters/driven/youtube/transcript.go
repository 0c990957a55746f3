// Package youtube provides a TranscriptSource backed by YouTube's timedtext API.
package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
)

// Ensure TranscriptSource implements the interface.
var _ driven.TranscriptSource = (*TranscriptSource)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://video.google.com"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the YouTube transcript source.
type Config struct {
	// BaseURL is the timedtext endpoint base (default: https://video.google.com).
	// Overridable for tests.
	BaseURL string

	// Timeout is the per-request HTTP timeout (default: 30s).
	Timeout time.Duration
}

// TranscriptSource fetches caption tracks through the public timedtext API
// and normalizes them into one continuous transcript string.
type TranscriptSource struct {
	client  *http.Client
	baseURL string
}

// trackList is the timedtext track listing response.
type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []track  `xml:"track"`
}

type track struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	Default  string `xml:"lang_default,attr"`
}

// transcript is the timedtext caption response.
type transcript struct {
	XMLName  xml.Name  `xml:"transcript"`
	Segments []segment `xml:"text"`
}

type segment struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

// bracketedCue matches caption artifacts like [Music] or [Applause].
var bracketedCue = regexp.MustCompile(`\[[^\]]*\]`)

// NewTranscriptSource creates a YouTube transcript source.
func NewTranscriptSource(cfg Config) *TranscriptSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &TranscriptSource{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
	}
}

// Fetch retrieves and normalizes the transcript for a video.
func (s *TranscriptSource) Fetch(ctx context.Context, videoID string, preferredLanguages []string) (*domain.TranscriptDocument, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: empty video id", domain.ErrInvalidInput)
	}

	tracks, err := s.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: video %s has no caption tracks", domain.ErrTranscriptNotFound, videoID)
	}

	chosen := pickTrack(tracks, preferredLanguages)

	text, err := s.fetchTrack(ctx, videoID, chosen)
	if err != nil {
		return nil, err
	}

	if text == "" {
		return nil, fmt.Errorf("%w: video %s track %s", domain.ErrEmptyTranscript, videoID, chosen.LangCode)
	}

	return &domain.TranscriptDocument{
		VideoID:   videoID,
		Text:      text,
		Language:  chosen.LangCode,
		FetchedAt: time.Now(),
	}, nil
}

// listTracks fetches the caption track listing for a video.
func (s *TranscriptSource) listTracks(ctx context.Context, videoID string) ([]track, error) {
	q := url.Values{}
	q.Set("type", "list")
	q.Set("v", videoID)

	body, err := s.get(ctx, q)
	if err != nil {
		return nil, err
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: parse track list: %v", domain.ErrTranscriptUnavailable, err)
	}

	return list.Tracks, nil
}

// fetchTrack fetches one caption track and normalizes it.
func (s *TranscriptSource) fetchTrack(ctx context.Context, videoID string, t track) (string, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", t.LangCode)
	if t.Name != "" {
		q.Set("name", t.Name)
	}

	body, err := s.get(ctx, q)
	if err != nil {
		return "", err
	}

	var tr transcript
	if err := xml.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: parse transcript: %v", domain.ErrTranscriptUnavailable, err)
	}

	return normalize(tr.Segments), nil
}

// get performs one timedtext request.
func (s *TranscriptSource) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/timedtext?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrTranscriptUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTranscriptUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: timedtext returned 404", domain.ErrTranscriptNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: timedtext returned status %d", domain.ErrTranscriptUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrTranscriptUnavailable, err)
	}

	return body, nil
}

// pickTrack chooses the caption track for the preferred languages, falling
// back to the listing's default track, then the first track.
func pickTrack(tracks []track, preferredLanguages []string) track {
	for _, lang := range preferredLanguages {
		for _, t := range tracks {
			if t.LangCode == lang || strings.HasPrefix(t.LangCode, lang+"-") {
				return t
			}
		}
	}
	for _, t := range tracks {
		if t.Default == "true" {
			return t
		}
	}
	return tracks[0]
}

// normalize concatenates caption segments into one continuous string:
// leftover HTML entities are decoded, bracketed cues like [Music] are
// stripped, and whitespace is collapsed.
func normalize(segments []segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := html.UnescapeString(seg.Text)
		text = bracketedCue.ReplaceAllString(text, " ")
		text = strings.Join(strings.Fields(text), " ")
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
