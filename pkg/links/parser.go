// Package links provides extraction, shortener resolution and classification
// of Spotify catalog links found in free-form chat messages.
package links

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Kind classifies a resolved link by the catalog item it points at.
type Kind int

const (
	// KindUnknown is any link shape we do not recognize.
	KindUnknown Kind = iota
	// KindTrack is a single track link.
	KindTrack
	// KindAlbum is an album link.
	KindAlbum
	// KindPlaylist is a playlist link.
	KindPlaylist
	// KindArtist is an artist page link.
	KindArtist
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	case KindArtist:
		return "artist"
	default:
		return "unknown"
	}
}

// Link is a canonical catalog reference extracted from a message.
type Link struct {
	URL  string
	Kind Kind
}

const (
	// resolveTimeout bounds the shortener redirect lookup.
	resolveTimeout = 10 * time.Second
)

var (
	urlRegex        = regexp.MustCompile(`https?://\S+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// shortenerDomains are the known Spotify link-shortener hosts.
	shortenerDomains = map[string]bool{
		"spotify.link": true,
		"spoti.fi":     true,
	}
)

// Parser extracts and resolves catalog links from message text.
type Parser struct {
	client *http.Client
}

// NewParser creates a parser with a bounded-timeout HTTP client for
// shortener resolution.
func NewParser() *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: resolveTimeout,
		},
	}
}

// Resolve normalizes the message text, picks the first URL-shaped substring
// (or the whole trimmed text when none is found), expands known shortener
// links and classifies the result. Shortener expansion is best-effort: any
// transport failure falls back to the unexpanded candidate.
func (p *Parser) Resolve(ctx context.Context, text string) Link {
	candidate := p.extractCandidate(text)

	if isShortened(candidate) {
		if expanded, err := p.expand(ctx, candidate); err == nil {
			candidate = expanded
		}
	}

	return Link{
		URL:  candidate,
		Kind: Classify(candidate),
	}
}

// extractCandidate returns the first URL substring of the normalized text,
// or the whole trimmed text if no URL shape is present.
func (p *Parser) extractCandidate(text string) string {
	text = normalizeText(text)

	if match := urlRegex.FindString(text); match != "" {
		return cleanURL(match)
	}

	return text
}

// expand follows shortener redirects with a HEAD request and returns the
// final URL the chain lands on.
func (p *Parser) expand(ctx context.Context, shortURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, shortURL, http.NoBody)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// The client follows redirects, so the request URL of the final
	// response is the expanded link.
	return resp.Request.URL.String(), nil
}

// Classify inspects the URL path and reports which catalog item it names.
func Classify(rawURL string) Kind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return KindUnknown
	}

	switch {
	case strings.Contains(u.Path, "/track/"):
		return KindTrack
	case strings.Contains(u.Path, "/album/"):
		return KindAlbum
	case strings.Contains(u.Path, "/playlist/"):
		return KindPlaylist
	case strings.Contains(u.Path, "/artist/"):
		return KindArtist
	default:
		return KindUnknown
	}
}

func isShortened(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return shortenerDomains[strings.ToLower(u.Hostname())]
}

func normalizeText(text string) string {
	text = strings.TrimSpace(text)
	text = norm.NFKC.String(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return text
}

func cleanURL(rawURL string) string {
	return strings.TrimRight(rawURL, ".,!?;)")
}
