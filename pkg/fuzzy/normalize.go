// Package fuzzy normalizes track metadata into search queries for the audio
// download backend. Decorations like "(feat. X)" or "- 2011 Remaster" hurt
// top-1 search accuracy and are stripped before querying.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	featRegex       = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]*[\)\]]\s*`)
	versionRegex    = regexp.MustCompile(`(?i)\s*[-\(\[]+\s*(remaster(ed)?|deluxe|extended|radio edit|mono|stereo)[^\)\]]*[\)\]]?\s*$`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalizer builds audio search queries from track metadata.
type Normalizer struct{}

// NewNormalizer creates a query normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// SearchQuery builds the "{artist} - {title}" query used against the audio
// search backend, with feature credits and reissue suffixes stripped from
// the title.
func (n *Normalizer) SearchQuery(artist, title string) string {
	artist = n.clean(artist)
	title = n.CleanTitle(title)

	if artist == "" {
		return title
	}
	return artist + " - " + title
}

// CleanTitle strips feature credits and version/reissue decorations.
func (n *Normalizer) CleanTitle(title string) string {
	title = n.clean(title)
	title = featRegex.ReplaceAllString(title, " ")
	title = versionRegex.ReplaceAllString(title, "")
	title = whitespaceRegex.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// clean applies compatibility decomposition and drops combining marks so
// accented metadata still matches plain-ASCII search indexes.
func (n *Normalizer) clean(text string) string {
	text = norm.NFKD.String(text)

	var b strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(b.String(), " "))
}
