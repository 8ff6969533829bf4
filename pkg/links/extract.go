package links

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	idRegexes = map[Kind]*regexp.Regexp{
		KindTrack:    regexp.MustCompile(`spotify:track:([a-zA-Z0-9]+)`),
		KindAlbum:    regexp.MustCompile(`spotify:album:([a-zA-Z0-9]+)`),
		KindPlaylist: regexp.MustCompile(`spotify:playlist:([a-zA-Z0-9]+)`),
		KindArtist:   regexp.MustCompile(`spotify:artist:([a-zA-Z0-9]+)`),
	}

	pathSegments = map[Kind]string{
		KindTrack:    "track",
		KindAlbum:    "album",
		KindPlaylist: "playlist",
		KindArtist:   "artist",
	}
)

// ExtractID pulls the Spotify object ID of the given kind out of a URL or
// URI. Localized URL paths like /intl-uk/track/... are handled by scanning
// path segments instead of assuming a fixed position.
func ExtractID(rawURL string, kind Kind) (string, error) {
	rawURL = strings.TrimSpace(rawURL)

	if re, ok := idRegexes[kind]; ok {
		if matches := re.FindStringSubmatch(rawURL); len(matches) > 1 {
			return matches[1], nil
		}
	}

	segment, ok := pathSegments[kind]
	if !ok {
		return "", fmt.Errorf("unsupported link kind: %s", kind)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range pathParts {
		if part == segment && i+1 < len(pathParts) {
			id := pathParts[i+1]
			if idx := strings.Index(id, "?"); idx != -1 {
				id = id[:idx]
			}
			if id == "" {
				break
			}
			return id, nil
		}
	}

	return "", fmt.Errorf("no %s ID found in URL", segment)
}
