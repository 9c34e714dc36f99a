package platform

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyURL is returned for blank URL input
	ErrEmptyURL = errors.New("empty URL")

	// ErrInvalidURL is returned when no video id can be found in the URL
	ErrInvalidURL = errors.New("not a valid YouTube video URL")
)

// URL markers
const (
	VideoURLParam    = "v="
	PlaylistURLParam = "list="
	ShortHostPrefix  = "youtu.be/"
	ParamSeparator   = "&"
	QuerySeparator   = "?"
	FragmentMarker   = "#"
)

// ExtractVideoID returns the video id from a "v=" query parameter or, failing
// that, from the path segment after "youtu.be/". The host is not validated.
func ExtractVideoID(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", ErrEmptyURL
	}

	if id := queryParam(url, VideoURLParam); id != "" {
		return id, nil
	}

	if _, rest, ok := strings.Cut(url, ShortHostPrefix); ok {
		if id := cutAny(rest, QuerySeparator, ParamSeparator, FragmentMarker); id != "" {
			return id, nil
		}
	}

	return "", ErrInvalidURL
}

// ExtractPlaylistID returns the value of the "list=" parameter, or "" when the
// URL has none
func ExtractPlaylistID(raw string) string {
	return queryParam(strings.TrimSpace(raw), PlaylistURLParam)
}

// queryParam finds name preceded by '?' or '&' and returns its value up to the
// next '&' or '#'
func queryParam(url, name string) string {
	for _, lead := range []string{QuerySeparator, ParamSeparator} {
		_, rest, ok := strings.Cut(url, lead+name)
		if !ok {
			continue
		}
		if value := cutAny(rest, ParamSeparator, FragmentMarker); value != "" {
			return value
		}
	}
	return ""
}

func cutAny(s string, seps ...string) string {
	for _, sep := range seps {
		s, _, _ = strings.Cut(s, sep)
	}
	return s
}
