// Package videolink turns the external video links accepted by the catalog
// into the 11-character identifier stored on video entries, and rebuilds
// thumbnail, embed and watch URLs from that identifier alone.
package videolink

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// IDLength is the fixed length of an identifier token.
const IDLength = 11

var (
	ErrInvalidURL   = errors.New("link is not a valid http(s) URL")
	ErrNoIdentifier = errors.New("link does not contain a recognizable video identifier")
)

const (
	prefix  = `^(?:https?://)?(?:www\.)?`
	idToken = `([A-Za-z0-9_-]{11})`
)

// shapes are tried in order; the first match wins.
var shapes = []*regexp.Regexp{
	regexp.MustCompile(prefix + `youtube\.com/watch\?v=` + idToken),
	regexp.MustCompile(prefix + `youtu\.be/` + idToken),
	regexp.MustCompile(prefix + `youtube\.com/embed/` + idToken),
	regexp.MustCompile(prefix + `youtube\.com/v/` + idToken),
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractID returns the identifier carried by raw, or ok=false when raw
// matches none of the accepted link shapes. A miss is not an error: callers
// decide whether a missing identifier matters.
func ExtractID(raw string) (id string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, re := range shapes {
		if m := re.FindStringSubmatch(raw); len(m) == 2 {
			return m[1], true
		}
	}
	return "", false
}

// IsValidID reports whether id is a well-formed identifier token.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Validate is the write-time check: raw must parse as a URL whose scheme,
// when present, is http or https and which has a host, and it must also
// yield an identifier. It returns the identifier on success.
func Validate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", ErrInvalidURL
	}
	id, ok := ExtractID(raw)
	if !ok {
		return "", ErrNoIdentifier
	}
	return id, nil
}
