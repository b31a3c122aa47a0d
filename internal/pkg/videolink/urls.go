package videolink

import (
	"strconv"
	"strings"
)

const (
	thumbnailHost = "https://img.youtube.com/vi/"
	embedHost     = "https://www.youtube.com/embed/"
	watchHost     = "https://www.youtube.com/watch?v="
)

// Quality names a thumbnail size tier published by the image host.
type Quality string

const (
	QualityDefault Quality = "default"
	QualityMedium  Quality = "mqdefault"
	QualityHigh    Quality = "hqdefault"
	QualitySD      Quality = "sddefault"
	QualityMax     Quality = "maxresdefault"
)

// DefaultQuality is the tier cached on stored entries.
const DefaultQuality = QualityHigh

// ParseQuality maps a loose name ("hq", "maxres", "hqdefault") to a tier.
func ParseQuality(raw string) (Quality, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "default":
		return QualityDefault, true
	case "mq", "medium", "mqdefault":
		return QualityMedium, true
	case "hq", "high", "hqdefault":
		return QualityHigh, true
	case "sd", "standard", "sddefault":
		return QualitySD, true
	case "maxres", "max", "maxresdefault":
		return QualityMax, true
	default:
		return "", false
	}
}

// ThumbnailURL returns the still image URL for id. An empty quality uses
// DefaultQuality.
func ThumbnailURL(id string, quality Quality) string {
	if quality == "" {
		quality = DefaultQuality
	}
	return thumbnailHost + id + "/" + string(quality) + ".jpg"
}

// WatchURL returns the canonical watch page for id.
func WatchURL(id string) string {
	return watchHost + id
}

// EmbedOptions are player parameters. Nil fields are left off the URL.
type EmbedOptions struct {
	Autoplay     *bool
	Mute         *bool
	Controls     *bool
	ShowRelated  *bool
	StartSeconds *int
	EndSeconds   *int
}

// EmbedURL returns the embeddable player URL for id. Parameters are appended
// in a fixed order so equal inputs give byte-identical output.
func EmbedURL(id string, opts EmbedOptions) string {
	var b strings.Builder
	b.WriteString(embedHost)
	b.WriteString(id)

	sep := byte('?')
	add := func(key, val string) {
		b.WriteByte(sep)
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(val)
		sep = '&'
	}
	if opts.Autoplay != nil {
		add("autoplay", flag(*opts.Autoplay))
	}
	if opts.Mute != nil {
		add("mute", flag(*opts.Mute))
	}
	if opts.Controls != nil {
		add("controls", flag(*opts.Controls))
	}
	if opts.ShowRelated != nil {
		add("rel", flag(*opts.ShowRelated))
	}
	if opts.StartSeconds != nil {
		add("start", strconv.Itoa(*opts.StartSeconds))
	}
	if opts.EndSeconds != nil {
		add("end", strconv.Itoa(*opts.EndSeconds))
	}
	return b.String()
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Links bundles the three derived URLs for one identifier.
type Links struct {
	ID           string `json:"linkIdentifier"`
	ThumbnailURL string `json:"thumbnailUrl"`
	EmbedURL     string `json:"embedUrl"`
	WatchURL     string `json:"watchUrl"`
}

func Derive(id string, quality Quality, opts EmbedOptions) Links {
	return Links{
		ID:           id,
		ThumbnailURL: ThumbnailURL(id, quality),
		EmbedURL:     EmbedURL(id, opts),
		WatchURL:     WatchURL(id),
	}
}
