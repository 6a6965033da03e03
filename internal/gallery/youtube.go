package gallery

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractYouTubeID pulls the 11-character video id out of the common
// YouTube URL shapes (watch, youtu.be, embed, shorts). Returns "" when the
// URL is not recognizably YouTube.
func ExtractYouTubeID(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	switch host {
	case "youtu.be":
		return cleanVideoID(strings.TrimPrefix(parsed.Path, "/"))
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if id := parsed.Query().Get("v"); id != "" {
			return cleanVideoID(id)
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				return cleanVideoID(strings.TrimPrefix(parsed.Path, prefix))
			}
		}
	}
	return ""
}

// ThumbnailURL derives the maxres thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}

func cleanVideoID(raw string) string {
	id := raw
	if slash := strings.IndexByte(id, '/'); slash >= 0 {
		id = id[:slash]
	}
	if len(id) != 11 {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ""
		}
	}
	return id
}
