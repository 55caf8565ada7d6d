package drive

import (
	"net/url"
	"regexp"
	"strings"
)

var fileIDPattern = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// FileID extracts the Drive file ID from a share link.
// Returns empty string when the URL is not a recognized Drive link.
func FileID(rawURL string) string {
	if m := fileIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if !strings.Contains(u.Host, "drive.google.com") && !strings.Contains(u.Host, "docs.google.com") {
		return ""
	}
	return u.Query().Get("id")
}

// DownloadURL rewrites a Drive share link into a direct-download URL.
// Non-Drive URLs pass through unchanged so plain file links keep working.
func DownloadURL(rawURL string) string {
	id := FileID(rawURL)
	if id == "" {
		return rawURL
	}
	return "https://drive.google.com/uc?export=download&id=" + id
}
