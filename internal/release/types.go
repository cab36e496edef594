package release

import (
	"strings"
	"time"
)

// Release represents one entry in the release feed. Field names follow the
// GitHub releases API; unknown fields in the payload are ignored.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"` // changelog / release notes
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
	Assets      []Asset   `json:"assets"`
}

// Asset represents a downloadable artifact attached to a release.
type Asset struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	BrowserDownloadURL string    `json:"browser_download_url"`
	Size               int64     `json:"size"`
	ContentType        string    `json:"content_type"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Version returns the release version without the tag's 'v' prefix.
func (r *Release) Version() string {
	return strings.TrimPrefix(r.TagName, "v")
}
