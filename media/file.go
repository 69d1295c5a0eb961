package media

import (
	"io"
	"strings"
)

// Size and duration ceilings for user uploads.
const (
	MaxFileBytes    = 50 << 20
	MaxMediaSeconds = 120.0
)

// File is a user-selected upload: the declared MIME type plus seekable
// content. The prober and the host both read Data and rewind it.
type File struct {
	Name string
	MIME string
	Size int64
	Data io.ReadSeeker
}

// Category maps the declared MIME type onto the post media categories.
// Empty means the file is not postable.
func (f File) Category() string {
	switch {
	case strings.HasPrefix(f.MIME, "image/"):
		return "image"
	case strings.HasPrefix(f.MIME, "video/"):
		return "video"
	case strings.HasPrefix(f.MIME, "audio/"):
		return "audio"
	default:
		return ""
	}
}

// IsTimed reports whether the file has a playable duration to check.
func (f File) IsTimed() bool {
	cat := f.Category()
	return cat == "video" || cat == "audio"
}
