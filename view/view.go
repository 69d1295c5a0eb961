// Package view shapes posts for display: badges, relative timestamps
// and escaped text ready to render.
package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/HR1937/community-care/models"
)

const defaultUserName = "Community Member"

// FeedItem is a post flattened into display-ready strings. Text fields
// are HTML-escaped; render them as-is.
type FeedItem struct {
	UserName  string
	Initial   string
	TimeAgo   string
	Badge     string
	Content   string
	Tags      []string
	MediaURL  string
	MediaKind string
}

// NewFeedItem builds the display form of a post. now is the clock to
// measure "ago" against.
func NewFeedItem(p models.Post, now time.Time) FeedItem {
	name := strings.TrimSpace(p.UserName)
	if name == "" {
		name = defaultUserName
	}
	return FeedItem{
		UserName:  html.EscapeString(name),
		Initial:   initial(name),
		TimeAgo:   TimeAgo(p.CreatedAt, now),
		Badge:     badge(p.Section),
		Content:   html.EscapeString(p.Content),
		Tags:      escapeTags(p.Tags),
		MediaURL:  p.MediaURL,
		MediaKind: p.MediaType,
	}
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "C"
}

func badge(s models.Section) string {
	switch s {
	case models.SectionRemedies:
		return "🌿 Remedies"
	case models.SectionExperience:
		return "📖 Experience"
	}
	return ""
}

func escapeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = html.EscapeString(t)
	}
	return out
}

// TimeAgo renders a coarse relative timestamp. Anything older than a
// week falls back to the calendar date.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("Jan 2, 2006")
}

// FormatFileSize renders a byte count the way the compose form shows
// it, trimming trailing zeros from the two-decimal form.
func FormatFileSize(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	s := fmt.Sprintf("%.2f", size)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + " " + units[i]
}
