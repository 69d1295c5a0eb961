package view

import (
	"testing"
	"time"

	"github.com/HR1937/community-care/models"
)

func TestNewFeedItem(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	p := models.Post{
		UserName:  "Priya",
		Content:   "Tulsi tea <3",
		Section:   models.SectionRemedies,
		Tags:      []string{"#remedy", "#herbal"},
		MediaURL:  "https://cdn.example/a.jpg",
		MediaType: "image",
		CreatedAt: now.Add(-3 * time.Hour),
	}

	item := NewFeedItem(p, now)
	if item.UserName != "Priya" || item.Initial != "P" {
		t.Fatalf("name fields = %q / %q", item.UserName, item.Initial)
	}
	if item.Badge != "🌿 Remedies" {
		t.Fatalf("badge = %q", item.Badge)
	}
	if item.TimeAgo != "3h ago" {
		t.Fatalf("timeAgo = %q", item.TimeAgo)
	}
	if item.Content != "Tulsi tea &lt;3" {
		t.Fatalf("content not escaped: %q", item.Content)
	}
	if item.MediaKind != "image" || item.MediaURL != p.MediaURL {
		t.Fatalf("media fields = %q %q", item.MediaKind, item.MediaURL)
	}
}

func TestNewFeedItemDefaults(t *testing.T) {
	item := NewFeedItem(models.Post{Section: models.SectionExperience}, time.Now())
	if item.UserName != "Community Member" {
		t.Fatalf("UserName = %q", item.UserName)
	}
	if item.Initial != "C" {
		t.Fatalf("Initial = %q", item.Initial)
	}
	if item.Badge != "📖 Experience" {
		t.Fatalf("Badge = %q", item.Badge)
	}
	if item.TimeAgo != "" {
		t.Fatalf("zero CreatedAt should render no timestamp, got %q", item.TimeAgo)
	}
}

func TestNewFeedItemEscapesInjectedMarkup(t *testing.T) {
	p := models.Post{
		UserName: `<img src=x>`,
		Content:  `<script>alert(1)</script>`,
		Tags:     []string{`<b>#x</b>`},
	}
	item := NewFeedItem(p, time.Now())
	if item.UserName != "&lt;img src=x&gt;" {
		t.Fatalf("UserName = %q", item.UserName)
	}
	if item.Content != "&lt;script&gt;alert(1)&lt;/script&gt;" {
		t.Fatalf("Content = %q", item.Content)
	}
	if item.Tags[0] != "&lt;b&gt;#x&lt;/b&gt;" {
		t.Fatalf("Tags[0] = %q", item.Tags[0])
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Just now"},
		{5 * time.Minute, "5m ago"},
		{59 * time.Minute, "59m ago"},
		{2 * time.Hour, "2h ago"},
		{26 * time.Hour, "1d ago"},
		{6 * 24 * time.Hour, "6d ago"},
		{10 * 24 * time.Hour, "May 31, 2025"},
	}
	for _, tc := range cases {
		if got := TimeAgo(now.Add(-tc.ago), now); got != tc.want {
			t.Errorf("TimeAgo(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2 << 20, "2 MB"},
		{52428800, "50 MB"},
		{3 << 30, "3 GB"},
	}
	for _, tc := range cases {
		if got := FormatFileSize(tc.n); got != tc.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
