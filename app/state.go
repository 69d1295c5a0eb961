// Package app holds the client's interactive state: which tab is
// showing, which section filter is active, and who is logged in.
package app

import (
	"context"
	"log"

	"github.com/HR1937/community-care/models"
)

type Tab string

const (
	TabFeed    Tab = "feed"
	TabUpload  Tab = "upload"
	TabProfile Tab = "profile"
)

// FeedLoader fetches the feed for a section filter. "all" (or "")
// means no filter.
type FeedLoader interface {
	Feed(ctx context.Context, token, section string) ([]models.Post, error)
}

// State is the single mutable home for UI state. It replaces scattered
// globals; everything that reads or flips the current tab or section
// goes through here.
type State struct {
	Tab     Tab
	Section string // "all", "remedies" or "experience"

	UserID int
	Token  string

	loader FeedLoader
	posts  []models.Post
}

func NewState(loader FeedLoader) *State {
	return &State{
		Tab:     TabFeed,
		Section: "all",
		loader:  loader,
	}
}

// SetUser installs the logged-in identity. A zero userID with empty
// token clears it.
func (s *State) SetUser(userID int, token string) {
	s.UserID = userID
	s.Token = token
}

func (s *State) LoggedIn() bool { return s.Token != "" }

// SelectSection changes the feed filter and reloads if the feed tab is
// showing.
func (s *State) SelectSection(ctx context.Context, section string) {
	s.Section = section
	if s.Tab == TabFeed {
		s.reload(ctx)
	}
}

// ShowFeed switches to the feed tab and reloads it. The upload flow
// calls this after a successful share so the new post is visible.
func (s *State) ShowFeed() {
	s.Tab = TabFeed
	s.reload(context.Background())
}

func (s *State) ShowTab(ctx context.Context, tab Tab) {
	s.Tab = tab
	if tab == TabFeed {
		s.reload(ctx)
	}
}

// Posts returns the most recently loaded feed page.
func (s *State) Posts() []models.Post { return s.posts }

func (s *State) reload(ctx context.Context) {
	if s.loader == nil {
		return
	}
	posts, err := s.loader.Feed(ctx, s.Token, s.Section)
	if err != nil {
		log.Printf("[FEED] reload: %v", err)
		return
	}
	s.posts = posts
}

// SubmitButton mirrors the compose form's submit affordance. Begin
// disables it and swaps in a progress label; Restore puts back
// whatever was there before, whichever way the upload ended.
type SubmitButton struct {
	Label   string
	Enabled bool

	prevLabel   string
	prevEnabled bool
}

func NewSubmitButton(label string) *SubmitButton {
	return &SubmitButton{Label: label, Enabled: true}
}

func (b *SubmitButton) Begin() {
	b.prevLabel = b.Label
	b.prevEnabled = b.Enabled
	b.Label = "Sharing..."
	b.Enabled = false
}

func (b *SubmitButton) Restore() {
	b.Label = b.prevLabel
	b.Enabled = b.prevEnabled
}
