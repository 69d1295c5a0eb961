package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/HR1937/community-care/models"
)

type stubLoader struct {
	posts    map[string][]models.Post
	err      error
	sections []string
}

func (s *stubLoader) Feed(ctx context.Context, token, section string) ([]models.Post, error) {
	s.sections = append(s.sections, section)
	if s.err != nil {
		return nil, s.err
	}
	return s.posts[section], nil
}

func TestStateDefaults(t *testing.T) {
	s := NewState(nil)
	if s.Tab != TabFeed || s.Section != "all" {
		t.Fatalf("defaults = %q / %q", s.Tab, s.Section)
	}
	if s.LoggedIn() {
		t.Fatal("fresh state should not be logged in")
	}
}

func TestSelectSectionReloadsFeed(t *testing.T) {
	loader := &stubLoader{posts: map[string][]models.Post{
		"remedies": {{ID: 1, Section: models.SectionRemedies}},
	}}
	s := NewState(loader)

	s.SelectSection(context.Background(), "remedies")
	if len(s.Posts()) != 1 {
		t.Fatalf("posts = %+v", s.Posts())
	}
	if len(loader.sections) != 1 || loader.sections[0] != "remedies" {
		t.Fatalf("loader saw %v", loader.sections)
	}
}

func TestSelectSectionSkipsReloadOffFeedTab(t *testing.T) {
	loader := &stubLoader{}
	s := NewState(loader)
	s.Tab = TabUpload

	s.SelectSection(context.Background(), "experience")
	if len(loader.sections) != 0 {
		t.Fatal("no reload expected while the upload tab is showing")
	}
	if s.Section != "experience" {
		t.Fatalf("section = %q", s.Section)
	}
}

func TestShowFeedSwitchesTabAndReloads(t *testing.T) {
	loader := &stubLoader{posts: map[string][]models.Post{
		"all": {{ID: 7}},
	}}
	s := NewState(loader)
	s.Tab = TabUpload

	s.ShowFeed()
	if s.Tab != TabFeed {
		t.Fatalf("tab = %q", s.Tab)
	}
	if len(s.Posts()) != 1 || s.Posts()[0].ID != 7 {
		t.Fatalf("posts = %+v", s.Posts())
	}
}

func TestReloadKeepsOldPostsOnError(t *testing.T) {
	loader := &stubLoader{posts: map[string][]models.Post{"all": {{ID: 1}}}}
	s := NewState(loader)
	s.ShowFeed()

	loader.err = fmt.Errorf("backend down")
	s.ShowFeed()
	if len(s.Posts()) != 1 {
		t.Fatal("a failed reload should keep the previous feed")
	}
}

func TestSubmitButtonRestore(t *testing.T) {
	b := NewSubmitButton("Share Post")
	b.Begin()
	if b.Enabled || b.Label != "Sharing..." {
		t.Fatalf("after Begin: enabled=%v label=%q", b.Enabled, b.Label)
	}
	b.Restore()
	if !b.Enabled || b.Label != "Share Post" {
		t.Fatalf("after Restore: enabled=%v label=%q", b.Enabled, b.Label)
	}
}
