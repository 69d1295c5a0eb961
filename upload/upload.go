// Package upload coordinates the post-creation flow: validation, media
// hosting, and the backend write, in that order.
package upload

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/HR1937/community-care/client"
	"github.com/HR1937/community-care/media"
	"github.com/HR1937/community-care/models"
)

// Messages shown to the user. These are part of the product copy and
// must not be reworded casually.
var (
	ErrNotLoggedIn     = errors.New("Please login first")
	ErrExperienceMedia = errors.New("Experience posts require media (image, video, or audio)")
	ErrImageCaption    = errors.New("Images must have a caption")
	ErrRemedyEmpty     = errors.New("Remedies require either text or media")
	ErrFileTooLarge    = errors.New("File size must be less than 50MB")
	ErrBadFileType     = errors.New("Please select an image, video, or audio file")
	ErrMediaTooLong    = errors.New("Video and audio files must be 2 minutes or less")
	ErrMediaUpload     = errors.New("Failed to upload media")
	ErrCreatePost      = errors.New("Failed to create post")
	ErrUploadRetry     = errors.New("Upload failed. Please try again.")
)

const successMessage = "Post shared successfully! 🎉"

// Submission is one attempt to share a post. File is nil for text-only
// remedies.
type Submission struct {
	Section models.Section
	Caption string
	File    *media.File
}

// TokenSource yields the current session token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Prober reports a media file's duration in seconds; 0 means unknown.
type Prober interface {
	Duration(f media.File) float64
}

// MediaHost uploads a file to the third-party host and returns its
// public URL.
type MediaHost interface {
	Upload(ctx context.Context, f media.File, folder string) (string, error)
}

// PostService writes the finished post to the backend.
type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest) error
}

// SubmitControl disables the submit affordance while an upload is in
// flight. Restore must run on every exit path, success or not.
type SubmitControl interface {
	Begin()
	Restore()
}

// Form clears the compose inputs after a successful share.
type Form interface {
	Reset()
}

// View switches the UI back to the feed after a successful share.
type View interface {
	ShowFeed()
}

// Notifier surfaces outcome messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Coordinator runs the share flow end to end. Control, Form and View
// may be nil when there is no interactive surface to manage. A nil
// Prober skips the duration check, same as a clip whose duration
// cannot be read.
type Coordinator struct {
	Tokens  TokenSource
	Prober  Prober
	Host    MediaHost
	Posts   PostService
	Control SubmitControl
	Form    Form
	View    View
	Notify  Notifier
}

// Submit validates and shares one post. The returned error is always
// one of the sentinel errors above, suitable for display as-is.
func (c *Coordinator) Submit(ctx context.Context, s Submission) error {
	token, ok := c.Tokens.Token()
	if !ok || token == "" {
		return c.fail(ErrNotLoggedIn)
	}

	s.Caption = strings.TrimSpace(s.Caption)

	if err := c.validate(s); err != nil {
		return c.fail(err)
	}

	if c.Control != nil {
		c.Control.Begin()
		defer c.Control.Restore()
	}

	var mediaURL, mediaType string
	if s.File != nil {
		// Uploads are scoped per section on the host.
		folder := "posts/" + string(s.Section)
		url, err := c.Host.Upload(ctx, *s.File, folder)
		if err != nil || url == "" {
			log.Printf("[UPLOAD] media host: %v", err)
			return c.fail(ErrMediaUpload)
		}
		mediaURL = url
		mediaType = s.File.Category()
	}

	// Tags must serialize as [] on the wire, never null.
	req := models.CreatePostRequest{
		Token:     token,
		Content:   s.Caption,
		Section:   s.Section,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		Tags:      []string{},
	}
	if err := c.Posts.CreatePost(ctx, req); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Message != "" {
				return c.fail(errors.New(apiErr.Message))
			}
			return c.fail(ErrCreatePost)
		}
		log.Printf("[UPLOAD] create post: %v", err)
		return c.fail(ErrUploadRetry)
	}

	if c.Notify != nil {
		c.Notify.Success(successMessage)
	}
	if c.Form != nil {
		c.Form.Reset()
	}
	if c.View != nil {
		c.View.ShowFeed()
	}
	return nil
}

// validate applies the section rules before anything leaves the client.
//
//	experience        media required, images also need a caption
//	remedies          text or media, images with media need a caption
func (c *Coordinator) validate(s Submission) error {
	if s.File != nil {
		if s.File.Size > media.MaxFileBytes {
			return ErrFileTooLarge
		}
		cat := s.File.Category()
		if cat == "" {
			return ErrBadFileType
		}
		if s.File.IsTimed() && c.Prober != nil {
			if d := c.Prober.Duration(*s.File); d > media.MaxMediaSeconds {
				return ErrMediaTooLong
			}
		}
	}

	switch s.Section {
	case models.SectionExperience:
		if s.File == nil {
			return ErrExperienceMedia
		}
		if s.File.Category() == "image" && s.Caption == "" {
			return ErrImageCaption
		}
	case models.SectionRemedies:
		if s.Caption == "" && s.File == nil {
			return ErrRemedyEmpty
		}
		if s.File != nil && s.File.Category() == "image" && s.Caption == "" {
			return ErrImageCaption
		}
	}
	return nil
}

func (c *Coordinator) fail(err error) error {
	if c.Notify != nil {
		c.Notify.Error(err.Error())
	}
	return err
}
