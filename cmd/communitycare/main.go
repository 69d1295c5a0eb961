package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/HR1937/community-care/app"
	"github.com/HR1937/community-care/client"
	"github.com/HR1937/community-care/media"
	"github.com/HR1937/community-care/models"
	"github.com/HR1937/community-care/upload"
	"github.com/HR1937/community-care/view"
)

const defaultAPIBase = "http://localhost:8000"

func main() {
	godotenv.Load()
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := os.Getenv("COMMUNITY_CARE_API")
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	api := client.New(baseURL)

	session, err := client.NewSession()
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "signup":
		cmdErr = runSignup(ctx, api, session, os.Args[2:])
	case "login":
		cmdErr = runLogin(ctx, api, session, os.Args[2:])
	case "logout":
		cmdErr = session.Clear()
		if cmdErr == nil {
			fmt.Println("Logged out")
		}
	case "whoami":
		cmdErr = runWhoami(session)
	case "feed":
		cmdErr = runFeed(ctx, api, session, os.Args[2:])
	case "profile":
		cmdErr = runProfile(ctx, api, session, os.Args[2:])
	case "post":
		cmdErr = runPost(ctx, api, session, os.Args[2:])
	case "assist":
		cmdErr = runAssist(ctx, api, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		log.Fatal(cmdErr)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: communitycare <command> [flags]

commands:
  signup   -name NAME -email EMAIL -password PASS
  login    -email EMAIL -password PASS
  logout
  whoami
  feed     [-section all|remedies|experience]
  profile  [-section remedies|experience]
  post     -section remedies|experience [-caption TEXT] [-file PATH]
  assist   -lat LAT -lng LNG [-elder ID]`)
}

func runSignup(ctx context.Context, api *client.Client, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *name == "" || *email == "" || *password == "" {
		return fmt.Errorf("Please fill in all fields")
	}
	if len(*password) < 6 {
		return fmt.Errorf("Password must be at least 6 characters")
	}

	res, err := api.Signup(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	if err := session.Save(res.Token); err != nil {
		return err
	}
	fmt.Printf("Welcome, %s!\n", *name)
	return nil
}

func runLogin(ctx context.Context, api *client.Client, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("Please fill in all fields")
	}

	res, err := api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := session.Save(res.Token); err != nil {
		return err
	}
	fmt.Println("Logged in")
	return nil
}

func runWhoami(session *client.Session) error {
	id, err := session.Identity()
	if err != nil {
		return err
	}
	fmt.Printf("user %s", id.UserID)
	if !id.ExpiresAt.IsZero() {
		fmt.Printf(" (session expires %s)", id.ExpiresAt.Format(time.RFC1123))
	}
	fmt.Println()
	return nil
}

func runFeed(ctx context.Context, api *client.Client, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	section := fs.String("section", "all", "feed filter")
	fs.Parse(args)

	token, _ := session.Token()
	state := app.NewState(api)
	state.SetUser(0, token)
	state.SelectSection(ctx, *section)

	printPosts(state.Posts())
	return nil
}

func runProfile(ctx context.Context, api *client.Client, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	section := fs.String("section", "", "filter own posts by section")
	fs.Parse(args)

	token, ok := session.Token()
	if !ok {
		return fmt.Errorf("Please login first")
	}

	stats, err := api.Stats(ctx, token)
	if err != nil {
		return err
	}
	fmt.Printf("remedies %d · experience %d · people helped %d\n\n", stats.Remedies, stats.Experience, stats.Help)

	posts, err := api.UserPosts(ctx, token, *section)
	if err != nil {
		return err
	}
	printPosts(posts)
	return nil
}

func runPost(ctx context.Context, api *client.Client, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	section := fs.String("section", "", "remedies or experience")
	caption := fs.String("caption", "", "post text")
	path := fs.String("file", "", "media file to attach")
	fs.Parse(args)

	sec := models.Section(*section)
	if !sec.Valid() {
		return fmt.Errorf("section must be remedies or experience")
	}
	if len(*caption) > 500 {
		return fmt.Errorf("caption must be 500 characters or less")
	}

	var f *media.File
	if *path != "" {
		file, err := openMediaFile(*path)
		if err != nil {
			return err
		}
		defer file.Data.(*os.File).Close()
		f = file
		fmt.Printf("attaching %s (%s)\n", file.Name, view.FormatFileSize(file.Size))
	}

	coord := &upload.Coordinator{
		Tokens: session,
		Prober: media.Prober{},
		Host:   media.NewHost(os.Getenv("CLOUDINARY_CLOUD_NAME"), os.Getenv("CLOUDINARY_UPLOAD_PRESET")),
		Posts:  api,
		Notify: stdoutNotifier{},
	}
	return coord.Submit(ctx, upload.Submission{
		Section: sec,
		Caption: *caption,
		File:    f,
	})
}

func runAssist(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("assist", flag.ExitOnError)
	lat := fs.String("lat", "", "latitude")
	lng := fs.String("lng", "", "longitude")
	elder := fs.String("elder", "", "elder id")
	fs.Parse(args)

	id, err := api.RequestHelp(ctx, *lat, *lng, *elder)
	if err != nil {
		return err
	}
	fmt.Printf("help request %s created, nearby helpers notified\n", id)
	return nil
}

func openMediaFile(path string) (*media.File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, err
	}
	return &media.File{
		Name: filepath.Base(path),
		MIME: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size: info.Size(),
		Data: fh,
	}, nil
}

// stdoutNotifier prints outcome messages the way the web client showed
// its toasts.
type stdoutNotifier struct{}

func (stdoutNotifier) Success(msg string) { fmt.Println(msg) }
func (stdoutNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, msg) }

func printPosts(posts []models.Post) {
	if len(posts) == 0 {
		fmt.Println("No posts yet. Be the first to share!")
		return
	}
	now := time.Now()
	for _, p := range posts {
		item := view.NewFeedItem(p, now)
		fmt.Printf("%s  %s  %s\n", item.Badge, item.UserName, item.TimeAgo)
		if item.Content != "" {
			fmt.Printf("  %s\n", item.Content)
		}
		if item.MediaURL != "" {
			fmt.Printf("  [%s] %s\n", item.MediaKind, item.MediaURL)
		}
		if len(item.Tags) > 0 {
			fmt.Printf("  %s\n", strings.Join(item.Tags, " "))
		}
		fmt.Println()
	}
}
