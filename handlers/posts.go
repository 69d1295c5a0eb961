package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/HR1937/community-care/cache"
	"github.com/HR1937/community-care/models"
	"github.com/HR1937/community-care/services"
)

type PostsHandler struct {
	db        *sql.DB
	cache     *cache.FeedCache
	secret    string
	geminiKey string
	elevenKey string
}

func NewPostsHandler(db *sql.DB, feedCache *cache.FeedCache, secret, geminiKey, elevenKey string) *PostsHandler {
	return &PostsHandler{
		db:        db,
		cache:     feedCache,
		secret:    secret,
		geminiKey: geminiKey,
		elevenKey: elevenKey,
	}
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := parseToken(h.secret, req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if !req.Section.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown section")
		return
	}

	var userName string
	if err := h.db.QueryRow(`SELECT name FROM users WHERE id = $1`, userID).Scan(&userName); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database query failed")
			log.Println("Create user lookup error:", err)
		}
		return
	}

	tags := h.enrichTags(r.Context(), req)

	post := models.Post{
		UserID:    userID,
		UserName:  userName,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		Section:   req.Section,
		Tags:      tags,
	}
	err = h.db.QueryRow(`
		INSERT INTO posts (user_id, content, media_url, media_type, section, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		post.UserID, post.Content, post.MediaURL, post.MediaType,
		string(post.Section), pq.Array(post.Tags)).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create post")
		log.Println("Create insert error:", err)
		return
	}

	h.cache.Del(r.Context(), "feed:all", "feed:"+string(post.Section))

	writeJSON(w, http.StatusCreated, post)
}

// enrichTags reproduces the upstream best-effort pipeline: transcribe
// spoken media so hashtags describe what was said, not just the caption.
// Any failure degrades to the caption text, then to no tags at all.
func (h *PostsHandler) enrichTags(ctx context.Context, req models.CreatePostRequest) []string {
	textForTags := req.Content
	if req.MediaURL != "" && (req.MediaType == "audio" || req.MediaType == "video") {
		if transcript, err := services.Transcribe(h.elevenKey, req.MediaURL); err == nil && transcript != "" {
			textForTags = transcript
		}
	}
	if textForTags == "" {
		return nil
	}

	tagCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	tags, err := services.GenerateHashtags(tagCtx, h.geminiKey, textForTags)
	if err != nil {
		log.Println("hashtag generation skipped:", err)
		return nil
	}
	return tags
}

func (h *PostsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")

	cacheKey := "feed:all"
	if section != "" {
		cacheKey = "feed:" + section
	}
	if cached, ok := h.cache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	query := `
		SELECT p.id, p.user_id, u.name, p.content, p.media_url, p.media_type,
		       p.section, p.tags, p.created_at
		FROM posts p
		JOIN users u ON p.user_id = u.id`
	args := []interface{}{}
	if section != "" {
		query += ` WHERE p.section = $1`
		args = append(args, section)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch feed")
		log.Println("Feed query error:", err)
		return
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error scanning posts")
		log.Println("Feed scan error:", err)
		return
	}

	body, err := json.Marshal(posts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode feed")
		log.Println("Feed encode error:", err)
		return
	}

	h.cache.Set(r.Context(), cacheKey, string(body))

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// UserPosts is a POST so the token can travel in the body like /posts.
func (h *PostsHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := parseToken(h.secret, req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	section := r.URL.Query().Get("section")

	query := `
		SELECT p.id, p.user_id, u.name, p.content, p.media_url, p.media_type,
		       p.section, p.tags, p.created_at
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1`
	args := []interface{}{userID}
	if section != "" {
		query += ` AND p.section = $2`
		args = append(args, section)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch posts")
		log.Println("UserPosts query error:", err)
		return
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error scanning posts")
		log.Println("UserPosts scan error:", err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		var section string
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserName, &p.Content,
			&p.MediaURL, &p.MediaType, &section,
			pq.Array(&p.Tags), &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Section = models.Section(section)
		if p.Tags == nil {
			p.Tags = []string{}
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
