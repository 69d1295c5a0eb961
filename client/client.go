package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/HR1937/community-care/models"
)

// APIError is a response the backend answered but rejected. Message is
// whatever the server put in its error body, empty when it sent none;
// callers surface it verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// Client talks to the Community Care backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type AuthResult struct {
	Token  string
	UserID string
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (AuthResult, error) {
	return c.authenticate(ctx, "/signup", models.SignupRequest{Name: name, Email: email, Password: password})
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	return c.authenticate(ctx, "/login", models.LoginRequest{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (AuthResult, error) {
	resp, err := c.postJSON(ctx, path, body)
	if err != nil {
		return AuthResult{}, err
	}
	defer resp.Body.Close()

	raw, err := decodeBody(resp)
	if err != nil {
		return AuthResult{}, err
	}

	// Token and user_id arrive either at the top level or wrapped in
	// a data envelope depending on the deployment in front of us.
	result := AuthResult{
		Token:  stringField(raw, "token"),
		UserID: stringField(raw, "user_id"),
	}
	if result.Token == "" {
		return AuthResult{}, &APIError{Status: resp.StatusCode, Message: messageField(raw)}
	}
	return result, nil
}

// Feed fetches posts, optionally filtered by section ("" or "all" means
// everything).
func (c *Client) Feed(ctx context.Context, token, section string) ([]models.Post, error) {
	path := "/feed"
	if section != "" && section != "all" {
		path += "?section=" + url.QueryEscape(section)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := decodeBody(resp)
		return nil, &APIError{Status: resp.StatusCode, Message: messageField(raw)}
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return decodePosts(payload)
}

// UserPosts fetches the caller's posts for one section. The token goes in
// the body, matching the backend's contract.
func (c *Client) UserPosts(ctx context.Context, token, section string) ([]models.Post, error) {
	path := "/user/posts"
	if section != "" {
		path += "?section=" + url.QueryEscape(section)
	}
	resp, err := c.postJSON(ctx, path, map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := decodeBody(resp)
		return nil, &APIError{Status: resp.StatusCode, Message: messageField(raw)}
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return decodePosts(payload)
}

func (c *Client) Stats(ctx context.Context, token string) (models.SectionStats, error) {
	var stats models.SectionStats
	resp, err := c.postJSON(ctx, "/user/stats", map[string]string{"token": token})
	if err != nil {
		return stats, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := decodeBody(resp)
		return stats, &APIError{Status: resp.StatusCode, Message: messageField(raw)}
	}
	err = json.NewDecoder(resp.Body).Decode(&stats)
	return stats, err
}

// CreatePost submits a post record. The media has already been uploaded
// to the host by this point; URL and type ride along in the body.
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) error {
	resp, err := c.postJSON(ctx, "/posts", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	raw, _ := decodeBody(resp)
	return &APIError{Status: resp.StatusCode, Message: messageField(raw)}
}

// RequestHelp triggers a neighbour help request on behalf of an elder.
func (c *Client) RequestHelp(ctx context.Context, lat, lng, elderID string) (string, error) {
	q := url.Values{}
	q.Set("elderLat", lat)
	q.Set("elderLng", lng)
	q.Set("elderId", elderID)

	resp, err := c.postJSON(ctx, "/api/upload?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := decodeBody(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Status: resp.StatusCode, Message: messageField(raw)}
	}
	return stringField(raw, "requestId"), nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

// decodePosts accepts the three historical feed shapes: a bare array,
// {"data": [...]}, and {"posts": [...]}.
func decodePosts(payload json.RawMessage) ([]models.Post, error) {
	var posts []models.Post
	if err := json.Unmarshal(payload, &posts); err == nil {
		return posts, nil
	}

	var wrapped struct {
		Data  []models.Post `json:"data"`
		Posts []models.Post `json:"posts"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected feed response shape")
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Posts != nil {
		return wrapped.Posts, nil
	}
	return []models.Post{}, nil
}

func decodeBody(resp *http.Response) (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// stringField finds key at the top level or inside a data envelope.
func stringField(raw map[string]json.RawMessage, key string) string {
	if v, ok := raw[key]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			return s
		}
	}
	if data, ok := raw["data"]; ok {
		inner := map[string]json.RawMessage{}
		if json.Unmarshal(data, &inner) == nil {
			if v, ok := inner[key]; ok {
				var s string
				if json.Unmarshal(v, &s) == nil {
					return s
				}
			}
		}
	}
	return ""
}

func messageField(raw map[string]json.RawMessage) string {
	return stringField(raw, "message")
}
