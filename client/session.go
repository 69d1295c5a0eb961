package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenFileName = "token"

// Session persists the bearer token between runs, the way the browser
// kept it under a single localStorage key. Created on login/signup,
// destroyed on logout; expiry is only discovered when an authenticated
// request fails.
type Session struct {
	path string
}

func NewSession() (*Session, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewSessionAt(filepath.Join(dir, "communitycare", tokenFileName)), nil
}

func NewSessionAt(path string) *Session {
	return &Session{path: path}
}

// Token returns the stored credential, if any.
func (s *Session) Token() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (s *Session) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0600)
}

func (s *Session) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Identity is what the token claims about the user. It is decoded without
// signature verification: the client only displays it, the server is the
// one that checks.
type Identity struct {
	UserID    string
	ExpiresAt time.Time
}

func (s *Session) Identity() (Identity, error) {
	token, ok := s.Token()
	if !ok {
		return Identity{}, fmt.Errorf("not logged in")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("stored token is malformed: %w", err)
	}

	var id Identity
	if uid, ok := claims["user_id"].(string); ok {
		id.UserID = uid
	}
	if exp, ok := claims["exp"].(float64); ok {
		id.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return id, nil
}
