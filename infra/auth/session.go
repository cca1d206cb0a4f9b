package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// Session is the signed-in user and their bearer token, as stored on disk.
type Session struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Token    string `json:"token"`
}

// User returns the acting user. It is anonymous when the session is empty.
func (s Session) User() domain.User {
	return domain.User{ID: s.UserID, Name: s.UserName}
}

// SessionStore persists a Session as a JSON file. It is also a
// TokenProvider for the stored token.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store backed by path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Path is the session file location.
func (s *SessionStore) Path() string { return s.path }

// Load reads the session. A missing file is an empty session.
func (s *SessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session %s: %w", s.path, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parsing session %s: %w", s.path, err)
	}
	sess.UserID = strings.TrimSpace(sess.UserID)
	sess.Token = strings.TrimSpace(sess.Token)
	return sess, nil
}

// Save writes the session with owner-only permissions.
func (s *SessionStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored session.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// AccessToken returns the stored token, or ErrNoToken.
func (s *SessionStore) AccessToken() (string, error) {
	sess, err := s.Load()
	if err != nil {
		return "", err
	}
	if sess.Token == "" {
		return "", ErrNoToken
	}
	return sess.Token, nil
}
