package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ErrNoToken means no credential is configured. Callers may fall back to
// anonymous, read-only access.
var ErrNoToken = errors.New("no access token")

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// StaticToken is a TokenProvider for a token known up front. The empty
// StaticToken is anonymous.
type StaticToken string

func (s StaticToken) AccessToken() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// Anonymous never has a token.
var Anonymous TokenProvider = StaticToken("")

// FileTokenProvider reads a bearer token from a file on disk.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// AccessToken reads and returns the token, trimming whitespace. A missing
// or empty file wraps ErrNoToken.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading token from %s: %w", f.path, ErrNoToken)
	}
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty: %w", f.path, ErrNoToken)
	}

	return token, nil
}
