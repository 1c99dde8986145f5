// Package answerstore reads raw questionnaire answers per candidate session.
package answerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Section string

const (
	Personality Section = "personality"
	Interest    Section = "interest"
	Preferences Section = "preferences"
	Intake      Section = "intake"
)

// Sections lists every section a session may hold, in fetch order.
func Sections() []Section {
	return []Section{Personality, Interest, Preferences, Intake}
}

// ErrNotFound is returned when the session has no data for a section.
var ErrNotFound = errors.New("answer section not found")

// Store returns the raw JSON payload of one section of a session.
type Store interface {
	Section(ctx context.Context, session string, section Section) (json.RawMessage, error)
}

// Writer stores one section payload.
type Writer interface {
	Put(ctx context.Context, session string, section Section, payload json.RawMessage) error
}

// Copy moves every section of session from src to dst. Missing sections are
// skipped; the number of copied sections is returned.
func Copy(ctx context.Context, src Store, dst Writer, session string) (int, error) {
	copied := 0
	for _, section := range Sections() {
		payload, err := src.Section(ctx, session, section)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return copied, err
		}
		if err := dst.Put(ctx, session, section, payload); err != nil {
			return copied, fmt.Errorf("write %s/%s: %w", session, section, err)
		}
		copied++
	}
	return copied, nil
}

// FileStore keeps every section as <dir>/<session>/<section>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Section(ctx context.Context, session string, section Section) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.path(session, section)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", session, section, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}

	return json.RawMessage(data), nil
}

// Put writes a section payload, creating the session directory when needed.
func (s *FileStore) Put(ctx context.Context, session string, section Section, payload json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(session, section)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return os.WriteFile(path, payload, 0o644)
}

func (s *FileStore) path(session string, section Section) (string, error) {
	if err := ValidateSession(session); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, session, string(section)+".json"), nil
}

// ValidateSession rejects ids that are empty or could escape a directory.
func ValidateSession(session string) error {
	if strings.TrimSpace(session) == "" {
		return errors.New("session id is empty")
	}
	if strings.ContainsAny(session, `/\`) || session == "." || session == ".." {
		return fmt.Errorf("session id %q contains path separators", session)
	}
	return nil
}
