package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

const (
	tokenFileName = "token"
	userFileName  = "user.json"
)

// FileStore keeps the session under a directory, one file per key. Writes
// go through a temp file plus rename; the user profile lands before the
// token so a crash between the two renames leaves a state that Load
// rejects as absent rather than a token without a profile.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, errors.New("session dir is empty")
	}
	if err := os.MkdirAll(trimmed, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: trimmed}, nil
}

func (s *FileStore) Load(_ context.Context) (model.Session, bool, error) {
	token, err := os.ReadFile(filepath.Join(s.dir, tokenFileName))
	if err != nil {
		return model.Session{}, false, nil
	}

	userRaw, err := os.ReadFile(filepath.Join(s.dir, userFileName))
	if err != nil {
		return model.Session{}, false, nil
	}

	var user model.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		return model.Session{}, false, nil
	}

	session := model.Session{
		Token: strings.TrimSpace(string(token)),
		User:  user,
	}
	if session.IsZero() {
		return model.Session{}, false, nil
	}
	return session, true, nil
}

func (s *FileStore) Save(_ context.Context, session model.Session) error {
	if session.IsZero() {
		return errors.New("refusing to save incomplete session")
	}

	userRaw, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshal user profile: %w", err)
	}

	if err := s.writeFile(userFileName, userRaw); err != nil {
		return err
	}
	if err := s.writeFile(tokenFileName, []byte(session.Token)); err != nil {
		return err
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	// Token first: a leftover profile without a token reads as absent.
	if err := removeIfExists(filepath.Join(s.dir, tokenFileName)); err != nil {
		return err
	}
	return removeIfExists(filepath.Join(s.dir, userFileName))
}

func (s *FileStore) writeFile(name string, data []byte) error {
	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
	}
	return nil
}
