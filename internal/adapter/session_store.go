package adapter

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	m "luaveil.dev/pkg/luaveil/internal/model"
)

// SessionStore persists the last obfuscation between runs.
type SessionStore interface {
	SaveSession(path m.Path, session m.Session) error
	LoadSession(path m.Path) (m.Session, error)
}

// sessionFile is the on-disk layout. Each slot is independent and may be
// missing.
type sessionFile struct {
	LuaCode          string `yaml:"lua_code,omitempty"`
	ObfuscatedCode   string `yaml:"obfuscated_code,omitempty"`
	ObfuscationLevel int    `yaml:"obfuscation_level,omitempty"`
}

// YAMLSessionStore keeps the session in a YAML file.
type YAMLSessionStore struct{}

// NewYAMLSessionStore constructs a YAMLSessionStore.
func NewYAMLSessionStore() *YAMLSessionStore {
	return &YAMLSessionStore{}
}

// SaveSession writes session to path, replacing any previous one.
func (s *YAMLSessionStore) SaveSession(path m.Path, session m.Session) error {
	data, err := yaml.Marshal(sessionFile{
		LuaCode:          session.Input,
		ObfuscatedCode:   session.Output,
		ObfuscationLevel: int(session.Level),
	})
	if err != nil {
		return errors.Wrap(err, "encode session")
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return errors.Wrapf(err, "create session dir for %s", path)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return errors.Wrapf(err, "write session %s", path)
	}

	return nil
}

// LoadSession reads the session at path. A missing file yields an error
// matching os.ErrNotExist.
func (s *YAMLSessionStore) LoadSession(path m.Path) (m.Session, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Session{}, errors.Wrapf(err, "read session %s", path)
	}

	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return m.Session{}, errors.Wrapf(err, "decode session %s", path)
	}

	return m.Session{
		Input:  f.LuaCode,
		Output: f.ObfuscatedCode,
		Level:  m.Level(f.ObfuscationLevel),
	}, nil
}
