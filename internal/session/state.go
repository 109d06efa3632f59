package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const (
	LangBasque  = "eu"
	LangSpanish = "es"
)

var ErrUnknownRole = errors.New("unknown_role")

// State is the terminal client's persisted session. It is shared by pointer
// between the API client, the gate and the commands.
type State struct {
	mu         sync.Mutex
	path       string
	token      string
	activeRole string
	roles      []string
	lang       string
}

type persisted struct {
	Token      string   `json:"token,omitempty"`
	ActiveRole string   `json:"active_role,omitempty"`
	Roles      []string `json:"user_roles,omitempty"`
	Lang       string   `json:"lang,omitempty"`
}

// DefaultPath is <user config dir>/mendizabala/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "mendizabala", "session.json"), nil
}

// New returns an empty in-memory state bound to path. An empty path never
// touches the filesystem.
func New(path string) *State {
	return &State{path: path, lang: LangBasque}
}

// Load reads the state at path. A missing file yields an empty state.
func Load(path string) (*State, error) {
	s := New(path)
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.token = p.Token
	s.activeRole = p.ActiveRole
	s.roles = p.Roles
	if p.Lang == LangSpanish || p.Lang == LangBasque {
		s.lang = p.Lang
	}
	return s, nil
}

func (s *State) Save() error {
	s.mu.Lock()
	p := persisted{Token: s.token, ActiveRole: s.activeRole, Roles: slices.Clone(s.roles), Lang: s.lang}
	path := s.path
	s.mu.Unlock()
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, path)
}

func (s *State) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Begin stores a fresh login. The active role is kept only if the new role
// set still contains it.
func (s *State) Begin(token string, roles []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.roles = slices.Clone(roles)
	if !slices.Contains(s.roles, s.activeRole) {
		s.activeRole = ""
	}
}

// ClearToken drops the credentials. Language survives a logout.
func (s *State) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.activeRole = ""
	s.roles = nil
}

// Clear resets the session and persists the result.
func (s *State) Clear() error {
	s.ClearToken()
	return s.Save()
}

func (s *State) Roles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.roles)
}

func (s *State) ActiveRole() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRole
}

func (s *State) SelectRole(role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.roles, role) {
		return ErrUnknownRole
	}
	s.activeRole = role
	return nil
}

func (s *State) Lang() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *State) SetLang(lang string) error {
	if lang != LangBasque && lang != LangSpanish {
		return fmt.Errorf("unsupported language %q", lang)
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	return nil
}
