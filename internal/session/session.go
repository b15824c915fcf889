// Package session holds the process-wide credential pair (bearer token
// plus anti-forgery token) and the ambient organization id. It is the
// single writer/reader boundary the transport and sync layers share:
// set on login, read before every request, cleared on logout or when a
// request reports an authentication failure.
package session

import (
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// Store is a concurrency-safe session store, optionally persisted to a
// JSON file so credentials survive process restarts.
type Store struct {
	mu       sync.Mutex
	path     string
	state    state
	onChange []func()
}

type state struct {
	Token          string `json:"token,omitempty"`
	CSRFToken      string `json:"csrf_token,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// New returns an in-memory store.
func New() *Store {
	return &Store{}
}

// Open returns a store persisted at path, loading any existing state.
// A missing or unreadable file yields an empty session, not an error;
// a stale session file must never block startup.
func Open(path string) *Store {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(data, &s.state)
	}
	return s
}

// OnChange registers a hook invoked after every mutation. Hooks let
// dependent components react to logout without polling the store.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Token returns the held bearer token, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// SetToken stores a bearer token obtained from login.
func (s *Store) SetToken(token string) {
	s.mutate(func() { s.state.Token = token })
}

// ClearToken drops the bearer token. Called on logout and on any
// observed 401 so no later request retries with a known-bad token.
func (s *Store) ClearToken() {
	s.mutate(func() { s.state.Token = "" })
}

// CSRFToken returns the held anti-forgery token, or "".
func (s *Store) CSRFToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CSRFToken
}

// SetCSRFToken stores the cookie-sourced anti-forgery token.
func (s *Store) SetCSRFToken(token string) {
	s.mutate(func() { s.state.CSRFToken = token })
}

// OrganizationID returns the ambient organization id, or "".
func (s *Store) OrganizationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.OrganizationID
}

// SetOrganizationID stores the organization id from a login response.
func (s *Store) SetOrganizationID(id string) {
	s.mutate(func() { s.state.OrganizationID = id })
}

// Clear wipes the whole session (explicit logout).
func (s *Store) Clear() {
	s.mutate(func() { s.state = state{} })
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	hooks := make([]func(), len(s.onChange))
	copy(hooks, s.onChange)
	s.persistLocked()
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		return
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}
