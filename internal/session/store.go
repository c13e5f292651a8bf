// Package session holds the signed-in user's tokens and preferences, the
// console's equivalent of browser local storage.
package session

import (
	"sync"

	"github.com/frontdeskhq/console/internal/models"
)

// Session is everything the console keeps about a signed-in user.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         models.UserInfo
}

func (s Session) Valid() bool { return s.AccessToken != "" }

// Store persists the session and small UI preferences across operations.
// Implementations must be safe for concurrent use.
type Store interface {
	Session() (Session, bool)
	SetSession(s Session) error
	// Clear wipes tokens and user info but leaves preferences alone, so a
	// re-login comes back to the same theme.
	Clear() error
	Theme() string
	SetTheme(theme string) error
}

// MemoryStore keeps the session in process memory only. It backs tests and
// ephemeral runs (FRONTDESK_EPHEMERAL); normal runs use the sqlite-backed
// store.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
	set     bool
	theme   string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Session() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.set && m.session.Valid()
}

func (m *MemoryStore) SetSession(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.set = true
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	m.set = false
	return nil
}

func (m *MemoryStore) Theme() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

func (m *MemoryStore) SetTheme(theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	return nil
}
