package localstore

import (
	"github.com/rs/zerolog/log"

	"github.com/frontdeskhq/console/internal/models"
	"github.com/frontdeskhq/console/internal/session"
)

const (
	keySession = "session"
	keyTheme   = "theme"
	keyLayout  = "layout"
)

// SessionStore implements session.Store on top of the sqlite key/value
// table, so a sign-in survives restarting the console.
type SessionStore struct {
	db *Store
}

func NewSessionStore(db *Store) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Session() (session.Session, bool) {
	var sess session.Session
	ok, err := s.db.GetJSON(keySession, &sess)
	if err != nil {
		log.Warn().Err(err).Msg("could not read stored session")
		return session.Session{}, false
	}
	return sess, ok && sess.Valid()
}

func (s *SessionStore) SetSession(sess session.Session) error {
	return s.db.SetJSON(keySession, sess)
}

// Clear removes the session only. Theme and layout stay, so the next
// sign-in looks the way the user left things.
func (s *SessionStore) Clear() error {
	return s.db.Delete(keySession)
}

func (s *SessionStore) Theme() string {
	theme, ok, err := s.db.Get(keyTheme)
	if err != nil {
		log.Warn().Err(err).Msg("could not read stored theme")
		return ""
	}
	if !ok {
		return ""
	}
	return theme
}

func (s *SessionStore) SetTheme(theme string) error {
	return s.db.Set(keyTheme, theme)
}

// SaveLayoutCache keeps a local copy of the call layout so the detail view
// can come up arranged before (or without) the server answering.
func (s *SessionStore) SaveLayoutCache(prefs models.CallLayoutPreferences) error {
	return s.db.SetJSON(keyLayout, prefs)
}

func (s *SessionStore) LayoutCache() (models.CallLayoutPreferences, bool) {
	var prefs models.CallLayoutPreferences
	ok, err := s.db.GetJSON(keyLayout, &prefs)
	if err != nil {
		log.Warn().Err(err).Msg("could not read cached layout")
		return models.CallLayoutPreferences{}, false
	}
	return prefs, ok
}
