package auth

import (
	"time"

	"github.com/yashrajoria/pharmacy-storefront/models"
	"go.uber.org/zap"
)

// SessionStore derives the current session from a CredentialStore.
// Nothing is cached besides the credential itself.
type SessionStore struct {
	creds  CredentialStore
	now    func() time.Time
	logger *zap.Logger
}

func NewSessionStore(creds CredentialStore, logger *zap.Logger) *SessionStore {
	return &SessionStore{creds: creds, now: time.Now, logger: logger}
}

// WithClock replaces the time source, for tests.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

// Credentials exposes the underlying store to the API client.
func (s *SessionStore) Credentials() CredentialStore {
	return s.creds
}

// Current returns nil when there is no usable credential. It never fails.
func (s *SessionStore) Current() *models.Session {
	token, ok := s.creds.Token()
	if !ok {
		return nil
	}
	session, err := DecodeSession(token, s.now())
	if err != nil {
		s.logger.Warn("Discarding unusable credential", zap.Error(err))
		return nil
	}
	return session
}

// Persist saves token only if it decodes into a session.
func (s *SessionStore) Persist(token string) (*models.Session, error) {
	session, err := DecodeSession(token, s.now())
	if err != nil {
		return nil, err
	}
	s.creds.Save(token)
	return session, nil
}

func (s *SessionStore) Clear() {
	s.creds.Clear()
}
