package services

import (
	"trustive/internal/models"
	"trustive/internal/providers"
	"trustive/internal/storage"
)

type SessionServiceInterface interface {
	Start(session models.Session) error
	Current() models.Session
	End() error
}

// SessionService keeps the single current session of the storage origin
// under one key.
type SessionService struct {
	slot   *storage.Collection[models.Session]
	logger providers.Logger
}

func NewSessionService(kv storage.KeyValueStorage, logger providers.Logger) SessionServiceInterface {
	return &SessionService{
		slot:   storage.NewCollection(kv, SessionKey, func() models.Session { return models.Session{} }, logger),
		logger: logger,
	}
}

func (ss *SessionService) Start(session models.Session) error {
	session.LoggedIn = true
	if err := ss.slot.Save(session); err != nil {
		return err
	}
	ss.logger.Infof(providers.TypeAuth, "Session started for %s %s", session.Role, session.AccountID())
	return nil
}

// Current returns the stored snapshot, or a logged-out session when none is
// stored or it cannot be decoded.
func (ss *SessionService) Current() models.Session {
	session, ok := ss.slot.Peek()
	if !ok {
		return models.Session{}
	}
	return session
}

func (ss *SessionService) End() error {
	return ss.slot.Clear()
}
