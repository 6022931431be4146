package services

import (
	"context"
	"errors"
	"fmt"

	"skillnexis/backend/models"
	"skillnexis/backend/store"
)

// SessionStore persists sessions under their own keys next to the admin
// collections.
type SessionStore struct {
	store store.Store
}

func NewSessionStore(s store.Store) *SessionStore {
	return &SessionStore{store: s}
}

func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	data, err := store.Encode(session)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, store.SessionKey(session.ID), data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	data, err := s.store.Get(ctx, store.SessionKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session models.Session
	if err := store.Decode(data, &session); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	session.User.Normalize()
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.SessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
