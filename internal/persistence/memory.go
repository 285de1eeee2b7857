// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/models"
)

// MemoryStore implements Store with in-process maps. Values are stored
// encoded so callers never share memory with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) get(key string, out any) error {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *MemoryStore) SaveAuthState(_ context.Context, userID uuid.UUID, authenticated bool) error {
	return s.put(authKeyPrefix+userID.String(), authenticated)
}

func (s *MemoryStore) LoadAuthState(_ context.Context, userID uuid.UUID) (bool, error) {
	var authenticated bool
	if err := s.get(authKeyPrefix+userID.String(), &authenticated); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return authenticated, nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user *models.User) error {
	return s.put(userKeyPrefix+user.ID.String(), user)
}

func (s *MemoryStore) LoadUser(_ context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.get(userKeyPrefix+userID.String(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MemoryStore) SaveMyList(_ context.Context, userID uuid.UUID, list []models.Content) error {
	return s.put(myListKeyPrefix+userID.String(), list)
}

func (s *MemoryStore) LoadMyList(_ context.Context, userID uuid.UUID) ([]models.Content, error) {
	list := []models.Content{}
	if err := s.get(myListKeyPrefix+userID.String(), &list); err != nil && err != ErrNotFound {
		return nil, err
	}
	for i := range list {
		list[i].LinkEpisodes()
	}
	return list, nil
}

func (s *MemoryStore) SaveComments(_ context.Context, userID uuid.UUID, comments []models.Comment) error {
	return s.put(commentsKeyPrefix+userID.String(), comments)
}

func (s *MemoryStore) LoadComments(_ context.Context, userID uuid.UUID) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := s.get(commentsKeyPrefix+userID.String(), &comments); err != nil && err != ErrNotFound {
		return nil, err
	}
	return comments, nil
}

func (s *MemoryStore) SaveInteractions(_ context.Context, sets InteractionSets) error {
	return s.put(interactionsKey, sets)
}

func (s *MemoryStore) LoadInteractions(_ context.Context) (InteractionSets, error) {
	var sets InteractionSets
	if err := s.get(interactionsKey, &sets); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NewInteractionSets(), nil
		}
		return InteractionSets{}, err
	}
	sets.fill()
	return sets, nil
}

func (s *MemoryStore) SaveCredential(_ context.Context, email string, hash []byte) error {
	s.mu.Lock()
	s.data[credentialKeyPrefix+NormalizeEmail(email)] = append([]byte(nil), hash...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadCredential(_ context.Context, email string) ([]byte, error) {
	s.mu.RLock()
	hash, ok := s.data[credentialKeyPrefix+NormalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), hash...), nil
}

func (s *MemoryStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	for _, key := range userKeys(userID) {
		delete(s.data, key)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
