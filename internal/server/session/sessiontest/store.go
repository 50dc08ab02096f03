// Package sessiontest содержит хранилище сессий в памяти для тестов.
package sessiontest

import (
	"context"
	"sync"
	"time"

	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store — потокобезопасная реализация session.Store поверх map.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry

	// Err, если задан, возвращается из всех методов.
	Err error
}

func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) Get(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.entries[id]
	if !ok || !e.expiresAt.After(time.Now()) {
		return nil, serr.ErrNotFound
	}
	return append([]byte(nil), e.data...), nil
}

func (s *Store) Save(_ context.Context, id string, data []byte, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.entries[id] = entry{data: append([]byte(nil), data...), expiresAt: expiresAt}
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.entries, id)
	return nil
}

// Len — сколько сессий сейчас лежит в хранилище.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Has проверяет наличие сессии с данным id.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}
