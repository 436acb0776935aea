package store

import (
	"context"
	"sync"

	"gamelib-service/internal/domain"
)

// MemoryStore keeps a thread-safe copy of the library in memory. Listing
// preserves insertion order so repeated reads return stable results.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]domain.Game
	order []string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]domain.Game),
	}
}

// ListGames returns a copy of the current games in insertion order.
func (s *MemoryStore) ListGames(ctx context.Context) ([]domain.Game, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Game, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.games[id])
	}
	return result, nil
}

// GetGame retrieves a game by ID.
func (s *MemoryStore) GetGame(ctx context.Context, id string) (domain.Game, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	return g, ok, nil
}

// PutGame inserts or replaces a game.
func (s *MemoryStore) PutGame(ctx context.Context, game domain.Game) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[game.ID]; !exists {
		s.order = append(s.order, game.ID)
	}
	s.games[game.ID] = game
	return nil
}

// DeleteGame removes a game, reporting whether it existed.
func (s *MemoryStore) DeleteGame(ctx context.Context, id string) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; !exists {
		return false, nil
	}
	delete(s.games, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// ReplaceGames swaps the existing library with a new snapshot.
func (s *MemoryStore) ReplaceGames(ctx context.Context, games []domain.Game) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]domain.Game, len(games))
	s.order = make([]string, 0, len(games))
	for _, g := range games {
		if _, exists := s.games[g.ID]; !exists {
			s.order = append(s.order, g.ID)
		}
		s.games[g.ID] = g
	}
	return nil
}
