package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// ErrNotFound is returned when a game ID has no entry in the store.
var ErrNotFound = errors.New("library: game not found")

// ErrInvalid marks validation failures on incoming game or play log payloads.
var ErrInvalid = errors.New("library: invalid payload")

// Store defines the contract for persisting and retrieving library entries.
type Store interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
	GetGame(ctx context.Context, id string) (domain.Game, bool, error)
	PutGame(ctx context.Context, game domain.Game) error
	DeleteGame(ctx context.Context, id string) (bool, error)
	ReplaceGames(ctx context.Context, games []domain.Game) error
}

// ChangeEvent describes a library mutation for downstream listeners.
type ChangeEvent struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`
	At     string `json:"at"`
}

// Change event types emitted by the Service.
const (
	EventGameCreated     = "game.created"
	EventGameUpdated     = "game.updated"
	EventGameDeleted     = "game.deleted"
	EventPlayLogAdded    = "playlog.added"
	EventLibraryReplaced = "library.replaced"
)

// Notifier receives change events after a mutation commits.
type Notifier interface {
	LibraryChanged(event ChangeEvent)
}

// Notifiers fans a change event out to every listener in order.
type Notifiers []Notifier

func (n Notifiers) LibraryChanged(event ChangeEvent) {
	for _, listener := range n {
		if listener != nil {
			listener.LibraryChanged(event)
		}
	}
}

// Service coordinates library operations using a Store.
type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

// NewService constructs a Service. notifier may be nil; now defaults to
// time.Now when nil.
func NewService(store Store, notifier Notifier, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, notifier: notifier, now: now}
}

// Games returns the current library entries.
func (s *Service) Games(ctx context.Context) ([]domain.Game, error) {
	return s.store.ListGames(ctx)
}

// GameByID returns a single game or ErrNotFound.
func (s *Service) GameByID(ctx context.Context, id string) (domain.Game, error) {
	game, ok, err := s.store.GetGame(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !ok {
		return domain.Game{}, ErrNotFound
	}
	return game, nil
}

// UpsertGame validates and writes a game. A blank ID mints a new one and
// marks the entry created; an existing ID updates in place.
func (s *Service) UpsertGame(ctx context.Context, game domain.Game) (domain.Game, error) {
	if err := validateGame(game); err != nil {
		return domain.Game{}, err
	}

	stamp := s.now().Format(time.RFC3339)
	eventType := EventGameUpdated

	if game.ID == "" {
		game.ID = uuid.NewString()
		game.CreatedAt = stamp
		eventType = EventGameCreated
	} else {
		existing, ok, err := s.store.GetGame(ctx, game.ID)
		if err != nil {
			return domain.Game{}, fmt.Errorf("get game: %w", err)
		}
		if ok {
			game.CreatedAt = existing.CreatedAt
		} else {
			game.CreatedAt = stamp
			eventType = EventGameCreated
		}
	}
	game.UpdatedAt = stamp
	if game.PlayLogs == nil {
		game.PlayLogs = []domain.PlayLog{}
	}

	if err := s.store.PutGame(ctx, game); err != nil {
		return domain.Game{}, fmt.Errorf("put game: %w", err)
	}
	s.notify(ChangeEvent{Type: eventType, GameID: game.ID, At: stamp})
	return game, nil
}

// DeleteGame removes a game or returns ErrNotFound.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	removed, err := s.store.DeleteGame(ctx, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	s.notify(ChangeEvent{Type: EventGameDeleted, GameID: id, At: s.now().Format(time.RFC3339)})
	return nil
}

// AddPlayLog appends a session to a game and returns the updated entry.
// The log date must be a valid local calendar date and hours non-negative.
func (s *Service) AddPlayLog(ctx context.Context, gameID string, log domain.PlayLog) (domain.Game, error) {
	if _, err := timeutil.ParseLocalDate(log.Date); err != nil {
		return domain.Game{}, fmt.Errorf("%w: play log date: %v", ErrInvalid, err)
	}
	if log.Hours < 0 {
		return domain.Game{}, fmt.Errorf("%w: play log hours must be non-negative", ErrInvalid)
	}

	game, err := s.GameByID(ctx, gameID)
	if err != nil {
		return domain.Game{}, err
	}

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	stamp := s.now().Format(time.RFC3339)
	game.PlayLogs = append(game.PlayLogs, log)
	game.UpdatedAt = stamp

	if err := s.store.PutGame(ctx, game); err != nil {
		return domain.Game{}, fmt.Errorf("put game: %w", err)
	}
	s.notify(ChangeEvent{Type: EventPlayLogAdded, GameID: game.ID, At: stamp})
	return game, nil
}

// ReplaceLibrary swaps the full library contents with a new snapshot. Every
// entry is validated before any write happens.
func (s *Service) ReplaceLibrary(ctx context.Context, games []domain.Game) error {
	stamp := s.now().Format(time.RFC3339)
	for i := range games {
		if err := validateGame(games[i]); err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
		if games[i].ID == "" {
			games[i].ID = uuid.NewString()
			games[i].CreatedAt = stamp
		}
		if games[i].CreatedAt == "" {
			games[i].CreatedAt = stamp
		}
		games[i].UpdatedAt = stamp
		if games[i].PlayLogs == nil {
			games[i].PlayLogs = []domain.PlayLog{}
		}
	}
	if err := s.store.ReplaceGames(ctx, games); err != nil {
		return fmt.Errorf("replace games: %w", err)
	}
	s.notify(ChangeEvent{Type: EventLibraryReplaced, At: stamp})
	return nil
}

func (s *Service) notify(event ChangeEvent) {
	if s.notifier != nil {
		s.notifier.LibraryChanged(event)
	}
}

func validateGame(game domain.Game) error {
	if game.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if game.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalid)
	}
	if !domain.ValidStatus(game.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, game.Status)
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"datePurchased", game.DatePurchased},
		{"startDate", game.StartDate},
		{"endDate", game.EndDate},
	} {
		if field.value == "" {
			continue
		}
		if _, err := timeutil.ParseLocalDate(field.value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, field.name, err)
		}
	}
	for _, log := range game.PlayLogs {
		if _, err := timeutil.ParseLocalDate(log.Date); err != nil {
			return fmt.Errorf("%w: play log %q date: %v", ErrInvalid, log.ID, err)
		}
	}
	return nil
}
