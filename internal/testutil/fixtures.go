package testutil

import (
	"github.com/google/uuid"

	"gamelib-service/internal/domain"
)

// SampleGame returns a played, completed game fixture with the provided id.
// A blank id mints a fresh one.
func SampleGame(id string) domain.Game {
	if id == "" {
		id = uuid.NewString()
	}
	return domain.Game{
		ID:       id,
		Name:     "Sample Game",
		Genre:    "Adventure",
		Platform: "PC",
		Price:    29.99,
		Status:   domain.StatusCompleted,
		Rating:   8,
		PlayLogs: []domain.PlayLog{
			{ID: uuid.NewString(), Date: "2024-03-04", Hours: 2},
			{ID: uuid.NewString(), Date: "2024-03-05", Hours: 3},
		},
	}
}

// SampleSnapshot builds a LibrarySnapshot with a single sample game.
func SampleSnapshot(id, updatedAt string) domain.LibrarySnapshot {
	return domain.NewLibrarySnapshot("", []domain.Game{SampleGame(id)}, updatedAt)
}
