package domain

// GameStatus mirrors the shared contract for library lifecycle states.
type GameStatus string

const (
	StatusNotStarted GameStatus = "NOT_STARTED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusCompleted  GameStatus = "COMPLETED"
	StatusWishlist   GameStatus = "WISHLIST"
	StatusAbandoned  GameStatus = "ABANDONED"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s GameStatus) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusWishlist, StatusAbandoned:
		return true
	}
	return false
}

// PlayLog is one discrete recorded play session. Date carries no time
// component and is always interpreted as a local calendar date.
type PlayLog struct {
	ID    string  `json:"id"`
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Notes string  `json:"notes,omitempty"`
}

// Game is the canonical library entry exposed by the service.
type Game struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Platform  string `json:"platform,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Franchise string `json:"franchise,omitempty"`

	Price              float64 `json:"price"`
	OriginalPrice      float64 `json:"originalPrice,omitempty"`
	AcquiredFree       bool    `json:"acquiredFree,omitempty"`
	PurchaseSource     string  `json:"purchaseSource,omitempty"`
	SubscriptionSource string  `json:"subscriptionSource,omitempty"`
	DatePurchased      string  `json:"datePurchased,omitempty"`

	Status    GameStatus `json:"status"`
	StartDate string     `json:"startDate,omitempty"`
	EndDate   string     `json:"endDate,omitempty"`

	// Hours is the manually entered baseline, independent of PlayLogs.
	Hours  float64 `json:"hours"`
	Rating float64 `json:"rating"`
	Review string  `json:"review,omitempty"`
	Notes  string  `json:"notes,omitempty"`

	// PlayLogs is ordered by insertion, not guaranteed date-sorted.
	PlayLogs []PlayLog `json:"playLogs"`

	Thumbnail     string `json:"thumbnail,omitempty"`
	QueuePosition int    `json:"queuePosition,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TotalHours is the played total: baseline hours plus the sum of logged
// sessions, recomputed on every read and never cached on the entity.
// Negative entries count as zero so one bad record cannot drag down a
// whole-library aggregate.
func (g Game) TotalHours() float64 {
	total := g.Hours
	if total < 0 {
		total = 0
	}
	for _, pl := range g.PlayLogs {
		if pl.Hours > 0 {
			total += pl.Hours
		}
	}
	return total
}

// IsWishlist reports whether the game is excluded from financial and time
// aggregates.
func (g Game) IsWishlist() bool {
	return g.Status == StatusWishlist
}

// LibrarySnapshot is the payload persisted to disk and returned by /games.
type LibrarySnapshot struct {
	UserID    string `json:"userId,omitempty"`
	Games     []Game `json:"games"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// NewLibrarySnapshot builds a snapshot payload, normalizing a nil slice to
// an empty one so JSON consumers always see an array.
func NewLibrarySnapshot(userID string, games []Game, updatedAt string) LibrarySnapshot {
	if games == nil {
		games = []Game{}
	}
	return LibrarySnapshot{UserID: userID, Games: games, UpdatedAt: updatedAt}
}
