package models

import "time"

// Watch statuses for a list entry.
const (
	StatusWatching    = "watching"
	StatusCompleted   = "completed"
	StatusPlanToWatch = "plan-to-watch"
	StatusDropped     = "dropped"
	StatusOnHold      = "on-hold"
)

// WatchlistEntry is the join row between a user and an anime, one per pair.
type WatchlistEntry struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	AnimeID         int64     `json:"animeId"`
	Status          string    `json:"status"`
	IsFavorite      bool      `json:"isFavorite"`
	Rating          *int      `json:"rating,omitempty"` // 1-5 when set
	WatchedEpisodes int       `json:"watchedEpisodes"`
	Notes           string    `json:"notes,omitempty"`
	AddedAt         time.Time `json:"addedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Anime *Anime `json:"anime,omitempty"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusPlanToWatch, StatusDropped, StatusOnHold:
		return true
	}
	return false
}
