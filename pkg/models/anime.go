package models

import "time"

// Anime is a local catalogue entry. IDs are either autogenerated or, for rows
// imported from the external API, equal to the external (MAL) id so later
// lookups line up.
type Anime struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Synopsis        string    `json:"synopsis,omitempty"`
	Genre           string    `json:"genre,omitempty"` // comma-joined when multiple
	Year            string    `json:"year,omitempty"`  // not strictly numeric, may be "N/A"
	Rating          string    `json:"rating,omitempty"`
	Duration        string    `json:"duration,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	BackgroundImage string    `json:"backgroundImage,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
