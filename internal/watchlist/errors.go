package watchlist

import "errors"

var (
	ErrAnimeNotFound   = errors.New("anime not found")
	ErrAlreadyInList   = errors.New("anime already in your list")
	ErrNotInList       = errors.New("anime not in your list")
	ErrInvalidStatus   = errors.New("invalid watch status")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidEpisodes = errors.New("watched episodes cannot be negative")
	ErrNotesTooLong    = errors.New("notes cannot exceed 500 characters")
)
