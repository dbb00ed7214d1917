package jikan

import (
	"context"
	"strconv"
	"strings"

	"animehub/internal/anime"
	"animehub/internal/watchlist"
	"animehub/pkg/models"
)

// PlaceholderImage is used when the external record carries no usable poster.
const PlaceholderImage = "https://via.placeholder.com/225x319?text=No+Image"

// MapAnime flattens an external record onto the local catalogue shape.
// Each field falls through its known variants before giving up.
func MapAnime(d *AnimeData) models.Anime {
	title := d.Title
	if title == "" {
		title = d.TitleEnglish
	}
	if title == "" {
		title = d.TitleJapanese
	}

	year := "N/A"
	switch {
	case d.Year > 0:
		year = strconv.Itoa(d.Year)
	case d.Aired.Prop.From.Year > 0:
		year = strconv.Itoa(d.Aired.Prop.From.Year)
	}

	image := d.Images.JPG.LargeImageURL
	for _, candidate := range []string{d.Images.JPG.ImageURL, d.Images.WebP.LargeImageURL, d.Images.WebP.ImageURL} {
		if image != "" {
			break
		}
		image = candidate
	}
	if image == "" {
		image = PlaceholderImage
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	return models.Anime{
		ID:       d.MalID,
		Title:    title,
		Synopsis: d.Synopsis,
		Genre:    strings.Join(genres, ", "),
		Year:     year,
		Rating:   d.Rating,
		Duration: d.Duration,
		ImageURL: image,
	}
}

// Importer copies external records into the local catalogue and onto a
// user's list.
type Importer struct {
	Client *Client
	Animes *anime.Repo
	Lists  *watchlist.Service
}

func NewImporter(client *Client, animes *anime.Repo, lists *watchlist.Service) *Importer {
	return &Importer{Client: client, Animes: animes, Lists: lists}
}

// ImportAndFavorite fetches the external record, upserts the local anime
// row keyed by the external id (last write wins, no merge), then favorites
// the user's entry, creating it when absent.
func (i *Importer) ImportAndFavorite(ctx context.Context, externalID, userID int64) (*models.WatchlistEntry, error) {
	d, err := i.Client.GetAnime(ctx, externalID)
	if err != nil {
		return nil, err
	}

	a := MapAnime(d)
	if err := i.Animes.Upsert(ctx, a); err != nil {
		return nil, err
	}

	return i.Lists.FavoriteOrCreate(ctx, userID, a.ID)
}
