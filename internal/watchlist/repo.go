package watchlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"animehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type ListOptions struct {
	Status    string
	Favorite  *bool
	SortBy    string // title | addedAt | rating
	SortOrder string // ASC | DESC
	Page      int
	Limit     int
	Paginate  bool
}

const entryColumns = `
	w.id, w.user_id, w.anime_id, w.status, w.is_favorite, w.rating,
	w.watched_episodes, w.notes, w.added_at, w.created_at, w.updated_at,
	a.id, a.title, a.synopsis, a.genre, a.year, a.rating, a.duration,
	a.image_url, a.background_image, a.created_at, a.updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.WatchlistEntry, error) {
	var (
		e      models.WatchlistEntry
		a      models.Anime
		rating sql.NullInt64
		notes  sql.NullString

		synopsis, genre, year, aRating, duration, imageURL, background sql.NullString
	)
	if err := row.Scan(
		&e.ID, &e.UserID, &e.AnimeID, &e.Status, &e.IsFavorite, &rating,
		&e.WatchedEpisodes, &notes, &e.AddedAt, &e.CreatedAt, &e.UpdatedAt,
		&a.ID, &a.Title, &synopsis, &genre, &year, &aRating, &duration,
		&imageURL, &background, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if rating.Valid {
		v := int(rating.Int64)
		e.Rating = &v
	}
	e.Notes = notes.String
	a.Synopsis = synopsis.String
	a.Genre = genre.String
	a.Year = year.String
	a.Rating = aRating.String
	a.Duration = duration.String
	a.ImageURL = imageURL.String
	a.BackgroundImage = background.String
	e.Anime = &a
	return &e, nil
}

// Create inserts a new entry. The UNIQUE(user_id, anime_id) index is the
// arbiter under concurrent adds: exactly one insert wins, the loser gets
// ErrAlreadyInList.
func (r *Repo) Create(ctx context.Context, e models.WatchlistEntry) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO watchlist (user_id, anime_id, status, is_favorite, rating, watched_episodes, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.UserID, e.AnimeID, e.Status, e.IsFavorite, ratingArg(e.Rating), e.WatchedEpisodes, e.Notes)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrAlreadyInList
		}
		return 0, fmt.Errorf("create watchlist entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create watchlist entry id: %w", err)
	}
	return id, nil
}

func (r *Repo) Get(ctx context.Context, userID, animeID int64) (*models.WatchlistEntry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM watchlist w
		JOIN animes a ON a.id = w.anime_id
		WHERE w.user_id = ? AND w.anime_id = ?
	`, userID, animeID)

	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get watchlist entry: %w", err)
	}
	return e, nil
}

func (r *Repo) Delete(ctx context.Context, userID, animeID int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM watchlist
		WHERE user_id = ? AND anime_id = ?
	`, userID, animeID)
	if err != nil {
		return false, fmt.Errorf("delete watchlist entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Update overwrites the mutable columns of an entry. Partial-update
// semantics live in the service, which loads the row first.
func (r *Repo) Update(ctx context.Context, e models.WatchlistEntry) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE watchlist
		SET status = ?, is_favorite = ?, rating = ?, watched_episodes = ?, notes = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND anime_id = ?
	`, e.Status, e.IsFavorite, ratingArg(e.Rating), e.WatchedEpisodes, e.Notes, e.UserID, e.AnimeID)
	if err != nil {
		return fmt.Errorf("update watchlist entry: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotInList
	}
	return nil
}

func (r *Repo) List(ctx context.Context, userID int64, opts ListOptions) ([]models.WatchlistEntry, int, error) {
	where := []string{"w.user_id = ?"}
	args := []any{userID}

	if opts.Status != "" {
		where = append(where, "w.status = ?")
		args = append(args, opts.Status)
	}
	if opts.Favorite != nil {
		where = append(where, "w.is_favorite = ?")
		args = append(args, *opts.Favorite)
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM watchlist w WHERE `+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count watchlist: %w", err)
	}

	col := "w.added_at"
	switch opts.SortBy {
	case "title":
		col = "a.title"
	case "rating":
		col = "w.rating"
	}
	dir := "DESC"
	if strings.EqualFold(opts.SortOrder, "ASC") {
		dir = "ASC"
	}

	sqlStr := `
		SELECT ` + entryColumns + `
		FROM watchlist w
		JOIN animes a ON a.id = w.anime_id
		WHERE ` + cond + `
		ORDER BY ` + col + ` ` + dir

	if opts.Paginate {
		limit := opts.Limit
		if limit <= 0 || limit > 100 {
			limit = 12
		}
		page := opts.Page
		if page < 1 {
			page = 1
		}
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	out := make([]models.WatchlistEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan watchlist row: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

func ratingArg(r *int) any {
	if r == nil {
		return nil
	}
	return *r
}
