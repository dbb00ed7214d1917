package anime

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"animehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type ListQuery struct {
	Genre     string // substring match
	Year      string // exact match
	MinRating float64
	HasMin    bool
	SortBy    string // title | year | rating
	SortOrder string // ASC | DESC
	Page      int
	Limit     int
}

const animeColumns = `id, title, synopsis, genre, year, rating, duration, image_url, background_image, created_at, updated_at`

func scanAnime(row interface{ Scan(...any) error }) (*models.Anime, error) {
	var (
		a          models.Anime
		synopsis   sql.NullString
		genre      sql.NullString
		year       sql.NullString
		rating     sql.NullString
		duration   sql.NullString
		imageURL   sql.NullString
		background sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.Title, &synopsis, &genre, &year, &rating, &duration,
		&imageURL, &background, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Synopsis = synopsis.String
	a.Genre = genre.String
	a.Year = year.String
	a.Rating = rating.String
	a.Duration = duration.String
	a.ImageURL = imageURL.String
	a.BackgroundImage = background.String
	return &a, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+animeColumns+`
		FROM animes
		WHERE id = ?
	`, id)

	a, err := scanAnime(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get anime: %w", err)
	}
	return a, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count animes: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Anime, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list animes: %w", err)
	}
	defer rows.Close()

	out := make([]models.Anime, 0, q.Limit)
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan anime row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL builds either the COUNT(*) or the paged SELECT for the
// catalogue. Filters are conjunctive; an unset filter adds no clause.
// Sort columns are whitelisted, never interpolated from user input.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	sqlStr := `SELECT ` + animeColumns + ` FROM animes`
	if countOnly {
		sqlStr = `SELECT COUNT(*) FROM animes`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Genre) != "" {
		where = append(where, "LOWER(genre) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Genre))+"%")
	}
	if strings.TrimSpace(q.Year) != "" {
		where = append(where, "year = ?")
		args = append(args, strings.TrimSpace(q.Year))
	}
	if q.HasMin {
		// rating is text ("12+", "8.2", "N/A"); CAST makes the comparison numeric
		where = append(where, "CAST(rating AS REAL) >= ?")
		args = append(args, q.MinRating)
	}

	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		col := "title"
		switch q.SortBy {
		case "year":
			col = "year"
		case "rating":
			col = "rating"
		}
		dir := "ASC"
		if strings.EqualFold(q.SortOrder, "DESC") {
			dir = "DESC"
		}
		sqlStr += " ORDER BY " + col + " " + dir

		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		page := q.Page
		if page < 1 {
			page = 1
		}
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	return sqlStr, args
}

// Create inserts a catalogue row with a generated id.
func (r *Repo) Create(ctx context.Context, a models.Anime) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO animes (title, synopsis, genre, year, rating, duration, image_url, background_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Title, a.Synopsis, a.Genre, a.Year, a.Rating, a.Duration, a.ImageURL, a.BackgroundImage)
	if err != nil {
		return 0, fmt.Errorf("create anime: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create anime id: %w", err)
	}
	return id, nil
}

// Upsert inserts or overwrites a catalogue row keyed by an explicit id.
// Used by the external import and the seed tool; last write wins, no merge.
func (r *Repo) Upsert(ctx context.Context, a models.Anime) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO animes (id, title, synopsis, genre, year, rating, duration, image_url, background_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			synopsis = excluded.synopsis,
			genre = excluded.genre,
			year = excluded.year,
			rating = excluded.rating,
			duration = excluded.duration,
			image_url = excluded.image_url,
			background_image = excluded.background_image,
			updated_at = CURRENT_TIMESTAMP
	`, a.ID, a.Title, a.Synopsis, a.Genre, a.Year, a.Rating, a.Duration, a.ImageURL, a.BackgroundImage)
	if err != nil {
		return fmt.Errorf("upsert anime: %w", err)
	}
	return nil
}
