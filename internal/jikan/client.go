package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Jikan v4 API.
const DefaultBaseURL = "https://api.jikan.moe/v4"

// Client proxies lookups to the external anime database. Responses for the
// pass-through endpoints are returned as raw JSON, shape unchanged.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("jikan: parse url: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("jikan: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jikan: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jikan: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jikan: status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *Client) Search(ctx context.Context, title string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("q", title)
	q.Set("limit", "10")
	return c.get(ctx, "/anime", q)
}

func (c *Client) AnimeByID(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/anime/%d", id), nil)
}

func (c *Client) Top(ctx context.Context) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", "10")
	return c.get(ctx, "/top/anime", q)
}

func (c *Client) Recommendations(ctx context.Context) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", "10")
	return c.get(ctx, "/recommendations/anime", q)
}

func (c *Client) Random(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/random/anime", nil)
}

// animeEnvelope is the subset of the Jikan anime shape the import path
// needs; everything else stays opaque.
type animeEnvelope struct {
	Data AnimeData `json:"data"`
}

type AnimeData struct {
	MalID         int64  `json:"mal_id"`
	Title         string `json:"title"`
	TitleEnglish  string `json:"title_english"`
	TitleJapanese string `json:"title_japanese"`
	Synopsis      string `json:"synopsis"`
	Year          int    `json:"year"`
	Rating        string `json:"rating"`
	Duration      string `json:"duration"`
	Aired         struct {
		Prop struct {
			From struct {
				Year int `json:"year"`
			} `json:"from"`
		} `json:"prop"`
	} `json:"aired"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Images struct {
		JPG  imageSet `json:"jpg"`
		WebP imageSet `json:"webp"`
	} `json:"images"`
}

type imageSet struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// GetAnime fetches and decodes a single record for importing.
func (c *Client) GetAnime(ctx context.Context, id int64) (*AnimeData, error) {
	raw, err := c.AnimeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var env animeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("jikan: decode anime: %w", err)
	}
	if env.Data.MalID == 0 {
		return nil, fmt.Errorf("jikan: anime %d not found", id)
	}
	return &env.Data, nil
}
