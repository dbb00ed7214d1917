package seed

import (
	"context"

	"animehub/internal/anime"
	"animehub/pkg/models"
)

// Animes is the bundled starter catalogue. IDs are fixed so reseeding is
// an idempotent overwrite.
var Animes = []models.Anime{
	{
		ID:       1,
		Title:    "Naruto Shippuden",
		Synopsis: "Naruto Uzumaki returns to his home village of Konoha after two and a half years of intense training, ready to face the Akatsuki.",
		Genre:    "Shōnen",
		Year:     "2007",
		Rating:   "12+",
		Duration: "23m",
		ImageURL: "/assets/images/posters/narutoShippuden.webp",
	},
	{
		ID:       2,
		Title:    "Attack on Titan",
		Synopsis: "Humanity lives behind enormous walls to keep out the Titans, giant humanoid creatures that devour humans without reason.",
		Genre:    "Shōnen",
		Year:     "2013",
		Rating:   "16+",
		Duration: "24m",
		ImageURL: "/assets/images/posters/attackOnTitan.webp",
	},
	{
		ID:       3,
		Title:    "Death Note",
		Synopsis: "Light Yagami, a brilliant student, finds a notebook that kills anyone whose name is written in it, and sets out to reshape the world.",
		Genre:    "Seinen",
		Year:     "2006",
		Rating:   "16+",
		Duration: "23m",
		ImageURL: "/assets/images/posters/deathNote.webp",
	},
	{
		ID:       4,
		Title:    "Demon Slayer",
		Synopsis: "Tanjirou Kamado sells charcoal to support his family until the day he comes home to find them slaughtered by demons.",
		Genre:    "Shōnen",
		Year:     "2019",
		Rating:   "16+",
		Duration: "24m",
		ImageURL: "/assets/images/posters/demonSlayer.webp",
	},
	{
		ID:       5,
		Title:    "Jujutsu Kaisen",
		Synopsis: "Yuuji Itadori, a high schooler with extraordinary strength, is pulled into the world of curses after swallowing a cursed object.",
		Genre:    "Shōnen",
		Year:     "2020",
		Rating:   "16+",
		Duration: "24m",
		ImageURL: "/assets/images/posters/jujutsuKaisen.webp",
	},
	{
		ID:       6,
		Title:    "Vinland Saga",
		Synopsis: "Thorfinn grows up among Viking mercenaries, chasing revenge against the man who killed his father.",
		Genre:    "Seinen",
		Year:     "2019",
		Rating:   "16+",
		Duration: "25m",
		ImageURL: "/assets/images/posters/vinlandSaga.webp",
	},
}

// Apply upserts the starter catalogue.
func Apply(ctx context.Context, repo *anime.Repo) error {
	for _, a := range Animes {
		if err := repo.Upsert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
