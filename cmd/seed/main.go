package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"animehub/internal/anime"
	"animehub/internal/seed"
	"animehub/pkg/database"
)

// Seeds the catalogue with the bundled starter animes. Safe to re-run:
// existing rows are overwritten by id.
func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logrus.Fatalf("db migrate failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := anime.NewRepo(db)
	if err := seed.Apply(ctx, repo); err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"animes": len(seed.Animes),
		"db":     cfg.Path,
	}).Info("catalogue seeded")
}
