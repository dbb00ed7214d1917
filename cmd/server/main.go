package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"animehub/internal/anime"
	"animehub/internal/auth"
	"animehub/internal/jikan"
	"animehub/internal/middleware"
	"animehub/internal/profile"
	"animehub/internal/watchlist"
	"animehub/internal/web"
	"animehub/pkg/database"
	"animehub/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logrus.Fatalf("db migrate failed: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.LoadHTMLGlob("web/templates/*/*.html")
	router.Static("/assets", "web/static")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}
	sessionStore := auth.NewSessions(cfg.SessionSecret, cfg.Environment == "production")

	// repos and services
	animeRepo := anime.NewRepo(db)
	listRepo := watchlist.NewRepo(db)
	listSvc := watchlist.NewService(listRepo, animeRepo)
	authRepo := auth.NewRepo(db)
	authSvc := auth.NewService(authRepo, tokenSvc)
	profileRepo := profile.NewRepo(db)
	profileSvc := profile.NewService(profileRepo, authRepo, authSvc)
	jikanClient := jikan.NewClient(cfg.JikanBaseURL)
	importer := jikan.NewImporter(jikanClient, animeRepo, listSvc)

	// Catalogue (public, personalized when a token is present)
	animeGroup := router.Group("/api/animes")
	animeGroup.Use(auth.OptionalToken(tokenSvc))
	anime.NewHandler(animeRepo, listRepo).RegisterRoutes(animeGroup)

	// Auth
	auth.NewHandler(authSvc).RegisterRoutes(router.Group("/api/auth"))

	// Protected JSON API
	protected := router.Group("/api")
	protected.Use(auth.RequireToken(tokenSvc))
	watchlist.NewHandler(listSvc).RegisterRoutes(protected)
	profile.NewHandler(profileSvc).RegisterRoutes(protected.Group("/profile"))

	// External proxy
	jikan.NewHandler(jikanClient, importer, tokenSvc).RegisterRoutes(router.Group("/api/external"))

	// Server-rendered surface
	webHandler := &web.Handler{
		Sessions: sessionStore,
		Auth:     authSvc,
		Animes:   animeRepo,
		Lists:    listSvc,
		Profiles: profileSvc,
		Jikan:    jikanClient,
		Importer: importer,
	}
	webHandler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("server listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logrus.Infof("shutdown signal received: %s", sig)
	case err := <-errCh:
		logrus.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http shutdown error: %v", err)
	}
	logrus.Info("server stopped")
}
