package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"pressing/internal/auth"
	"pressing/internal/config"
	"pressing/internal/deploy"
	"pressing/internal/gitstore"
	"pressing/internal/page"
	"pressing/internal/regen"
	"pressing/internal/web"
)

const readmePath = "README.md"

const readmeContent = `# Pages

This repository is managed by pressing. Each top-level directory holds one
published page as a metadata.json / code.html pair. Do not edit by hand.
`

func main() {
	var (
		configPath = flag.String("config", "pressing.yaml", "Path to the configuration file.")
		listen     = flag.String("listen", "", "Listen address, overriding the configuration.")
		backend    = flag.String("backend", "", `Backend to use ("github" or "memory"), overriding the configuration.`)
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// hash-password needs no configuration at all.
	if flag.Arg(0) == "hash-password" {
		if flag.Arg(1) == "" {
			fmt.Fprintln(os.Stderr, "usage: pressing hash-password <password>")
			os.Exit(2)
		}
		hash, err := auth.HashPassword(flag.Arg(1))
		if err != nil {
			log.Fatal().Err(err).Msg("hashing password")
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var objects gitstore.ObjectStore
	switch cfg.Backend {
	case "memory":
		objects = gitstore.NewMemory()
	case "github":
		gh, err := gitstore.NewGitHub(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch, cfg.GitHub.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("creating github backend")
		}
		gh.SetLogger(log)
		objects = gh
	}

	if flag.Arg(0) == "init" {
		if err := initRepo(context.Background(), objects); err != nil {
			log.Fatal().Err(err).Msg("initializing repository")
		}
		log.Info().Msg("repository initialized")
		return
	}

	store := page.NewStore(objects)
	store.Log = log
	store.Retry = gitstore.Retryer{Attempts: cfg.Retry.Attempts, Delay: cfg.RetryDelay()}

	gate := regen.NewGate(web.PageLoader(store))
	gate.Window = cfg.RegenWindow()
	gate.NotFoundWindow = cfg.NotFoundWindow()

	authGate, err := auth.NewGate(cfg.Admin.PasswordHash, cfg.Admin.SessionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("creating admin gate")
	}

	server, err := web.NewServer(store, gate, authGate, deploy.NewNotifier(cfg.DeployHookURL, log), log)
	if err != nil {
		log.Fatal().Err(err).Msg("creating server")
	}

	log.Info().Str("listen", cfg.Listen).Str("backend", cfg.Backend).Msg("starting server")
	if err := http.ListenAndServe(cfg.Listen, server); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// initRepo seeds a fresh pages repository with a README so the default
// branch exists and listings have a root to read.
func initRepo(ctx context.Context, objects gitstore.ObjectStore) error {
	_, err := objects.GetObject(ctx, readmePath)
	if err == nil {
		return nil // already initialized
	}
	if !errors.Is(err, gitstore.ErrNotFound) {
		return err
	}
	_, err = objects.PutObject(ctx, readmePath, []byte(readmeContent), "")
	if err != nil && !errors.Is(err, gitstore.ErrConflict) {
		return err
	}
	return nil
}
