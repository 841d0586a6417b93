// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
LLM-Internals serves a course on how large language models work, from
tokenization to attention and inference.
*/
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/audit"
	"github.com/ashiffxd/LLM-Internals/core/catalog"
	"github.com/ashiffxd/LLM-Internals/core/diagram"
	"github.com/ashiffxd/LLM-Internals/core/requests"
	"github.com/ashiffxd/LLM-Internals/i18n"
	"github.com/ashiffxd/LLM-Internals/server/assets"
	"github.com/ashiffxd/LLM-Internals/server/router"
	"github.com/ashiffxd/LLM-Internals/server/routes"
)

// gosec G112 wants every timeout set. Pages are small, so these are short.
const (
	readHeaderTimeout = 15 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 30 * time.Second

	shutdownGrace = 5 * time.Second
)

//go:embed assets/css assets/icons assets/img assets/js assets/manifest.json assets/robots.txt
//go:embed content
//go:embed all:po
var embedded embed.FS

func main() {
	assets.FS = embedded

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := i18n.Setup(); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	log.Info().Strs("languages", languageNames()).Msg("Loaded translations")

	if err := requests.Setup(); err != nil {
		return fmt.Errorf("failed to set up the diagram cache: %w", err)
	}

	routes.DiagramRenderer = diagram.NewFromConfig()

	reloader, err := loadCatalog()
	if err != nil {
		return err
	}

	if reloader != nil {
		defer reloader.Stop()
	}

	mux := router.NewRouter()
	mux.DefineRoutes()
	mux.RegisterMiddleware()

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := listen(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		//nolint:contextcheck // the serving context is already done
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shut down: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

func languageNames() []string {
	tags := i18n.Languages()
	names := make([]string, len(tags))

	for i, t := range tags {
		names[i] = t.String()
	}

	return names
}

// loadCatalog fills catalog.Default from config.Global.Content.Dir, or from
// the embedded content when no directory is set. The returned Reloader is
// non-nil only when a reload schedule is running.
func loadCatalog() (*catalog.Reloader, error) {
	dir := config.Global.Content.Dir

	var fsys fs.FS

	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(assets.FS, "content")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded content: %w", err)
		}

		fsys, dir = sub, "embedded content"
	}

	reloader := catalog.NewReloader(catalog.Default, fsys, config.Global.Content.ReloadSchedule)
	// Diagrams rendered for the previous content are dropped with it.
	reloader.OnReload = func(*catalog.Catalog) { requests.Purge() }

	if err := reloader.Reload(); err != nil {
		return nil, fmt.Errorf("failed to load course content from %s: %w", dir, err)
	}

	if config.Global.Content.Dir == "" || config.Global.Content.ReloadSchedule == "" {
		return nil, nil //nolint:nilnil // no schedule is not an error
	}

	if err := reloader.Start(); err != nil {
		return nil, err
	}

	return reloader, nil
}
