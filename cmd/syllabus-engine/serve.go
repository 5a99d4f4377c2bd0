// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-engine/internal/api"
	"github.com/pdiddy/syllabus-engine/internal/classify"
	"github.com/pdiddy/syllabus-engine/internal/export"
	"github.com/pdiddy/syllabus-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an extracted syllabus over a read-only JSON API",
	Long: `Serve loads an extracted syllabus and exposes it over HTTP: semesters,
subjects, subject detail, filename classification and, when an index exists
in --store-dir, module search. When an API key is configured (serve.api_key
or .secrets/syllabus-api-key), /api routes require it as a bearer token.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), nil))

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	sc := cfg.Serve
	if cmd.Flags().Changed("addr") {
		sc.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("syllabus") {
		sc.Syllabus, _ = cmd.Flags().GetString("syllabus")
	}
	sc.APIKey = loadedSecrets.APIKey(sc.APIKey)

	syl, err := export.Load(sc.Syllabus)
	if err != nil {
		return err
	}

	var searcher api.Searcher
	stCfg := storeConfig(cmd, cfg.Store)
	if _, err := os.Stat(filepath.Join(stCfg.Dir, "syllabus.db")); err == nil {
		st, err := store.Open(stCfg)
		if err != nil {
			return err
		}
		defer st.Close()
		searcher = st
	} else {
		log.Warn("no syllabus index found; search is disabled", "store_dir", stCfg.Dir)
	}

	srv := api.NewServer(syl, searcher, classify.New(syl), log, sc)
	httpServer := &http.Server{
		Addr:         sc.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting syllabus-engine",
		"addr", sc.Addr,
		"syllabus", sc.Syllabus,
		"modules", syl.ModuleCount(),
		"auth", sc.APIKey != "",
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", ":8090", "listen address")
	serveCmd.Flags().String("syllabus", "syllabus_structure.json", "extracted syllabus file (JSON or YAML)")
	serveCmd.Flags().String("store-dir", "index", "directory containing syllabus.db")

	rootCmd.AddCommand(serveCmd)
}
