package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"whtpst/config"
	"whtpst/core"
	"whtpst/handlers"
	"whtpst/stores"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "whtpst",
	Short: "Serve a minimal paste store over HTTP",
	Long: `whtpst stores text pastes and serves them back by id.

Routes:
  POST /paste/{id}  store the request body under {id}
  POST /paste       store the request body under a random id
  GET  /paste/{id}  return the stored body
  GET  /health      liveness probe

Settings come from the YAML file given with --config and can be overridden
with environment variables such as STORAGE_TYPE or APP_PORT.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "configuration.yaml", "location of configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg config.LoggingConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err":  err,
			"path": configPath,
		}).Error("Could not load configuration")
		return err
	}
	if err := setupLogging(cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(cfg.Application.ShutdownTimeout)
	if err != nil {
		return fmt.Errorf("invalid shutdown_timeout %q: %w", cfg.Application.ShutdownTimeout, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	repo, closeStore, err := stores.GetStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logrus.WithField("err", err).Warn("Could not close storage")
		}
	}()

	server := &http.Server{
		Addr: cfg.Address(),
		Handler: handlers.NewRouter(repo, handlers.Options{
			Logger:       logrus.StandardLogger(),
			ContentRules: core.ContentRules{MaxGraphemes: cfg.Application.ContentMaxGraphemes},
			MaxBodyBytes: cfg.Application.MaxBodyBytes,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.WithField("address", server.Addr).Info("Paste server listening")
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("err", err).Error("Could not listen and serve")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithField("err", err).Error("Could not shut down cleanly")
		return err
	}
	return nil
}
