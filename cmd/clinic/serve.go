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

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		log := rt.log
		log.Info("Starting SMC-ClinicService...")

		if serveMigrate {
			if err := storage.Migrate(cmd.Context(), rt.db, rt.dialect); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("Schema applied (dialect=%s)", rt.dialect)
		}

		// Создаем HTTP сервер
		addr := fmt.Sprintf(":%d", rt.cfg.Server.HTTPPort)
		srv := &http.Server{
			Addr:         addr,
			Handler:      rt.app.Router,
			ReadTimeout:  time.Duration(rt.cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(rt.cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(rt.cfg.Server.IdleTimeout) * time.Second,
		}

		serverErr := make(chan error, 1)
		go func() {
			log.Info("Starting server on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		// Ожидаем сигнал завершения
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-serverErr:
			log.Error("Server failed: %v", err)
			return err
		case <-quit:
		}

		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(rt.cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
			return err
		}

		log.Info("Server stopped gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply schema before start")
}
