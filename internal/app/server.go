package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP API and the period provisioner until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	provisioner, err := a.Provisioner()
	if err != nil {
		return fmt.Errorf("configure provisioning: %w", err)
	}
	if provisioner != nil {
		provisioner.Start(ctx)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			provisioner.Stop(stopCtx)
		}()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.HTTPPort),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	a.Logger.Info("dienstplan API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}
