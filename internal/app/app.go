package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/you/neuraread/internal/config"
	"github.com/you/neuraread/internal/logging"
)

const shutdownGrace = 10 * time.Second

// Run serves the API until ctx is cancelled, then drains in-flight requests
func Run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.SeedAdmin(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
