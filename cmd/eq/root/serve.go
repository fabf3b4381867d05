package root

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecoquest/internal/engine"
	"ecoquest/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			api := &httpapi.API{
				Service:     a.svc,
				Backup:      a.backup,
				Generator:   engine.CatalogGenerator{},
				Geo:         a.geo,
				Weather:     a.weather,
				Log:         a.log,
				DefaultLat:  a.cfg.DefaultLat,
				DefaultLon:  a.cfg.DefaultLon,
				DefaultMode: engine.ParseMode(a.cfg.Mode),
			}
			srv := &http.Server{
				Addr:         addr,
				Handler:      api.Router(),
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 40 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("api listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info("shutting down api")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
