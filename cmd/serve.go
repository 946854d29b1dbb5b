package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/atio-cli/internal/api"
	"github.com/sells-group/atio-cli/internal/config"
	"github.com/sells-group/atio-cli/internal/ranking"
	"github.com/sells-group/atio-cli/internal/session"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the decision support API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return eris.Wrap(err, "server listen")
		}
		return runServer(ctx, cfg, ln)
	},
}

// buildServer wires the catalog, session manager and store into an API
// server. The returned cleanup closes the store.
func buildServer(ctx context.Context, c *config.Config) (*api.Server, *session.Manager, func(), error) {
	cat, err := loadCatalog(c)
	if err != nil {
		return nil, nil, nil, err
	}
	sortKey, err := ranking.ParseSortKey(c.Scoring.SortKey)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := initStore(ctx, c)
	if err != nil {
		return nil, nil, nil, err
	}

	sessions := session.NewManager(session.Defaults{
		Weights:       c.Scoring.Weights,
		SortKey:       sortKey,
		MaxComparison: c.Comparison.MaxSize,
	}, c.Session.IdleTTL)

	srv := api.NewServer(cat, sessions, st, api.Options{
		AllowedOrigins: c.Server.AllowedOrigins,
		RateLimit:      c.Server.RateLimit,
		RateBurst:      c.Server.RateBurst,
		DefaultWeights: c.Scoring.Weights,
		StartYear:      c.Analysis.StartYear,
	})
	cleanup := func() { _ = st.Close() }
	return srv, sessions, cleanup, nil
}

// runServer serves the API on ln until ctx is cancelled, then drains
// in-flight requests. The session janitor runs alongside.
func runServer(ctx context.Context, c *config.Config, ln net.Listener) error {
	srv, sessions, cleanup, err := buildServer(ctx, c)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer cleanup()

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("starting server", zap.String("addr", ln.Addr().String()))
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server serve")
		}
		return nil
	})

	g.Go(func() error {
		sessions.RunJanitor(gctx, c.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		return nil
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
