package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/parti-studio/parti/pkg/api"
	"github.com/parti-studio/parti/pkg/cache"
	"github.com/parti-studio/parti/pkg/pipeline"
	"github.com/parti-studio/parti/pkg/spec"
	"github.com/parti-studio/parti/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		redisURL   string
		mongoURI   string
		mongoDB    string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the pipeline and gates over HTTP",
		Long: `Expose the pipeline and gates over HTTP.

The server runs the geometry pipeline for POST /v1/generate requests,
gates panel batches on POST /v1/gate, and serves stored design
versions under /v1/designs.

By default results are cached on the local filesystem and designs are
held in memory. Point --redis at a Redis instance to share the result
cache, and --mongo at a MongoDB deployment to persist designs across
restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := spec.DefaultConfig()
			if configPath != "" {
				loaded, err := spec.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return c.runServe(cmd.Context(), serveParams{
				addr:     addr,
				redisURL: redisURL,
				mongoURI: mongoURI,
				mongoDB:  mongoDB,
				cfg:      cfg,
				noCache:  noCache,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the shared result cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the design store")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "parti", "MongoDB database name")
	cmd.Flags().StringVar(&configPath, "config", "", "engine configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

type serveParams struct {
	addr     string
	redisURL string
	mongoURI string
	mongoDB  string
	cfg      spec.Config
	noCache  bool
}

func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	var (
		resultCache cache.Cache
		err         error
	)
	switch {
	case p.noCache:
		resultCache = cache.NewNullCache()
	case p.redisURL != "":
		resultCache, err = cache.NewRedisCache(p.redisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis result cache")
	default:
		resultCache, err = newCache(false)
		if err != nil {
			return fmt.Errorf("initialize cache: %w", err)
		}
	}

	var st store.Store
	if p.mongoURI != "" {
		st, err = store.NewMongoStore(ctx, store.MongoConfig{URI: p.mongoURI, Database: p.mongoDB})
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		c.Logger.Info("using mongodb design store", "database", p.mongoDB)
	} else {
		st = store.NewMemoryStore()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(shutdownCtx); err != nil {
			c.Logger.Error("close store", "err", err)
		}
	}()

	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	server := api.NewServer(runner, st, p.cfg, c.Logger)
	httpServer := &http.Server{
		Addr:              p.addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", p.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
