package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/edgeflare/passgen/pkg/config"
	"github.com/edgeflare/passgen/pkg/httputil"
	mw "github.com/edgeflare/passgen/pkg/httputil/middleware"
	"github.com/edgeflare/passgen/pkg/metrics"
	"github.com/edgeflare/passgen/pkg/passgen"
	"github.com/edgeflare/passgen/pkg/rest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Starts a REST API server that generates and checks passwords over HTTP`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringP("listen", "l", "", "REST server listen address")
	f.String("base-url", "", "base URL for API endpoints")
	f.Int("max-count", 0, "maximum passwords per request")
	f.Bool("tls", false, "serve HTTPS")
	f.String("tls-cert", "", "TLS certificate file (self-signed when empty)")
	f.String("tls-key", "", "TLS key file")
	f.Bool("metrics", true, "serve Prometheus metrics")
	f.String("metrics-addr", "", "Prometheus metrics listen address")
	f.Int("max-attempts", 0, "candidates drawn per password before giving up")
	f.Uint64("seed", 0, "seed for a reproducible password sequence, for testing only")

	bindFlags(cmd, map[string]string{
		"listen":       "rest.listenAddr",
		"base-url":     "rest.baseURL",
		"max-count":    "rest.maxCount",
		"tls":          "rest.tls.enabled",
		"tls-cert":     "rest.tls.certFile",
		"tls-key":      "rest.tls.keyFile",
		"metrics":      "metrics.enabled",
		"metrics-addr": "metrics.addr",
		"max-attempts": "generator.maxAttempts",
		"seed":         "generator.seed",
	})
	return cmd
}

// newServer assembles the REST server from cfg.
func (c *cli) newServer(cfg *config.Config) (*rest.Server, error) {
	defaults := cfg.Generator.Request()
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator defaults: %w", err)
	}
	if cfg.Generator.Seed != 0 {
		c.logger.Warn("serving passwords from a seeded source; output is predictable", zap.Uint64("seed", cfg.Generator.Seed))
	}

	genOpts := append(cfg.Generator.Options(),
		passgen.WithLogger(c.logger),
		passgen.WithAttemptsObserver(metrics.ObserveAttempts),
	)

	// default middleware
	middleware := []httputil.Middleware{mw.RequestID}
	if c.logLevel != "none" {
		middleware = append(middleware, mw.LoggerWithOptions(&mw.LoggerOptions{Logger: c.logger}))
	}
	middleware = append(middleware, mw.Recoverer, mw.CORSWithOptions(nil))

	// Add basic auth if configured
	if len(cfg.REST.BasicAuth) > 0 {
		middleware = append(middleware, mw.VerifyBasicAuth(mw.BasicAuthCreds(cfg.REST.BasicAuth)))
	}

	opts := []rest.Option{
		rest.WithBaseURL(cfg.REST.BaseURL),
		rest.WithMaxCount(cfg.REST.MaxCount),
		rest.WithDefaults(defaults),
		rest.WithLogger(c.logger),
		rest.WithMiddleware(middleware...),
	}
	if cfg.REST.TLS.Enabled {
		opts = append(opts, rest.WithRouterOptions(httputil.WithTLS(cfg.REST.TLS.CertFile, cfg.REST.TLS.KeyFile)))
	}

	return rest.NewServer(passgen.New(genOpts...), opts...), nil
}

func (c *cli) runServe(ctx context.Context) error {
	cfg := c.cfg
	server, err := c.newServer(cfg)
	if err != nil {
		return err
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if cfg.Metrics.Enabled {
		metrics.StartPrometheusServer(ctx, &wg, &metrics.PromServerOpts{
			Logger: c.logger,
			Addr:   cfg.Metrics.Addr,
			Path:   cfg.Metrics.Path,
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.REST.ListenAddr)
	}()

	select {
	case err := <-errCh:
		stop()
		wg.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	wg.Wait()

	c.logger.Info("server gracefully stopped")
	return nil
}
