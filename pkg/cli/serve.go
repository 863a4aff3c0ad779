package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/cli/config"
	"github.com/qrisq/qrisq/pkg/client"
	httpctrl "github.com/qrisq/qrisq/pkg/controller/http"
	"github.com/qrisq/qrisq/pkg/usecase"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var serverCfg config.Server
	var repoCfg config.Repository
	var cacheCfg config.Cache
	var pipeline pipelineConfig

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, pipeline.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, cacheCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the analysis API and web front end",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := serverCfg.Validate(); err != nil {
				return err
			}

			logging.Default().Info("Serve configuration",
				"server", serverCfg,
				"repository", repoCfg,
				"cache", cacheCfg,
				"llm", pipeline.llm,
				"simulator", pipeline.simulator,
			)

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var extra []usecase.Option
			resultCache, err := cacheCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if resultCache != nil {
				defer func() {
					if err := resultCache.Close(); err != nil {
						logging.Default().Error("failed to close result cache", "error", err.Error())
					}
				}()
				extra = append(extra, usecase.WithResultCache(resultCache))
			}

			uc, err := pipeline.build(ctx, repo, extra...)
			if err != nil {
				return err
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithCORSOrigins(serverCfg.CORSOrigins()),
				httpctrl.WithMetrics(serverCfg.MetricsEnabled()),
			}
			if upstream := serverCfg.UpstreamURL(); upstream != "" {
				remote, err := client.New(upstream)
				if err != nil {
					return goerr.Wrap(err, "failed to create upstream client")
				}
				httpOpts = append(httpOpts, httpctrl.WithWebAnalyzer(remote))
				logging.Default().Info("Web form uses upstream analysis service", "url", upstream)
			}

			httpHandler, err := httpctrl.New(uc.Analysis, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              serverCfg.Addr(),
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", serverCfg.Addr())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logging.Default().Info("Context canceled, shutting down")
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
