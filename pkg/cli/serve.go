package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskreg/pkg/controller/http"
	"github.com/secmon-lab/riskreg/pkg/service/worker"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var maxUploadBytes int64
	var enableMetrics bool
	var registerCfg registerFlags
	var storageCfg config.Storage
	var githubCfg config.GitHub
	var geminiCfg config.Gemini
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKREG_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "max-upload-bytes",
			Usage:       "Maximum size of an uploaded attachment",
			Value:       httpctrl.DefaultMaxUploadBytes,
			Sources:     cli.EnvVars("RISKREG_MAX_UPLOAD_BYTES"),
			Destination: &maxUploadBytes,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("RISKREG_METRICS"),
			Destination: &enableMetrics,
		},
	}

	// Add shared config flags
	flags = append(flags, registerCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			blobStore, closeStore, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize attachment storage")
			}
			defer closeStore()
			logger.Info("Attachment storage configured", "storage", storageCfg)

			ucOpts := []usecase.Option{usecase.WithBlobStore(blobStore)}

			ticketClient, err := githubCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize GitHub ticket client")
			}
			if ticketClient != nil {
				ucOpts = append(ucOpts, usecase.WithTicketService(ticketClient))
				logger.Info("GitHub ticket integration enabled", "github", githubCfg.LogAttrs())
			} else {
				logger.Info("GitHub App not configured, ticket creation is disabled")
			}

			suggestSvc, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize suggestion service")
			}
			if suggestSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSuggestionService(suggestSvc))
				logger.Info("Control suggestions enabled", "gemini", geminiCfg.LogAttrs())
			} else {
				logger.Info("Gemini project not configured, control suggestions are disabled")
			}

			uc, appCfg, err := registerCfg.build(ctx, ucOpts...)
			if err != nil {
				return err
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Slack notifier")
			}
			interval, err := appCfg.DigestInterval()
			if err != nil {
				return err
			}
			httpOpts := []httpctrl.Options{
				httpctrl.WithMaxUploadBytes(maxUploadBytes),
			}

			// The digest loop only runs with an interval; on-demand posts need just the channel
			var digestWorker *worker.DigestWorker
			if notifier != nil {
				digestWorker = worker.NewDigestWorker(uc.Export, notifier, interval)
				httpOpts = append(httpOpts, httpctrl.WithDigest(digestWorker))
				logger.Info("Slack digest enabled", "slack", slackCfg, "interval", interval)

				if interval > 0 {
					if err := digestWorker.Start(ctx); err != nil {
						return goerr.Wrap(err, "failed to start digest worker")
					}
				} else {
					digestWorker = nil
				}
			}
			if enableMetrics {
				httpOpts = append(httpOpts, httpctrl.WithMetrics(httpctrl.NewMetrics(uc)))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr, "metrics", enableMetrics)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if digestWorker != nil {
					digestWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				if digestWorker != nil {
					digestWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
