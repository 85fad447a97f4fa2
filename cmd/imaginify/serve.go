package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/imaginify-dev/imaginify/internal/config"
	"github.com/imaginify-dev/imaginify/pkg/server"
	"github.com/imaginify-dev/imaginify/pkg/upload"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the Imaginify HTTP server.

Routes include the shimmer placeholders, deep merge, query URL
helpers, the transformation catalogue, downloads, uploads and the
toast WebSocket. Prometheus metrics are served on /metrics.

Examples:
  imaginify serve
  imaginify serve --port=9000
  IMAGINIFY_UPLOAD_BACKEND=s3 IMAGINIFY_S3_BUCKET=images imaginify serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from imaginify.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from imaginify.json)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)

	opts := []server.Option{server.WithLogger(logger)}
	if cfg.Upload.Backend == config.BackendS3 {
		store, err := newS3Store(ctx, cfg)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithStore(store))
		logger.Info("upload backend", "backend", "s3", "bucket", cfg.Upload.S3.Bucket)
	}

	srv, err := server.New(cfg, opts...)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// newS3Store builds the S3 upload store from the default AWS credential
// chain, overriding the region when one is configured.
func newS3Store(ctx context.Context, cfg *config.Config) (*upload.S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Upload.S3.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Upload.S3.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return upload.NewS3Store(s3.NewFromConfig(awsCfg), cfg.Upload.S3.Bucket, cfg.Upload.S3.Prefix, cfg.Upload.MaxFileSize), nil
}
