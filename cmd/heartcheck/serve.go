package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hejijunhao/heartcheck/internal/output/async"
	"github.com/hejijunhao/heartcheck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("max-upload") {
			cfg.Server.MaxUploadBytes, _ = cmd.Flags().GetInt64("max-upload")
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		opts := []server.Option{
			server.WithLogger(logger),
			server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		}
		if audit, _ := cmd.Flags().GetBool("audit"); audit {
			out, err := buildOutput()
			if err != nil {
				return err
			}
			// Delivery must not hold up HTTP responses.
			a := async.New(out, async.WithLogger(logger), async.WithDropOnFull())
			defer a.Close()
			opts = append(opts, server.WithAudit(a))
			logger.Info("auditing predictions", zap.String("output", cfg.Output.Kind))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.New(eng, opts...).Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides HEARTCHECK_ADDR)")
	serveCmd.Flags().Int64("max-upload", 0, "Maximum request body in bytes (overrides HEARTCHECK_MAX_UPLOAD_BYTES)")
	serveCmd.Flags().Bool("audit", false, "Mirror every served prediction to the configured output")
}
