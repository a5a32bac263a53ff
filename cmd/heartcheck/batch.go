package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/heartcheck/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.csv | ->",
	Short: "Predict every row of a feature table",
	Long: "Predict every row of a CSV whose header is exactly the ten feature names in canonical\n" +
		"order (see 'heartcheck sample'). Use - to read standard input.\n\n" +
		"Rows are passed to the classifier unscaled unless --scale-before-predict is set.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		out, err := buildOutput()
		if err != nil {
			return err
		}
		p := pipeline.New(eng, out, logger)
		defer p.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		_, err = p.Batch(ctx, in)
		return err
	},
}
