package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hejijunhao/heartcheck/internal/config"
	"github.com/hejijunhao/heartcheck/internal/engine"
	"github.com/hejijunhao/heartcheck/internal/engine/classifier"
	"github.com/hejijunhao/heartcheck/internal/engine/dataset"
	"github.com/hejijunhao/heartcheck/internal/logging"
	"github.com/hejijunhao/heartcheck/internal/output"
	"github.com/hejijunhao/heartcheck/internal/output/file"
	"github.com/hejijunhao/heartcheck/internal/output/multi"
	"github.com/hejijunhao/heartcheck/internal/output/stdout"
	"github.com/hejijunhao/heartcheck/internal/output/webhook"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "heartcheck",
	Short: "Heart disease severity prediction",
	Long: "heartcheck predicts heart-disease severity (0 healthy to 4) from ten clinical features,\n" +
		"using a classifier fitted against a balanced, min-max scaled reference dataset.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		c, err := config.Load(files...)
		if err != nil {
			return err
		}
		applyFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		logger, err = logging.Init(cfg.App.LogLevel, cfg.App.Env)
		return err
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("env-file", "", "Path to a .env file (default: .env if present)")
	f.String("dataset", "", "Reference CSV (overrides HEARTCHECK_DATASET_PATH)")
	f.String("model", "", "ONNX classifier (overrides HEARTCHECK_MODEL_PATH)")
	f.String("ort-lib", "", "ONNX Runtime shared library (overrides HEARTCHECK_ORT_LIBRARY_PATH)")
	f.Uint64("seed", 0, "Oversampling seed (overrides HEARTCHECK_SEED)")
	f.Int("neighbors", 0, "Oversampling k (overrides HEARTCHECK_NEIGHBORS)")
	f.Bool("scale-before-predict", false, "Scale batch rows like single predictions")
	f.String("lang", "", "Description language: en or id (overrides HEARTCHECK_DESCRIPTION_LANG)")
	f.String("log-level", "", "debug, info, warn or error (overrides HEARTCHECK_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(infoCmd)
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("dataset") {
		c.Dataset.Path, _ = f.GetString("dataset")
	}
	if f.Changed("model") {
		c.Engine.ModelPath, _ = f.GetString("model")
	}
	if f.Changed("ort-lib") {
		c.Engine.LibraryPath, _ = f.GetString("ort-lib")
	}
	if f.Changed("seed") {
		c.Engine.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("neighbors") {
		c.Engine.Neighbors, _ = f.GetInt("neighbors")
	}
	if f.Changed("scale-before-predict") {
		c.Engine.ScaleBeforePredict, _ = f.GetBool("scale-before-predict")
	}
	if f.Changed("lang") {
		c.App.Lang, _ = f.GetString("lang")
	}
	if f.Changed("log-level") {
		c.App.LogLevel, _ = f.GetString("log-level")
	}
}

// buildEngine runs the startup sequence. Any error here is fatal.
func buildEngine() (*engine.Engine, error) {
	ds, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("reference dataset loaded",
		zap.String("path", cfg.Dataset.Path),
		zap.Int("rows", ds.Len()),
		zap.Ints("labels", ds.LabelsPresent()),
	)

	cls, err := classifier.LoadONNX(cfg.Engine.ModelPath, cfg.Engine.LibraryPath)
	if err != nil {
		return nil, err
	}
	logger.Info("classifier loaded", zap.Stringer("model", cls))

	eng, err := engine.New(ds, cls, nil, engine.Config{
		Seed:               cfg.Engine.Seed,
		Neighbors:          cfg.Engine.Neighbors,
		ScaleBeforePredict: cfg.Engine.ScaleBeforePredict,
		Language:           cfg.Language(),
		SampleRows:         cfg.Dataset.SampleRows,
	}, logger)
	if err != nil {
		cls.Close()
		return nil, err
	}
	return eng, nil
}

// buildOutput creates the configured prediction destinations, fanned out
// when more than one is named.
func buildOutput() (output.Output, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	verbosity, err := output.ParseVerbosity(cfg.Output.Verbosity)
	if err != nil {
		return nil, err
	}

	var outs []output.Output
	for _, kind := range cfg.Output.Kinds() {
		var o output.Output
		switch kind {
		case "file":
			o, err = file.New(cfg.Output.File, verbosity, file.WithMaxSize(int64(cfg.Output.FileMaxMB)<<20))
		case "webhook":
			o = webhook.New(cfg.Output.WebhookURL,
				webhook.WithVerbosity(verbosity),
				webhook.WithLogger(logger),
			)
		case "stdout":
			o = stdout.New(format, verbosity, cfg.Output.Pretty)
		default:
			err = fmt.Errorf("unknown output %q", kind)
		}
		if err != nil {
			multi.New(outs...).Close()
			return nil, err
		}
		outs = append(outs, o)
	}
	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}
