package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/heartcheck/internal/engine/dataset"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample feature table from the reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dataset.Load(cfg.Dataset.Path)
		if err != nil {
			return err
		}
		data, err := ds.Sample(cfg.Dataset.SampleRows)
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("out"); path != "" {
			return os.WriteFile(path, data, 0o644)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	sampleCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
}
