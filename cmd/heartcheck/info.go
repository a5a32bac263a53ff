package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/heartcheck/internal/model"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show reference statistics, scaler bounds and the fit score",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		w := cmd.OutOrStdout()
		stats := eng.Stats()
		fmt.Fprintf(w, "Reference rows:   %d\n", stats.Rows)
		fmt.Fprintf(w, "Balanced rows:    %d\n", eng.BalancedRows())
		fmt.Fprintf(w, "Label counts:    ")
		for _, l := range model.Labels() {
			fmt.Fprintf(w, " %d=%d", l, stats.LabelCounts[l])
		}
		fmt.Fprintln(w)
		score := eng.FitScore()
		fmt.Fprintf(w, "Fit score:        %.2f%% (%s)\n", score.Percent, score.Note)
		fmt.Fprintf(w, "Batch scaling:    %v\n\n", eng.ScaleBeforePredict())

		fmt.Fprintf(w, "%-10s  %10s  %10s  %10s  %10s\n", "Feature", "Ref min", "Ref max", "Scale min", "Scale max")
		fmt.Fprintln(w, strings.Repeat("─", 58))
		scaler := eng.ScalerBounds()
		for i, b := range stats.Bounds {
			fmt.Fprintf(w, "%-10s  %10.2f  %10.2f  %10.2f  %10.2f\n",
				b.Feature, b.Min, b.Max, scaler[i].Min, scaler[i].Max)
		}

		fmt.Fprintln(w)
		tbl := eng.Severity()
		for _, l := range model.Labels() {
			name, desc, err := tbl.Describe(l, eng.Language())
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d  %-22s %s\n", l, name, desc)
		}
		return nil
	},
}
