package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("heartcheck failed", zap.Error(err))
			logger.Sync()
		} else {
			fmt.Fprintf(os.Stderr, "heartcheck: %v\n", err)
		}
		os.Exit(1)
	}
}
