// main is the entry point for the weightplot CLI.
package main

import (
	"github.com/huangsam/weightplot/cmd"
	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/internal/history"
)

func main() {
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("failed to stop profiling", err)
		}
	}()
	defer history.CloseHistory()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
