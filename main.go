// main is the entry point of the relwatch CLI.
package main

import (
	"os"

	"github.com/huangsam/relwatch/cmd"
	"github.com/huangsam/relwatch/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.Logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
