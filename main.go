// main is the entry point for the uptake CLI.
package main

import (
	"github.com/huangsam/uptake/cmd"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		iocache.CloseCaching()
		contract.LogFatal("Command failed", err)
	}
}
