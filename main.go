// Package main is the entry point of the workflow-analyzer CLI.
package main

import (
	"github.com/AjayJagan/github-workflow-analyzer/cmd"
	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/internal/iocache"
)

func main() {
	err := cmd.Execute()

	// LogFatal exits without running defers, so release resources first
	iocache.CloseCaching()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Cannot stop profiling", perr)
	}

	if err != nil {
		contract.LogFatal("Cannot run workflow-analyzer", err)
	}
}
