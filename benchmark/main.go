// Package main measures workflow-analyzer execution times with and without the run cache.
// Each view runs several times per target: the no-cache runs are averaged, then with
// the SQLite cache the first successful run is treated as cold and the rest as warm.
// Results are written to a CSV file for performance tracking.
//
// Prerequisites:
// - workflow-analyzer binary installed and available in PATH
// - GITHUB_TOKEN set, or gh auth login completed
//
// Usage: go run benchmark/main.go <owner/repo[,owner/repo...]> [more targets...]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const binary = "workflow-analyzer"

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Target      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Targets     []string
	Commands    []string
	Days        int
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <owner/repo[,owner/repo...]> [more targets...]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Targets:     os.Args[1:],
		Commands:    []string{"workflows", "repos", "trends", "patterns"},
		Days:        30,
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 2,
		CacheRuns:   4,
	}

	if _, err := exec.LookPath(binary); err != nil {
		fmt.Printf("Prerequisites check failed: %s binary not found in PATH\n", binary)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command(binary, "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks executes every command against every target.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d targets, %d days, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Targets), config.Days, config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, target := range config.Targets {
		fmt.Printf("Benchmarking %s\n", target)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, target, command))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, target, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, target)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, target, command, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Target:      target,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a command numRuns times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, target, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command,
		"--repos", target,
		"--days", fmt.Sprint(config.Days),
		"--workers", fmt.Sprint(config.Workers),
		"--cache-backend", cacheBackend,
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, binary, args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "completed in") && strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s/workflow_analyzer_benchmark_%s.csv", os.TempDir(), timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"target", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Target, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results per command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-30s: No-cache: %s, Cold: %s, Warm: %s\n", result.Target, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
