// Package main provides a performance benchmarking tool for the Uptake CLI.
// It generates synthetic log datasets of increasing size and measures execution
// times across report commands, running each test multiple times, treating the
// first successful run as cold and averaging the rest as warm, generating CSV
// output for performance analysis and documentation.
//
// Prerequisites:
// - uptake binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic datasets and cache files are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	NoCacheRuns  int
	CacheRuns    int
	Datasets     []string
	DatasetUsers map[string]int
	TasksPerUser int
	Commands     map[string][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:      os.Args[1],
		Timeout:      5 * time.Minute,
		NoCacheRuns:  3,
		CacheRuns:    4,
		Datasets:     []string{"small", "medium", "large"},
		DatasetUsers: map[string]int{"small": 50, "medium": 500, "large": 5000},
		TasksPerUser: 40,
		Commands: map[string][]string{
			"trends":     {"trends", "--by", "team-task"},
			"adoption":   {"adoption"},
			"efficiency": {"efficiency"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	for _, name := range config.Datasets {
		fmt.Printf("Generating %s dataset (%d users)\n", name, config.DatasetUsers[name])
		if err := generateDataset(filepath.Join(config.WorkDir, name), config.DatasetUsers[name], config.TasksPerUser); err != nil {
			fmt.Printf("Failed to generate dataset %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the uptake binary exists and the work dir is writable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("uptake"); err != nil {
		return fmt.Errorf("uptake binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("work dir %s is not writable: %w", config.WorkDir, err)
	}
	return nil
}

// generateDataset writes the three input CSV files for a synthetic organization.
// The AI window covers Jan to Apr 2025 and manual logs cover the Oct to Nov 2024 baseline.
func generateDataset(dir string, users, tasksPerUser int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(uint64(users), uint64(tasksPerUser)))
	teams := []string{"Alpha", "Beta", "Gamma", "Delta"}
	tasks := []string{"triage", "review", "drafting", "research"}

	var directory, ai, manual [][]string
	directory = append(directory, []string{"user_id", "full_name", "join_date"})
	ai = append(ai, []string{"user_id", "team", "task_type", "date", "used_ai_tool", "task_duration_minutes", "ai_prediction_accuracy"})
	manual = append(manual, []string{"user_id", "task_type", "date", "task_duration_minutes"})

	for u := range users {
		id := fmt.Sprintf("u%05d", u)
		team := teams[u%len(teams)]
		directory = append(directory, []string{id, "User " + strconv.Itoa(u), "2023-06-01"})

		// Each user drifts toward or away from the tool over the window.
		base := rng.Float64()
		drift := rng.Float64()*0.4 - 0.2
		for i := range tasksPerUser {
			month := time.Month(1 + i%4)
			day := 1 + rng.IntN(28)
			task := tasks[rng.IntN(len(tasks))]
			usedAI := rng.Float64() < base+drift*float64(month-1)
			dur := 10 + rng.IntN(80)
			acc := ""
			if usedAI {
				acc = strconv.FormatFloat(0.5+rng.Float64()*0.5, 'f', 2, 64)
			}
			ai = append(ai, []string{
				id, team, task,
				fmt.Sprintf("2025-%02d-%02d", month, day),
				strconv.FormatBool(usedAI),
				strconv.Itoa(dur),
				acc,
			})
		}
		for i := range tasksPerUser / 4 {
			month := time.Month(10 + i%2)
			manual = append(manual, []string{
				id, tasks[rng.IntN(len(tasks))],
				fmt.Sprintf("2024-%02d-%02d", month, 1+rng.IntN(28)),
				strconv.Itoa(30 + rng.IntN(90)),
			})
		}
	}

	for file, rows := range map[string][][]string{
		"user_directory.csv":   directory,
		"ai_usage_logs.csv":    ai,
		"manual_task_logs.csv": manual,
	} {
		if err := writeCSV(filepath.Join(dir, file), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// runBenchmarks executes all benchmark tests across generated datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, dataset := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", dataset)
		dataDir := filepath.Join(config.WorkDir, dataset)
		for _, command := range []string{"trends", "adoption", "efficiency"} {
			results = append(results, runBenchmarkSuite(config, dataset, dataDir, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset, dataDir, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dataDir, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Each suite starts from an empty cache file so the first run is cold.
	_ = os.Remove(cacheFile(dataDir))
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

func cacheFile(dataDir string) string {
	return filepath.Join(dataDir, "bench_cache.db")
}

// runBenchmark executes an uptake command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dataDir, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, config.Commands[command]...)
	args = append(args, "--data-dir", dataDir, "--output", "json", "--cache-backend", cacheBackend)
	if cacheBackend == "sqlite" {
		args = append(args, "--cache-db-connect", cacheFile(dataDir))
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("uptake", args...)
		cmd.Dir = config.WorkDir
		cmd.Env = append(os.Environ(), "UPTAKE_ANALYSIS_BACKEND=")

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && len(output) > 0 {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("uptake_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, dataset := range config.Datasets {
		fmt.Printf("%s (%d users):\n", dataset, config.DatasetUsers[dataset])
		for _, result := range results {
			if result.Dataset == dataset {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
