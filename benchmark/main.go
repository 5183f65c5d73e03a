// Package main provides a performance benchmarking tool for the relwatch CLI.
// It generates synthetic datasets of increasing size, measures compare and chart
// execution times against the file source and a SQLite read model, running each
// command multiple times and treating the first successful run as cold and
// averaging the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - relwatch binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated datasets and databases
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/huangsam/relwatch/schema"
)

// BenchmarkResult holds the timings of one command against one dataset and source.
type BenchmarkResult struct {
	Dataset  string
	Source   string
	Command  string
	ColdTime string
	WarmTime string
}

// DatasetShape describes one synthetic dataset.
type DatasetShape struct {
	Name     string
	Releases int
	Series   int
	Buckets  int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Timeout time.Duration
	Runs    int
	Shapes  []DatasetShape
	Now     string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 2 * time.Minute,
		Runs:    5,
		Shapes: []DatasetShape{
			{Name: "small", Releases: 2, Series: 4, Buckets: 24},
			{Name: "medium", Releases: 20, Series: 16, Buckets: 90},
			{Name: "large", Releases: 100, Series: 64, Buckets: 500},
		},
		Now: "2025-11-03T10:00:00Z",
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the relwatch binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("relwatch"); err != nil {
		return fmt.Errorf("relwatch binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateDataset builds a dataset where every release carries the same series names.
func generateDataset(shape DatasetShape, rng *rand.Rand) schema.Dataset {
	ds := schema.Dataset{Releases: make(map[string]schema.ReleaseRecord, shape.Releases)}
	for r := range shape.Releases {
		rec := schema.ReleaseRecord{Summary: schema.SummaryMetrics{}}
		for s := range shape.Series {
			occurrences := make([]int, shape.Buckets)
			for i := range occurrences {
				occurrences[i] = rng.IntN(50)
			}
			rec.Series = append(rec.Series, schema.Series{
				Name:        fmt.Sprintf("series_%03d", s),
				Period:      schema.Period{Interval: "24h", Granularity: "1h"},
				Occurrences: occurrences,
			})
		}
		for _, m := range schema.KnownMetrics {
			rec.Summary[m] = rng.IntN(1000)
		}
		ds.Releases[releaseName(r)] = rec
	}
	return ds
}

// releaseName names the nth synthetic release.
func releaseName(n int) string {
	return fmt.Sprintf("1.%d.0", n)
}

// writeDataset writes ds as JSON and returns its path.
func writeDataset(dir, name string, ds schema.Dataset) (string, error) {
	path := filepath.Join(dir, name+".json")
	data, err := json.Marshal(ds)
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured dataset shapes
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult
	rng := rand.New(rand.NewPCG(42, 42))

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs\n",
		len(config.Shapes), config.Timeout, config.Runs)

	for _, shape := range config.Shapes {
		fmt.Printf("Benchmarking %s (%d releases x %d series x %d buckets)\n",
			shape.Name, shape.Releases, shape.Series, shape.Buckets)

		datasetPath, err := writeDataset(config.WorkDir, shape.Name, generateDataset(shape, rng))
		if err != nil {
			return nil, fmt.Errorf("failed to write %s dataset: %w", shape.Name, err)
		}

		dbPath := filepath.Join(config.WorkDir, shape.Name+".db")
		_ = os.Remove(dbPath)
		sqliteArgs := []string{"--source", "sqlite", "--source-db-connect", dbPath}
		if err := runOnce(config, append([]string{"source", "import", "--dataset", datasetPath}, sqliteArgs...)); err != nil {
			return nil, fmt.Errorf("failed to import %s dataset: %w", shape.Name, err)
		}

		sources := map[string][]string{
			"file":   {"--dataset", datasetPath},
			"sqlite": sqliteArgs,
		}
		for _, name := range []string{"file", "sqlite"} {
			compareArgs := []string{"compare", "--base-release", releaseName(0), "--target-release", releaseName(shape.Releases - 1)}
			chartArgs := []string{"chart", "--release", releaseName(0)}
			for _, args := range [][]string{compareArgs, chartArgs} {
				args = append(args, sources[name]...)
				args = append(args, "--now", config.Now, "--output", "json")
				results = append(results, runBenchmarkSuite(config, shape.Name, name, args))
			}
		}
	}

	return results, nil
}

// runOnce runs a relwatch command and reports its failure output.
func runOnce(config BenchmarkConfig, args []string) error {
	cmd := exec.Command("relwatch", args...)
	cmd.Dir = config.WorkDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w\nOutput: %s", err, string(output))
	}
	return nil
}

// runBenchmarkSuite runs one command config.Runs times and summarizes cold and warm timings
func runBenchmarkSuite(config BenchmarkConfig, dataset, source string, args []string) BenchmarkResult {
	command := args[0]
	fmt.Printf("  %s on %s source (%d runs)\n", command, source, config.Runs)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("relwatch", args...)
		cmd.Dir = config.WorkDir

		done := make(chan error, 1)
		go func() {
			done <- cmd.Run()
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	result := BenchmarkResult{Dataset: dataset, Source: source, Command: command, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if warm := times[min(1, len(times)):]; len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("relwatch_benchmark_%s.csv", timestamp))

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

	// Write header
	if err := writer.Write([]string{"dataset", "source", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Source, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "compare", "Compare:")
	printCommandSummary(results, "chart", "Chart:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s %-7s: Cold: %s, Warm: %s\n", result.Dataset, result.Source, result.ColdTime, result.WarmTime)
		}
	}
}
