package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"time"
)

// result collects the timings of one mode across iterations.
type result struct {
	Mode       string
	Iterations []time.Duration
	Average    time.Duration
	Median     time.Duration
	Min        time.Duration
	Max        time.Duration
	Throughput float64 // MB/s over the average
}

func (r *result) String() string {
	return fmt.Sprintf(
		"Mode: %s\n"+
			"  Average: %v\n"+
			"  Median:  %v\n"+
			"  Min:     %v\n"+
			"  Max:     %v\n"+
			"  Throughput: %.1f MB/s\n",
		r.Mode, r.Average, r.Median, r.Min, r.Max, r.Throughput)
}

func median(durations []time.Duration) time.Duration {
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func runOnce(bin, data string, args []string) (time.Duration, error) {
	cmd := exec.Command(bin, append(args, data)...)
	cmd.Stdout = &bytes.Buffer{}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%v (stderr: %s)", err, stderr.String())
	}
	return time.Since(start), nil
}

func runMode(bin, data, mode string, args []string, iterations int, sizeMB float64) *result {
	r := &result{Mode: mode, Iterations: make([]time.Duration, 0, iterations)}

	fmt.Printf("Benchmarking %s (%d iterations)...\n", mode, iterations)
	for i := 0; i < iterations; i++ {
		runtime.GC()
		time.Sleep(time.Second)

		d, err := runOnce(bin, data, args)
		if err != nil {
			fmt.Printf("  iteration %d/%d failed: %v\n", i+1, iterations, err)
			continue
		}
		fmt.Printf("  iteration %d/%d: %v\n", i+1, iterations, d)
		r.Iterations = append(r.Iterations, d)
	}
	if len(r.Iterations) == 0 {
		return r
	}

	var total time.Duration
	r.Min, r.Max = r.Iterations[0], r.Iterations[0]
	for _, d := range r.Iterations {
		total += d
		r.Min = min(r.Min, d)
		r.Max = max(r.Max, d)
	}
	r.Average = total / time.Duration(len(r.Iterations))
	r.Median = median(r.Iterations)
	r.Throughput = sizeMB / r.Average.Seconds()
	return r
}

func main() {
	bin := flag.String("bin", "./fast-1brc", "path to the fast-1brc binary")
	data := flag.String("data", "data/measurements.txt", "measurement file to aggregate")
	iterations := flag.Int("iterations", 5, "runs per mode")
	out := flag.String("o", "", "also save the results to this file")
	flag.Parse()

	fi, err := os.Stat(*data)
	if err != nil {
		fmt.Printf("Data file not found: %v\n", err)
		os.Exit(1)
	}
	sizeMB := float64(fi.Size()) / (1024 * 1024)

	fmt.Printf("Data file: %s (%.1f MB)\n", *data, sizeMB)
	fmt.Printf("CPU cores: %d\n\n", runtime.NumCPU())

	modes := []struct {
		name string
		args []string
	}{
		{"pread", nil},
		{"mmap", []string{"-mmap"}},
		{"serial", []string{"-serial"}},
	}

	results := make([]*result, 0, len(modes))
	for _, m := range modes {
		results = append(results, runMode(*bin, *data, m.name, m.args, *iterations, sizeMB))
	}

	fmt.Println("\n=== RESULTS ===")
	fastest := results[0]
	for _, r := range results {
		fmt.Println(r)
		if len(r.Iterations) > 0 && r.Average < fastest.Average {
			fastest = r
		}
	}
	fmt.Printf("Fastest mode: %s (%.1f MB/s)\n", fastest.Mode, fastest.Throughput)

	if *out != "" {
		saveResults(*out, results, fastest)
	}
}

func saveResults(path string, results []*result, fastest *result) {
	file, err := os.Create(path)
	if err != nil {
		fmt.Printf("Error creating results file: %v\n", err)
		return
	}
	defer file.Close()

	fmt.Fprintf(file, "=== RESULTS ===\n")
	fmt.Fprintf(file, "Date: %s\n", time.Now().Format(time.RFC1123))
	fmt.Fprintf(file, "CPU: %d cores\n", runtime.NumCPU())
	fmt.Fprintf(file, "OS: %s\n\n", runtime.GOOS)
	for _, r := range results {
		fmt.Fprintf(file, "%s\n", r)
	}
	fmt.Fprintf(file, "Fastest mode: %s (%.1f MB/s)\n", fastest.Mode, fastest.Throughput)
	fmt.Printf("Results saved to %s\n", path)
}
