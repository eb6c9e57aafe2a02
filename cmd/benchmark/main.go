// Benchmark tool for testing Kestrel against labeled audit data.
//
// Usage:
//   go run cmd/benchmark/main.go -csv /path/to/audits.csv -url http://localhost:8080
//
// This tool:
//   1. Reads labeled audit data (answer maps with expected risk levels)
//   2. Sends each answer map to Kestrel's /score endpoint
//   3. Compares Kestrel's level with the expected label
//   4. Calculates agreement, per-level breakdown, and latency stats
//
// CSV format: one column per answer key, plus an "expected_level" column
// holding the labeled risk level (safe, caution, at-risk, high-risk).
// Empty cells are treated as unanswered fields.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LabeledAudit represents a row from the benchmark dataset
type LabeledAudit struct {
	Row           int
	Answers       map[string]any
	ExpectedLevel string
}

// ScoreRequest is the Kestrel API request format
type ScoreRequest struct {
	Answers map[string]any `json:"answers"`
}

// ScoreResponse is the Kestrel API response format
type ScoreResponse struct {
	Result struct {
		Score        float64 `json:"score"`
		Level        string  `json:"level"`
		FlaggedCount int     `json:"flaggedCount"`
	} `json:"result"`
}

// Metrics tracks benchmark results
type Metrics struct {
	Agreements    int64 // Kestrel level matched expected label
	Disagreements int64

	TotalProcessed int64
	TotalErrors    int64

	ProcessingTimeMs int64

	mu      sync.Mutex
	byLevel map[string]*levelCount
	lats    []int64
}

type levelCount struct {
	Expected int64
	Matched  int64
}

func (m *Metrics) record(expected string, matched bool, elapsedMs int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byLevel == nil {
		m.byLevel = make(map[string]*levelCount)
	}
	lc := m.byLevel[expected]
	if lc == nil {
		lc = &levelCount{}
		m.byLevel[expected] = lc
	}
	lc.Expected++
	if matched {
		lc.Matched++
	}
	m.lats = append(m.lats, elapsedMs)
}

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "Path to labeled audit CSV file")
	baseURL := flag.String("url", "http://localhost:8080", "Kestrel base URL")
	tenantID := flag.String("tenant", "benchmark-test", "Tenant ID for requests")
	limit := flag.Int("limit", 10000, "Maximum audits to process (0 = all)")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	verbose := flag.Bool("verbose", false, "Print each audit result")
	flag.Parse()

	if *csvPath == "" {
		fmt.Println("Usage: benchmark -csv /path/to/audits.csv [-url http://localhost:8080]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║         KESTREL BENCHMARK - Risk Level Agreement              ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nCSV File:    %s\n", *csvPath)
	fmt.Printf("Kestrel URL: %s\n", *baseURL)
	fmt.Printf("Tenant ID:   %s\n", *tenantID)
	fmt.Printf("Workers:     %d\n", *workers)
	fmt.Printf("Limit:       %d\n", *limit)
	fmt.Println()

	// Check Kestrel is running
	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: Kestrel not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure Kestrel is running:")
		fmt.Println("  cd kestrel && go run cmd/kestrel/main.go")
		os.Exit(1)
	}
	fmt.Println("✓ Kestrel is healthy")

	// Read labeled audit data
	fmt.Printf("\nReading labeled audits from %s...\n", *csvPath)
	audits, err := readAuditCSV(*csvPath, *limit)
	if err != nil {
		fmt.Printf("ERROR: Failed to read CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Loaded %d audits\n", len(audits))

	// Count labels
	labelCounts := make(map[string]int)
	for _, a := range audits {
		labelCounts[a.ExpectedLevel]++
	}
	for _, level := range []string{"safe", "caution", "at-risk", "high-risk"} {
		if n := labelCounts[level]; n > 0 {
			fmt.Printf("  - %-9s %d (%.2f%%)\n", level+":", n, 100*float64(n)/float64(len(audits)))
		}
	}

	// Run benchmark
	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runBenchmark(audits, *baseURL, *tenantID, *workers, *verbose)
	duration := time.Since(startTime)

	// Print results
	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func readAuditCSV(path string, limit int) ([]LabeledAudit, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	labelCol := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), "expected_level") {
			labelCol = i
			break
		}
	}
	if labelCol < 0 {
		return nil, fmt.Errorf("CSV missing expected_level column")
	}

	var audits []LabeledAudit
	row := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			continue // Skip malformed rows
		}

		answers := make(map[string]any)
		for i, cell := range record {
			if i == labelCol || i >= len(header) {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				answers[strings.TrimSpace(header[i])] = cell
			}
		}

		audits = append(audits, LabeledAudit{
			Row:           row,
			Answers:       answers,
			ExpectedLevel: strings.TrimSpace(record[labelCol]),
		})

		if limit > 0 && len(audits) >= limit {
			break
		}
	}

	return audits, nil
}

func runBenchmark(audits []LabeledAudit, baseURL, tenantID string, numWorkers int, verbose bool) *Metrics {
	metrics := &Metrics{}

	// Create work channel
	work := make(chan LabeledAudit, 100)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 10 * time.Second}

			for audit := range work {
				start := time.Now()
				result, err := scoreAudit(client, baseURL, tenantID, audit)
				elapsed := time.Since(start).Milliseconds()

				atomic.AddInt64(&metrics.ProcessingTimeMs, elapsed)
				atomic.AddInt64(&metrics.TotalProcessed, 1)

				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: row %d -> %v\n", audit.Row, err)
					}
					continue
				}

				matched := result.Result.Level == audit.ExpectedLevel
				if matched {
					atomic.AddInt64(&metrics.Agreements, 1)
				} else {
					atomic.AddInt64(&metrics.Disagreements, 1)
				}
				metrics.record(audit.ExpectedLevel, matched, elapsed)

				if verbose {
					status := "✓"
					if !matched {
						status = "✗"
					}
					fmt.Printf("%s row %-5d | Score: %6.2f | Expected: %-9s | Kestrel: %-9s | Flags: %d\n",
						status,
						audit.Row,
						result.Result.Score,
						audit.ExpectedLevel,
						result.Result.Level,
						result.Result.FlaggedCount,
					)
				}
			}
		}()
	}

	// Send work
	for _, audit := range audits {
		work <- audit
	}
	close(work)

	// Wait for completion
	wg.Wait()

	return metrics
}

func scoreAudit(client *http.Client, baseURL, tenantID string, audit LabeledAudit) (*ScoreResponse, error) {
	body, err := json.Marshal(ScoreRequest{Answers: audit.Answers})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-ID", tenantID)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      BENCHMARK RESULTS                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Printf("\n📊 DATASET STATISTICS\n")
	fmt.Printf("   Total Processed:  %d\n", m.TotalProcessed)
	fmt.Printf("   Agreements:       %d\n", m.Agreements)
	fmt.Printf("   Disagreements:    %d\n", m.Disagreements)
	fmt.Printf("   Errors:           %d\n", m.TotalErrors)

	scored := m.Agreements + m.Disagreements
	agreement := float64(0)
	if scored > 0 {
		agreement = float64(m.Agreements) / float64(scored)
	}

	fmt.Printf("\n🎯 AGREEMENT\n")
	fmt.Printf("   Overall:    %.4f  (share of audits where levels matched)\n", agreement)

	m.mu.Lock()
	levels := make([]string, 0, len(m.byLevel))
	for level := range m.byLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		lc := m.byLevel[level]
		rate := float64(lc.Matched) / float64(lc.Expected)
		fmt.Printf("   %-10s %.4f  (%d / %d)\n", level+":", rate, lc.Matched, lc.Expected)
	}
	lats := append([]int64(nil), m.lats...)
	m.mu.Unlock()

	fmt.Printf("\n⏱️  PERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if m.TotalProcessed > 0 {
		avgMs := float64(m.ProcessingTimeMs) / float64(m.TotalProcessed)
		rps := float64(m.TotalProcessed) / duration.Seconds()
		fmt.Printf("   Avg Latency:      %.2f ms\n", avgMs)
		fmt.Printf("   Throughput:       %.2f audits/sec\n", rps)
	}
	if len(lats) > 0 {
		sort.Slice(lats, func(i, j int) bool { return lats[i] < lats[j] })
		fmt.Printf("   p50 Latency:      %d ms\n", lats[len(lats)/2])
		fmt.Printf("   p95 Latency:      %d ms\n", lats[len(lats)*95/100])
		fmt.Printf("   p99 Latency:      %d ms\n", lats[len(lats)*99/100])
	}

	// Interpretation
	fmt.Printf("\n💡 INTERPRETATION\n")
	if agreement >= 0.95 {
		fmt.Println("   ✅ Excellent agreement - scoring matches the labeled data")
	} else if agreement >= 0.8 {
		fmt.Println("   ⚠️  Good agreement - a few labels diverge from scoring")
	} else {
		fmt.Println("   ❌ Poor agreement - labels or rule weights need review")
	}

	fmt.Println()
}
