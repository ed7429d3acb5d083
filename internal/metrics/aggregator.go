// internal/metrics/aggregator.go
package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/logging"
)

// DefaultFilePath is where the process-wide aggregator persists.
const DefaultFilePath = "data/metrics.json"

// Aggregator collects model and tool performance figures.
type Aggregator struct {
	mutex    sync.Mutex
	metrics  map[string]*ModelMetrics
	tools    map[string]*ToolMetrics
	filePath string
	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
	saveMu    sync.Mutex
}

var (
	instance *Aggregator
	once     sync.Once
)

// GetInstance returns the singleton instance of the Aggregator.
func GetInstance() *Aggregator {
	once.Do(func() {
		instance = NewAggregator(DefaultFilePath)
	})
	return instance
}

// NewAggregator loads any saved figures from filePath and saves them back
// every minute. An empty filePath keeps everything in memory.
func NewAggregator(filePath string) *Aggregator {
	agg := &Aggregator{
		metrics:  make(map[string]*ModelMetrics),
		tools:    make(map[string]*ToolMetrics),
		filePath: filePath,
		done:     make(chan struct{}),
	}
	if filePath == "" {
		return agg
	}

	agg.load()

	ticker := time.NewTicker(1 * time.Minute)
	agg.ticker = ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				agg.save()
			case <-agg.done:
				return
			}
		}
	}()

	return agg
}

// load reads metrics from the JSON file into memory.
func (a *Aggregator) load() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	data, err := os.ReadFile(a.filePath)
	if err != nil {
		return
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return
	}

	for i := range snap.Models {
		m := snap.Models[i]
		a.metrics[m.ModelName] = &m
	}
	for i := range snap.Tools {
		t := snap.Tools[i]
		a.tools[t.Name] = &t
	}
}

// save writes the current metrics from memory to the JSON file.
func (a *Aggregator) save() {
	if a.filePath == "" {
		return
	}
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	logging.LogMetricsEvent("[METRICS] Saving metrics to %s", a.filePath)
	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return
	}
	if err := writeFile(a.filePath, data); err != nil {
		logging.LogMetricsEvent("[METRICS] save failed: %v", err)
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Generation is one observed model call.
type Generation struct {
	Model        string
	Elapsed      time.Duration
	PromptTokens int
	OutputTokens int
	Failed       bool
}

// Record updates the metrics for a given model with new data.
func (a *Aggregator) Record(g Generation) {
	logging.LogMetricsEvent("[METRICS] Record called for model %s", g.Model)
	a.mutex.Lock()
	defer a.mutex.Unlock()

	modelMetrics, exists := a.metrics[g.Model]
	if !exists {
		modelMetrics = &ModelMetrics{
			ModelName: g.Model,
		}
		a.metrics[g.Model] = modelMetrics
	}

	modelMetrics.LastUpdatedUTC = time.Now().UTC()

	updateStats(&modelMetrics.OverallStats, g)

	bucket := getBucket(g.PromptTokens)
	found := false
	for i := range modelMetrics.PerformanceBuckets {
		if modelMetrics.PerformanceBuckets[i].Dimension == "input_tokens" && modelMetrics.PerformanceBuckets[i].Bucket == bucket {
			updateStats(&modelMetrics.PerformanceBuckets[i].Stats, g)
			found = true
			break
		}
	}
	if !found {
		newBucket := PerformanceBucket{
			Dimension: "input_tokens",
			Bucket:    bucket,
		}
		updateStats(&newBucket.Stats, g)
		modelMetrics.PerformanceBuckets = append(modelMetrics.PerformanceBuckets, newBucket)
	}
}

// RecordTool counts one executor outcome.
func (a *Aggregator) RecordTool(name string, success bool, elapsed time.Duration) {
	logging.LogMetricsEvent("[METRICS] RecordTool called for %s", name)
	a.mutex.Lock()
	defer a.mutex.Unlock()

	tm, ok := a.tools[name]
	if !ok {
		tm = &ToolMetrics{Name: name}
		a.tools[name] = tm
	}
	tm.Calls++
	if !success {
		tm.Failures++
	}
	updateRunningStat(&tm.LatencyMillis, float64(elapsed.Microseconds())/1000)
}

// Snapshot copies the current figures, sorted by name.
func (a *Aggregator) Snapshot() Snapshot {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	snap := Snapshot{
		Models: make([]ModelMetrics, 0, len(a.metrics)),
		Tools:  make([]ToolMetrics, 0, len(a.tools)),
	}
	for _, m := range a.metrics {
		c := *m
		c.PerformanceBuckets = append([]PerformanceBucket(nil), m.PerformanceBuckets...)
		snap.Models = append(snap.Models, c)
	}
	for _, t := range a.tools {
		snap.Tools = append(snap.Tools, *t)
	}
	sort.Slice(snap.Models, func(i, j int) bool { return snap.Models[i].ModelName < snap.Models[j].ModelName })
	sort.Slice(snap.Tools, func(i, j int) bool { return snap.Tools[i].Name < snap.Tools[j].Name })
	return snap
}

// updateStats updates the running statistics with a new generation.
// Failed generations only count toward the request and failure totals.
func updateStats(stats *RunningAggregatedStats, g Generation) {
	stats.TotalRequests++
	if g.Failed {
		stats.Failures++
		return
	}
	updateRunningStat(&stats.LatencyMillis, float64(g.Elapsed.Milliseconds()))

	var tokensPerSecond float64
	if g.Elapsed > 0 {
		tokensPerSecond = float64(g.OutputTokens) / g.Elapsed.Seconds()
	}
	updateRunningStat(&stats.TokensPerSecond, tokensPerSecond)

	updateRunningStat(&stats.InputTokens, float64(g.PromptTokens))
	updateRunningStat(&stats.OutputTokens, float64(g.OutputTokens))
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// getBucket determines the appropriate performance bucket for a given number of input tokens.
func getBucket(inputTokens int) string {
	switch {
	case inputTokens <= 256:
		return "0-256"
	case inputTokens <= 1024:
		return "257-1024"
	case inputTokens <= 4096:
		return "1025-4096"
	case inputTokens <= 8192:
		return "4097-8192"
	default:
		return "8192+"
	}
}

// Close stops the ticker and saves the metrics. Later calls are no-ops.
func (a *Aggregator) Close() {
	a.closeOnce.Do(func() {
		if a.ticker != nil {
			a.ticker.Stop()
			close(a.done)
		}
		a.save()
	})
}

// Close gracefully shuts down the singleton aggregator instance.
func Close() {
	if instance != nil {
		instance.Close()
	}
}
