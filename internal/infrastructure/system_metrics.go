package infrastructure

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics records Go runtime gauges for the process
type SystemMetrics struct {
	startTime     time.Time
	goRoutines    metric.Int64Gauge
	memoryUsage   metric.Int64Gauge
	processUptime metric.Float64Gauge
}

// SystemStats holds current system statistics
type SystemStats struct {
	GoRoutines    int64         `json:"goroutines"`
	MemoryUsage   int64         `json:"memory_usage_bytes"`
	MemorySystem  int64         `json:"memory_system_bytes"`
	GCCount       uint32        `json:"gc_count"`
	CPUCount      int           `json:"cpu_count"`
	ProcessUptime time.Duration `json:"uptime_ns"`
	Timestamp     time.Time     `json:"timestamp"`
}

// NewSystemMetrics creates the runtime gauges on meter
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	goRoutines, err1 := meter.Int64Gauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	memoryUsage, err2 := meter.Int64Gauge(
		"system_memory_usage_bytes",
		metric.WithDescription("Memory usage in bytes"),
		metric.WithUnit("By"),
	)
	processUptime, err3 := meter.Float64Gauge(
		"system_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}

	return &SystemMetrics{
		startTime:     time.Now(),
		goRoutines:    goRoutines,
		memoryUsage:   memoryUsage,
		processUptime: processUptime,
	}, nil
}

// Collect reads runtime statistics and records them
func (sm *SystemMetrics) Collect(ctx context.Context) SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := SystemStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		MemoryUsage:   int64(memStats.Alloc),
		MemorySystem:  int64(memStats.Sys),
		GCCount:       memStats.NumGC,
		CPUCount:      runtime.NumCPU(),
		ProcessUptime: time.Since(sm.startTime),
		Timestamp:     time.Now(),
	}

	sm.goRoutines.Record(ctx, stats.GoRoutines)
	sm.memoryUsage.Record(ctx, stats.MemoryUsage)
	sm.processUptime.Record(ctx, stats.ProcessUptime.Seconds())

	return stats
}

// Uptime returns the time since the metrics were created
func (sm *SystemMetrics) Uptime() time.Duration {
	return time.Since(sm.startTime)
}
