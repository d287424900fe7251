package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts"
)

// DataReadiness reports whether the tables are loaded
type DataReadiness interface {
	Ready() bool
	LoadedAt() time.Time
}

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	data      DataReadiness
	hub       ClientCounter
	system    *infrastructure.SystemMetrics
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a new health service. hub and system may be nil.
func NewHealthService(data DataReadiness, hub ClientCounter, system *infrastructure.SystemMetrics, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", contracts.Version),
		slog.String("build_time", contracts.BuildTime),
		slog.String("git_commit", contracts.GitCommit))

	return &HealthService{
		version:   contracts.Version,
		data:      data,
		hub:       hub,
		system:    system,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["data"] = hs.checkDataHealth()
	status.Services["websocket"] = hs.checkWebSocketHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// Ready reports whether every dependency is ready
func (hs *HealthService) Ready(ctx context.Context) bool {
	return hs.ReadinessCheck(ctx).Status == "ready"
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	runtimeInfo := map[string]interface{}{
		"uptime":     time.Since(hs.startTime).Seconds(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
	}
	if hs.system != nil {
		stats := hs.system.Collect(ctx)
		runtimeInfo["memory_usage_bytes"] = stats.MemoryUsage
		runtimeInfo["gc_count"] = stats.GCCount
	}

	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   runtimeInfo,
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"name":         contracts.GetVersionString(),
		"version":      info.Version,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"data_format":  info.DataFormat,
		"api_version":  info.APIVersion,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.data == nil || !hs.data.Ready() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "datasets not loaded",
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("datasets loaded at %s", hs.data.LoadedAt().Format(time.RFC3339)),
		Uptime:  time.Since(hs.data.LoadedAt()).String(),
	}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{
			Status:  "ready",
			Message: "websocket disabled",
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d clients connected", hs.hub.ClientCount()),
		Uptime:  time.Since(hs.startTime).String(),
	}
}
