package services

import (
	"log/slog"
	"time"

	"cargocli/internal/config"
)

// ClientCounter reports the number of connected push clients. Implemented
// by the websocket hub.
type ClientCounter interface {
	ClientCount() int
}

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Datasets  int       `json:"datasets"`
	Rows      int       `json:"rows"`
	WSClients int       `json:"ws_clients"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthService reports process health for the /api/health endpoint.
type HealthService struct {
	version   string
	startTime time.Time

	data *DataService
	hub  ClientCounter

	logger *slog.Logger
}

// NewHealthService creates a health service. The hub is optional; without
// one the client count reports zero.
func NewHealthService(data *DataService, hub ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   config.AppVersion,
		startTime: time.Now(),
		data:      data,
		hub:       hub,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Health builds the current health snapshot. The service is "ok" as long
// as the process is serving; dataset and client counts are informational.
func (s *HealthService) Health() HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}

	if s.data != nil {
		for _, d := range s.data.Datasets() {
			status.Datasets++
			status.Rows += len(d.Rows)
		}
	}
	if s.hub != nil {
		status.WSClients = s.hub.ClientCount()
	}
	return status
}
