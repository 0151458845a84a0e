package config

import "time"

// Application constants - all hardcoded values for the Cargo Pulse system
const (
	// Application Info
	AppName    = "Cargo Pulse"
	AppVersion = "1.2.0"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	SheetsFetchTimeout  = 45 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultWebDir     = "web"
	DefaultInputDir   = "data/input"
	DefaultReportsDir = "data/reports"

	// Operation Timeouts
	DefaultOperationTimeout = 10 * time.Minute
	LoadTimeout             = 5 * time.Minute
	ExportTimeout           = 2 * time.Minute

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	MaxLogFileSize   = 100 * 1024 * 1024 // 100MB

	// Inspection workbook file matching
	WorkbookPattern = `(?i).*\.xlsx?$`

	// Well-known report file names
	CombinedCSVName        = "combined_inspection.csv"
	ContainerRollupCSVName = "rollup_by_container.csv"
	FactoryRollupCSVName   = "rollup_by_factory.csv"
	SummaryWorkbookName    = "inspection_summary.xlsx"

	// API Endpoints (internal)
	APIBasePath      = "/api"
	DatasetsEndpoint = "/api/datasets"
	HealthEndpoint   = "/api/health"
	MetricsEndpoint  = "/metrics"

	// WebSocket Endpoints
	WebSocketEndpoint = "/ws"
)
