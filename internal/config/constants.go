package config

import "time"

// Application constants for the remittance processing system
const (
	// Application Info
	AppName    = "Remit835"
	AppVersion = "1.0.0"

	// Interchange structure
	// The ISA segment is fixed width: the element separator sits at byte 3,
	// the component separator at byte 104 and the segment terminator at 105.
	MinInterchangeLength = 106

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultInputDir   = "data/input"
	DefaultOutputDir  = "data/output"
	DefaultReportsDir = "data/reports"

	// Run Timeouts
	DefaultRunTimeout       = 2 * time.Hour
	FileProcessTimeout      = 10 * time.Minute
	ReportGenerationTimeout = 15 * time.Minute

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	MaxLogFileSize   = 100 * 1024 * 1024 // 100MB

	// API Endpoints (internal)
	APIBasePath     = "/api/v1"
	RunsEndpoint    = "/api/v1/runs"
	FilesEndpoint   = "/api/v1/files"
	ReportsEndpoint = "/api/v1/reports"
	HealthEndpoint  = "/health"
	MetricsEndpoint = "/metrics"

	// WebSocket Endpoints
	WebSocketEndpoint = "/ws"
)
