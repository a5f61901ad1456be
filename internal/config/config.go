package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Port        int
	GRPCPort    int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// NATS (detection message bus)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	// Docker: Use nats://nats:4222 if running the viewer in Docker
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	NatsPendingMsgs    int

	// Detection stream
	DetectionsSubject string
	PayloadFormat     string // "json" or "protobuf", used when a message carries no Content-Type header

	// Window display
	DisplayEnabled bool
	WindowName     string
	WindowWait     time.Duration

	// MJPEG output
	MJPEGEnabled bool
	MJPEGQuality int

	// Detection overlay
	BoxColor        string
	LabelBandColor  string
	TextColor       string
	LabelBandHeight int
	OverlayFont     int

	// Stats overlay
	ShowFPS           bool
	ShowInferenceTime bool
	ShowObjectCount   bool

	// Health Check
	HealthCheckInterval time.Duration

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "viewer-1"),
		Port:        getEnvInt("PORT", 8000),
		GRPCPort:    getEnvInt("GRPC_PORT", 50051),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// NATS
		NatsURL:            getNatsURL(),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		NatsPendingMsgs:    getEnvInt("NATS_PENDING_MSGS", 8),

		// Detection stream
		DetectionsSubject: getEnv("DETECTIONS_SUBJECT", "movidius_ncs_stream.detected_objects"),
		PayloadFormat:     getEnv("PAYLOAD_FORMAT", "json"),

		// Window display
		DisplayEnabled: getEnvBool("DISPLAY_ENABLED", true),
		WindowName:     getEnv("WINDOW_NAME", "image_viewer"),
		WindowWait:     getEnvDuration("WINDOW_WAIT", 5*time.Millisecond),

		// MJPEG output
		MJPEGEnabled: getEnvBool("MJPEG_ENABLED", true),
		MJPEGQuality: getEnvInt("MJPEG_QUALITY", 90),

		// Detection overlay
		BoxColor:        getEnv("BOX_COLOR", "#00FF00"),
		LabelBandColor:  getEnv("LABEL_BAND_COLOR", "#00FF00"),
		TextColor:       getEnv("TEXT_COLOR", "#FF0000"),
		LabelBandHeight: getEnvInt("LABEL_BAND_HEIGHT", 20),
		OverlayFont:     getEnvInt("OVERLAY_FONT", 1), // gocv.FontHersheyPlain

		// Stats overlay
		ShowFPS:           getEnvBool("SHOW_FPS", false),
		ShowInferenceTime: getEnvBool("SHOW_INFERENCE_TIME", false),
		ShowObjectCount:   getEnvBool("SHOW_OBJECT_COUNT", false),

		// Health Check
		HealthCheckInterval: getEnvDuration("HEALTH_CHECK_INTERVAL", 5*time.Second),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
