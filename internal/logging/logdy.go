package logging

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ncs-viewer-go/internal/config"
)

// logdyWriter forwards raw JSON log lines to the embedded Logdy UI. Debug and
// trace lines are skipped so per-frame logging does not flood the browser.
type logdyWriter struct {
	logger   logdy.Logdy
	minLevel zerolog.Level
}

func (w *logdyWriter) Write(p []byte) (int, error) {
	w.logger.LogString(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

func (w *logdyWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < w.minLevel {
		return len(p), nil
	}
	return w.Write(p)
}

// StartLogdy starts the embedded Logdy web UI and returns a writer to tee
// logs into, plus the UI URL
func StartLogdy(cfg *config.Config) (io.Writer, string, error) {
	if cfg.LogdyPort <= 0 || cfg.LogdyPort > 65535 {
		return nil, "", fmt.Errorf("invalid LOGDY_PORT %d", cfg.LogdyPort)
	}
	if cfg.LogdyPort == cfg.Port {
		return nil, "", fmt.Errorf("LOGDY_PORT %d collides with the API port", cfg.LogdyPort)
	}

	portStr := strconv.Itoa(cfg.LogdyPort)
	ld := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: portStr,
	}, nil)

	url := fmt.Sprintf("http://%s:%s", cfg.LogdyHost, portStr)
	log.Info().Str("url", url).Msg("Logdy UI available")
	return &logdyWriter{logger: ld, minLevel: zerolog.InfoLevel}, url, nil
}
