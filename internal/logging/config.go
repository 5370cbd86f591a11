package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/nara-ocean/marine-analytics/internal/config"
)

// NewFromConfig creates a logger from configuration. Log files are opened on
// the OS filesystem.
func NewFromConfig(cfg config.LoggingConfig) (*Logger, error) {
	return NewFromConfigFs(cfg, afero.NewOsFs())
}

// NewFromConfigFs is NewFromConfig with log files opened on fs
func NewFromConfigFs(cfg config.LoggingConfig, fs afero.Fs) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	out, toFile, err := openOutput(fs, cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeLayout(cfg.TimeFormat),
			NoColor:    toFile,
		}
	case "", "json":
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	return NewWithWriter(out, level), nil
}

// openOutput resolves stdout, stderr or an append-only log file
func openOutput(fs afero.Fs, path string) (io.Writer, bool, error) {
	switch path {
	case "", "stdout":
		return os.Stdout, false, nil
	case "stderr":
		return os.Stderr, false, nil
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("create log directory for %s: %w", path, err)
	}
	file, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, true, nil
}

// timeLayout maps the configured time_format name to a layout
func timeLayout(name string) string {
	switch name {
	case "Unix":
		return time.UnixDate
	case "Kitchen":
		return time.Kitchen
	default:
		return time.RFC3339
	}
}
