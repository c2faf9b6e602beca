// Package config validates and holds the process's run configuration:
// the CLI-supplied symbol, bind address, and log level.
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// Config is the fully-validated configuration for one process run.
type Config struct {
	Symbol   string
	Host     string
	Port     uint16
	LogLevel zerolog.Level
}

// New validates raw CLI input and returns a Config, or an error
// describing the first validation failure. A bad flag is a
// configuration error, fatal at startup.
func New(symbol, host string, port int, logLevel string) (Config, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return Config{}, fmt.Errorf("symbol is required")
	}

	if net.ParseIP(host) == nil {
		return Config{}, fmt.Errorf("--host %q is not a valid IP address", host)
	}

	if port < 0 || port > 65535 {
		return Config{}, fmt.Errorf("--port %d out of range [0,65535]", port)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return Config{}, fmt.Errorf("--log-level %q: %w", logLevel, err)
	}
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel:
	default:
		return Config{}, fmt.Errorf("--log-level %q: want one of trace|debug|info|warn|error", logLevel)
	}

	return Config{
		Symbol:   symbol,
		Host:     host,
		Port:     uint16(port),
		LogLevel: level,
	}, nil
}

// Addr is the host:port the gRPC server should bind.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
