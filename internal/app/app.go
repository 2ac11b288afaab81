// Package app wires the parser, library resolver, and output formatting into
// a runnable application with its own isolated logger.
package app

import (
	"io"
	"log/slog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. Logs go to logW so
// machine-readable output on outW stays clean.
func NewApp(outW, logW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logW:   logW,
		logger: logger,
		config: config,
	}
}
