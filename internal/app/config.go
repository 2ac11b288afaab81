package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath    string // .slx archive or a bare system .xml file
	RootDir      string // fallback package root for bare XML input, empty derives it from InputPath
	LibraryPaths []string
	CachePath    string // binary cache output, empty disables

	LogFormat   string
	LogLevel    string
	JSONOutput  bool
	WorkerCount int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
