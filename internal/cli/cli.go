package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/slxkit/internal/app"
	"github.com/vk/slxkit/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments, overlaying them on the optional
// configuration file. It returns a populated app.Config, a boolean
// indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("slxkit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
slxkit - Parse block-diagram packages (.slx or system XML) and regenerate them.

Usage:
  slxkit [options] [MODEL_FILE]

Arguments:
  MODEL_FILE
    Path to a packaged .slx file or a bare system .xml file.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	inputFlag := flagSet.String("input", "", "Path to the model file.")
	iFlag := flagSet.String("i", "", "Path to the model file (shorthand).")
	libsFlag := flagSet.String("libs", "", "Comma-separated library search directories.")
	rootFlag := flagSet.String("root", "", "Fallback package root directory for bare system XML input.")
	jsonFlag := flagSet.Bool("json", false, "Print the full system tree as JSON.")
	cacheFlag := flagSet.String("cache", "", "Write a binary cache of the parsed system to this path.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers for file decoding. 0 uses all CPUs.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	setFlags := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	var fileCfg *config.File
	if *configFlag != "" {
		var err error
		fileCfg, err = config.DecodeFile(context.Background(), *configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}

	path := ""
	if *inputFlag != "" {
		path = *inputFlag
	} else if *iFlag != "" {
		path = *iFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Model path determined.", "path", path)

	if path == "" {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	var libPaths []string
	for _, dir := range strings.Split(*libsFlag, ",") {
		if dir = strings.TrimSpace(dir); dir != "" {
			libPaths = append(libPaths, dir)
		}
	}
	rootDir := *rootFlag
	workers := *workersFlag
	logFormat := *logFormatFlag
	logLevel := *logLevelFlag

	// Unset flags fall back to configuration file values.
	if fileCfg != nil {
		if len(libPaths) == 0 {
			libPaths = fileCfg.LibraryPaths
		}
		if !setFlags["root"] && fileCfg.RootDir != "" {
			rootDir = fileCfg.RootDir
		}
		if !setFlags["workers"] && fileCfg.Workers > 0 {
			workers = fileCfg.Workers
		}
		if fileCfg.Log != nil {
			if !setFlags["log-format"] && fileCfg.Log.Format != "" {
				logFormat = fileCfg.Log.Format
			}
			if !setFlags["log-level"] && fileCfg.Log.Level != "" {
				logLevel = fileCfg.Log.Level
			}
		}
	}

	logFormat = strings.ToLower(logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel = strings.ToLower(logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	appConfig, err := app.NewConfig(app.Config{
		InputPath:    path,
		RootDir:      rootDir,
		LibraryPaths: libPaths,
		CachePath:    *cacheFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		JSONOutput:   *jsonFlag,
		WorkerCount:  workers,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", appConfig)
	return appConfig, false, nil
}
