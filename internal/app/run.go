package app

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/slxkit/internal/codec"
	"github.com/vk/slxkit/internal/ctxlog"
	"github.com/vk/slxkit/internal/library"
	"github.com/vk/slxkit/internal/model"
	"github.com/vk/slxkit/internal/parser"
	"github.com/vk/slxkit/internal/source"
)

// Run executes the main application logic: parse the input, optionally
// resolve library references, and emit the result.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	sys, err := a.parseInput(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("Input parsed.", "path", a.config.InputPath, "blocks", len(sys.Blocks))

	if len(a.config.LibraryPaths) > 0 {
		resolver := library.NewResolver(a.config.LibraryPaths)
		if err := resolver.ResolveReferences(ctx, sys); err != nil {
			return fmt.Errorf("resolve library references: %w", err)
		}
		a.logger.Debug("Library references resolved.", "search_dirs", len(a.config.LibraryPaths))
	}

	if a.config.JSONOutput {
		data, err := json.MarshalIndent(sys, "", "  ")
		if err != nil {
			return fmt.Errorf("encode system to JSON: %w", err)
		}
		fmt.Fprintln(a.outW, string(data))
	} else {
		a.printSummary(sys)
	}

	if a.config.CachePath != "" {
		if err := codec.SaveFile(&codec.Document{System: sys}, a.config.CachePath); err != nil {
			return fmt.Errorf("save cache: %w", err)
		}
		a.logger.Info("Cache written.", "path", a.config.CachePath)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// parseInput parses either a packaged archive or a bare system XML file into
// a fully linked system tree.
func (a *App) parseInput(ctx context.Context) (*model.System, error) {
	inputPath := a.config.InputPath
	if strings.EqualFold(filepath.Ext(inputPath), ".slx") {
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", inputPath, err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}
		zr, err := zip.NewReader(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("open archive %s: %w", inputPath, err)
		}
		p := parser.New("", source.NewZipSource(zr))
		p.SetWorkers(a.config.WorkerCount)
		return p.ParseSystemFile(ctx, model.RootSystemPath)
	}

	rootDir := a.config.RootDir
	if rootDir == "" {
		rootDir = filepath.Dir(inputPath)
	}
	p := parser.New(rootDir, source.FSSource{})
	p.SetWorkers(a.config.WorkerCount)
	return p.ParseSystemFile(ctx, inputPath)
}
