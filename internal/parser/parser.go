// Package parser loads block-diagram packages: it preloads every sibling
// system and chart file up front, decodes the requested file, and then links
// cross-file subsystem references against the preloaded cache.
package parser

import (
	"context"
	"path"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/slxkit/internal/ctxlog"
	"github.com/vk/slxkit/internal/decode"
	"github.com/vk/slxkit/internal/model"
	"github.com/vk/slxkit/internal/source"
)

// Parser parses system files from a ContentSource. It caches shallow systems
// and charts across calls, so parsing several files of the same package reads
// each sibling file only once. A Parser is not safe for concurrent use.
type Parser struct {
	rootDir string
	src     source.ContentSource
	workers int

	chartsByID     map[int]*model.Chart
	chartNameToID  map[string]int
	systemsShallow map[string]*model.System
}

// New creates a parser rooted at rootDir. The root directory is the fallback
// package root for files that do not live under a simulink/systems layout.
func New(rootDir string, src source.ContentSource) *Parser {
	return &Parser{
		rootDir:        rootDir,
		src:            src,
		workers:        runtime.GOMAXPROCS(0),
		chartsByID:     make(map[int]*model.Chart),
		chartNameToID:  make(map[string]int),
		systemsShallow: make(map[string]*model.System),
	}
}

// SetWorkers bounds the number of files decoded concurrently during
// preloading. Values below one reset the bound to the number of CPUs.
func (p *Parser) SetWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	p.workers = n
}

// ParseSystemFile parses the system file at filePath and resolves its
// subsystem references against the sibling files of the same package. The
// returned tree is fully linked: every reference whose target file exists
// carries the deep-cloned target as its subsystem.
func (p *Parser) ParseSystemFile(ctx context.Context, filePath string) (*model.System, error) {
	p.preloadCharts(ctx, filePath)
	p.preloadSystems(ctx, filePath)

	text, err := p.src.ReadToString(filePath)
	if err != nil {
		return nil, err
	}
	sys, err := decode.SystemText(ctx, text)
	if err != nil {
		return nil, err
	}

	baseDir := path.Dir(filePath)
	if baseDir == "." {
		baseDir = p.rootDir
	}
	p.linkSystemRefs(ctx, sys, baseDir)
	return sys, nil
}

// ParseChartFile parses one state-machine chart file.
func (p *Parser) ParseChartFile(filePath string) (*model.Chart, error) {
	text, err := p.src.ReadToString(filePath)
	if err != nil {
		return nil, err
	}
	return decode.ChartText(text, filePath)
}

// Charts returns all preloaded charts keyed by chart id.
func (p *Parser) Charts() map[int]*model.Chart {
	return p.chartsByID
}

// Chart returns the preloaded chart with the given id.
func (p *Parser) Chart(id int) (*model.Chart, bool) {
	c, ok := p.chartsByID[id]
	return c, ok
}

// ChartIDForName returns the id of the preloaded chart with the given name.
func (p *Parser) ChartIDForName(name string) (int, bool) {
	id, ok := p.chartNameToID[name]
	return id, ok
}

// simRoot walks the ancestors of a system file path looking for the
// conventional simulink/systems layout; the "simulink" directory is the
// package root. Files outside that layout fall back to the parser's root.
func (p *Parser) simRoot(filePath string) string {
	for dir := path.Dir(filePath); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if path.Base(dir) == "systems" {
			parent := path.Dir(dir)
			if path.Base(parent) == "simulink" {
				return parent
			}
		}
	}
	return p.rootDir
}

// preloadCharts reads every chart_*.xml under the package's stateflow
// directory and indexes the results by id and by name. First id wins on
// duplicates. A package without a stateflow directory is the common case
// and not an error.
func (p *Parser) preloadCharts(ctx context.Context, filePath string) {
	logger := ctxlog.FromContext(ctx)
	chartDir := path.Join(p.simRoot(filePath), "stateflow")
	paths, err := p.src.ListDir(chartDir)
	if err != nil {
		return
	}
	var chartPaths []string
	for _, pth := range paths {
		name := path.Base(pth)
		if strings.HasPrefix(name, "chart_") && strings.HasSuffix(name, ".xml") {
			chartPaths = append(chartPaths, pth)
		}
	}
	texts := p.readAll(ctx, chartPaths)

	charts := make([]*model.Chart, len(texts))
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, ft := range texts {
		i, ft := i, ft
		g.Go(func() error {
			chart, err := decode.ChartText(ft.text, ft.path)
			if err != nil {
				logger.Debug("Skipping unparsable chart file.", "path", ft.path, "error", err)
				return nil
			}
			charts[i] = chart
			return nil
		})
	}
	g.Wait()

	for _, chart := range charts {
		if chart == nil || chart.ID == nil {
			continue
		}
		if _, exists := p.chartsByID[*chart.ID]; exists {
			continue
		}
		p.chartsByID[*chart.ID] = chart
		if chart.Name != "" {
			if _, exists := p.chartNameToID[chart.Name]; !exists {
				p.chartNameToID[chart.Name] = *chart.ID
			}
		}
	}
}

// preloadSystems shallow-decodes every system_*.xml sibling of the requested
// file that is not already cached. Reads happen sequentially on the calling
// goroutine; decoding fans out across workers; merging back into the cache is
// sequential again, so the maps need no locking.
func (p *Parser) preloadSystems(ctx context.Context, filePath string) {
	logger := ctxlog.FromContext(ctx)
	systemsDir := path.Join(p.simRoot(filePath), "systems")
	paths, err := p.src.ListDir(systemsDir)
	if err != nil {
		return
	}
	var toRead []string
	for _, pth := range paths {
		name := path.Base(pth)
		if !strings.HasPrefix(name, "system_") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		if _, cached := p.systemsShallow[pth]; !cached {
			toRead = append(toRead, pth)
		}
	}
	if len(toRead) == 0 {
		return
	}
	texts := p.readAll(ctx, toRead)

	systems := make([]*model.System, len(texts))
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, ft := range texts {
		i, ft := i, ft
		g.Go(func() error {
			sys, err := decode.SystemText(ctx, ft.text)
			if err != nil {
				logger.Debug("Skipping unparsable system file.", "path", ft.path, "error", err)
				return nil
			}
			systems[i] = sys
			return nil
		})
	}
	g.Wait()

	for i, sys := range systems {
		if sys != nil {
			p.systemsShallow[texts[i].path] = sys
		}
	}
}

type fileText struct {
	path string
	text string
}

func (p *Parser) readAll(ctx context.Context, paths []string) []fileText {
	logger := ctxlog.FromContext(ctx)
	out := make([]fileText, 0, len(paths))
	for _, pth := range paths {
		text, err := p.src.ReadToString(pth)
		if err != nil {
			logger.Debug("Skipping unreadable file.", "path", pth, "error", err)
			continue
		}
		out = append(out, fileText{path: pth, text: text})
	}
	return out
}

// linkSystemRefs attaches preloaded systems to every block carrying a system
// reference. The cached system is deep-cloned before linking so shared cache
// entries never alias into two trees, then linked recursively relative to its
// own directory. Blocks with inline subsystems recurse with the current base.
// A reference whose target file was not preloaded is non-fatal: the block
// keeps no subsystem and the miss is reported through the context logger.
func (p *Parser) linkSystemRefs(ctx context.Context, sys *model.System, baseDir string) {
	for _, blk := range sys.Blocks {
		if blk.SystemRef != "" && blk.Subsystem == nil {
			refPath := decode.ResolveSystemReference(blk.SystemRef, baseDir)
			if cached, ok := p.systemsShallow[refPath]; ok {
				sub := cached.Clone()
				p.linkSystemRefs(ctx, sub, path.Dir(refPath))
				blk.Subsystem = sub
			} else {
				ctxlog.FromContext(ctx).Warn("Referenced system file not found.",
					"block", blk.Name, "ref", blk.SystemRef, "path", refPath)
			}
		} else if blk.Subsystem != nil {
			p.linkSystemRefs(ctx, blk.Subsystem, baseDir)
		}
	}
}
