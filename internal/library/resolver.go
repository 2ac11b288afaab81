// Package library locates shared block libraries on disk and splices their
// block definitions into parsed systems.
package library

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/slxkit/internal/ctxlog"
	"github.com/vk/slxkit/internal/model"
	"github.com/vk/slxkit/internal/parser"
	"github.com/vk/slxkit/internal/source"
)

// Location is one resolved library: its name and the file that provides it.
type Location struct {
	Name string
	Path string
}

// Lookup partitions a set of requested library names into those found on the
// search path and those missing. Found preserves request order.
type Lookup struct {
	Found    []Location
	NotFound []string
}

// Resolver finds "<name>.slx" files in an ordered list of directories. The
// first directory containing the file wins.
type Resolver struct {
	searchDirs []string
}

// NewResolver creates a resolver over the given search directories. Order is
// significant.
func NewResolver(dirs []string) *Resolver {
	return &Resolver{searchDirs: append([]string(nil), dirs...)}
}

// Locate looks up each named library. Names are trimmed, and duplicates after
// the first occurrence are dropped.
func (r *Resolver) Locate(names []string) Lookup {
	var lookup Lookup
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		fileName := name + ".slx"
		found := false
		for _, dir := range r.searchDirs {
			candidate := filepath.Join(dir, fileName)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				lookup.Found = append(lookup.Found, Location{Name: name, Path: candidate})
				found = true
				break
			}
		}
		if !found {
			lookup.NotFound = append(lookup.NotFound, name)
		}
	}
	return lookup
}

// ResolveReferences walks the system tree and, for every block whose
// SourceBlock property names a library block ("<library>/<block path>"),
// loads the library, finds the named top-level block, and attaches a deep
// copy of its subsystem. Each library file is parsed at most once per call.
// Missing libraries or blocks are logged and skipped; they never fail the
// whole resolution.
func (r *Resolver) ResolveReferences(ctx context.Context, sys *model.System) error {
	cache := make(map[string]*model.System)
	return r.resolveRecursive(ctx, sys, cache)
}

func (r *Resolver) resolveRecursive(ctx context.Context, sys *model.System, cache map[string]*model.System) error {
	logger := ctxlog.FromContext(ctx)
	for _, blk := range sys.Blocks {
		if sourceBlock, ok := blk.Properties.Get("SourceBlock"); ok {
			libName, blockPath, found := strings.Cut(sourceBlock, "/")
			if found {
				libName = strings.TrimSpace(libName)
				blockPath = strings.TrimSpace(blockPath)
				libSystem, ok := cache[libName]
				if !ok {
					libSystem = r.loadLibrary(ctx, libName)
					cache[libName] = libSystem
				}
				if libSystem != nil {
					if libBlock := findBlockByName(libSystem, blockPath); libBlock != nil {
						if libBlock.Subsystem != nil {
							blk.Subsystem = libBlock.Subsystem.Clone()
						}
						blk.LibrarySource = libName
						blk.LibraryBlockPath = sourceBlock
					} else {
						logger.Warn("Block not found in library.", "block", blockPath, "library", libName)
					}
				}
			}
		}
		if blk.Subsystem != nil {
			if err := r.resolveRecursive(ctx, blk.Subsystem, cache); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadLibrary locates and parses one library file, returning its fully
// linked root system, or nil when the library cannot be loaded. A nil result
// is cached so a missing library is reported once per resolution.
func (r *Resolver) loadLibrary(ctx context.Context, name string) *model.System {
	logger := ctxlog.FromContext(ctx)
	lookup := r.Locate([]string{name})
	if len(lookup.Found) == 0 {
		logger.Warn("Library not found in search paths.", "library", name)
		return nil
	}
	sys, err := parseLibraryFile(ctx, lookup.Found[0].Path)
	if err != nil {
		logger.Warn("Failed to parse library.", "library", name, "error", err)
		return nil
	}
	return sys
}

func parseLibraryFile(ctx context.Context, path string) (*model.System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat library %s: %w", path, err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open library archive %s: %w", path, err)
	}
	p := parser.New("", source.NewZipSource(zr))
	return p.ParseSystemFile(ctx, model.RootSystemPath)
}

func findBlockByName(sys *model.System, name string) *model.Block {
	for _, blk := range sys.Blocks {
		if blk.Name == name {
			return blk
		}
	}
	return nil
}
