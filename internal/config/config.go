// Package config decodes the optional HCL configuration file. Everything in
// it can also be given as a command-line flag; flags win over the file.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/slxkit/internal/ctxlog"
)

// Log configures the logger.
type Log struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// File is the root schema of a configuration file.
type File struct {
	RootDir      string   `hcl:"root_dir,optional"`
	LibraryPaths []string `hcl:"library_paths,optional"`
	Workers      int      `hcl:"workers,optional"`
	Log          *Log     `hcl:"log,block"`
}

// DecodeFile parses and decodes one HCL configuration file. Expressions in
// the file may reference environment variables through the `env` object,
// e.g. `library_paths = ["${env.HOME}/libraries"]`.
func DecodeFile(ctx context.Context, filePath string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding configuration file.", "path", filePath)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filePath, diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, envEvalContext(), &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filePath, diags.Error())
	}

	logger.Debug("Successfully decoded configuration file.", "path", filePath)
	return &cfg, nil
}

// envEvalContext exposes the process environment as the `env` object.
func envEvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			vars[key] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
