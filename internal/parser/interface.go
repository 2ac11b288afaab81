package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LibraryBlockReference is the reference type marking an external file
// reference as a library block link.
const LibraryBlockReference = "LIBRARY_BLOCK"

// ExternalFileReference is one entry of the interface file's reference list.
// Reference has the form "<library>/<block path>".
type ExternalFileReference struct {
	Path      string `json:"Path"`
	Reference string `json:"Reference"`
	SID       string `json:"SID"`
	Type      string `json:"Type"`
}

// GraphicalInterface mirrors the "GraphicalInterface" object of the package's
// simulink/graphicalInterface.json file.
type GraphicalInterface struct {
	ExternalFileReferences     []ExternalFileReference `json:"ExternalFileReferences"`
	PreCompExecutionDomainType string                  `json:"PreCompExecutionDomainType,omitempty"`
	SimulinkSubDomainType      string                  `json:"SimulinkSubDomainType,omitempty"`
	SolverName                 string                  `json:"SolverName,omitempty"`
}

// LibraryNames returns the unique library names referenced by library-block
// entries, in first-seen order. The library name is the part of the reference
// before the first slash.
func (gi *GraphicalInterface) LibraryNames() []string {
	var out []string
	seen := make(map[string]bool)
	for _, ref := range gi.ExternalFileReferences {
		if ref.Type != LibraryBlockReference {
			continue
		}
		lib := ref.Reference
		if before, _, ok := strings.Cut(lib, "/"); ok {
			lib = before
		}
		lib = strings.TrimSpace(lib)
		if lib == "" || seen[lib] {
			continue
		}
		seen[lib] = true
		out = append(out, lib)
	}
	return out
}

// ParseGraphicalInterfaceFile parses the package's interface description. The
// document wraps the payload in a top-level "GraphicalInterface" object.
func (p *Parser) ParseGraphicalInterfaceFile(filePath string) (*GraphicalInterface, error) {
	text, err := p.src.ReadToString(filePath)
	if err != nil {
		return nil, err
	}
	var doc struct {
		GraphicalInterface *GraphicalInterface `json:"GraphicalInterface"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse JSON %s: %w", filePath, err)
	}
	if doc.GraphicalInterface == nil {
		return nil, fmt.Errorf("%s: missing top-level GraphicalInterface object", filePath)
	}
	return doc.GraphicalInterface, nil
}

// LibraryNamesFromInterfaceFile is a convenience that parses the interface
// file and returns its referenced library names.
func (p *Parser) LibraryNamesFromInterfaceFile(filePath string) ([]string, error) {
	gi, err := p.ParseGraphicalInterfaceFile(filePath)
	if err != nil {
		return nil, err
	}
	return gi.LibraryNames(), nil
}
