package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/slxkit/internal/source"
)

const testInterfaceJSON = `{
  "GraphicalInterface": {
    "ExternalFileReferences": [
      {"Path": "root/Controller", "Reference": "Regler/PID", "SID": "7", "Type": "LIBRARY_BLOCK"},
      {"Path": "root/Other", "Reference": "Regler/Filter", "SID": "8", "Type": "LIBRARY_BLOCK"},
      {"Path": "root/Scope", "Reference": "CommonLib/Scope", "SID": "9", "Type": "LIBRARY_BLOCK"},
      {"Path": "root/Model", "Reference": "SomeModel", "SID": "10", "Type": "MODEL_BLOCK"}
    ],
    "SolverName": "FixedStepDiscrete"
  }
}`

func TestParseGraphicalInterfaceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphicalInterface.json")
	require.NoError(t, os.WriteFile(path, []byte(testInterfaceJSON), 0o644))

	p := New("", source.FSSource{})
	gi, err := p.ParseGraphicalInterfaceFile(path)
	require.NoError(t, err)

	require.Len(t, gi.ExternalFileReferences, 4)
	assert.Equal(t, "FixedStepDiscrete", gi.SolverName)
	assert.Equal(t, "Regler/PID", gi.ExternalFileReferences[0].Reference)

	// Unique library names in first-seen order; non-library entries ignored.
	assert.Equal(t, []string{"Regler", "CommonLib"}, gi.LibraryNames())

	names, err := p.LibraryNamesFromInterfaceFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Regler", "CommonLib"}, names)
}

func TestParseGraphicalInterfaceFileMissingWrapper(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphicalInterface.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Something": {}}`), 0o644))

	p := New("", source.FSSource{})
	_, err := p.ParseGraphicalInterfaceFile(path)
	assert.ErrorContains(t, err, "missing top-level GraphicalInterface")
}
