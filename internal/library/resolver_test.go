package library

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/slxkit/internal/decode"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestLocate(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	touch(t, filepath.Join(dirA, "Regler.slx"))
	touch(t, filepath.Join(dirB, "Regler.slx"))
	touch(t, filepath.Join(dirB, "OtherLib.slx"))

	r := NewResolver([]string{dirA, dirB})
	lookup := r.Locate([]string{"Regler", "OtherLib", "MissingLib", "Regler", " ", ""})

	require.Len(t, lookup.Found, 2)
	// First directory wins, duplicates and blanks are dropped.
	assert.Equal(t, "Regler", lookup.Found[0].Name)
	assert.Equal(t, filepath.Join(dirA, "Regler.slx"), lookup.Found[0].Path)
	assert.Equal(t, "OtherLib", lookup.Found[1].Name)
	assert.Equal(t, filepath.Join(dirB, "OtherLib.slx"), lookup.Found[1].Path)
	assert.Equal(t, []string{"MissingLib"}, lookup.NotFound)
}

func TestLocateNoSearchDirs(t *testing.T) {
	r := NewResolver(nil)
	lookup := r.Locate([]string{"Anything"})
	assert.Empty(t, lookup.Found)
	assert.Equal(t, []string{"Anything"}, lookup.NotFound)
}

const libraryRootXML = `<?xml version="1.0" encoding="utf-8"?>
<System>
  <Block BlockType="SubSystem" Name="PID" SID="1">
    <System>
      <Block BlockType="Gain" Name="P" SID="2">
        <P Name="Gain">5</P>
      </Block>
    </System>
  </Block>
</System>
`

func writeLibraryFile(t *testing.T, dir, name string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("simulink/systems/system_root.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(libraryRootXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".slx"), buf.Bytes(), 0o644))
}

func TestResolveReferences(t *testing.T) {
	libDir := t.TempDir()
	writeLibraryFile(t, libDir, "Regler")

	const mainXML = `<System>
  <Reference Name="Controller" SID="7">
    <P Name="SourceBlock">Regler/PID</P>
  </Reference>
  <Reference Name="Unknown" SID="8">
    <P Name="SourceBlock">MissingLib/Anything</P>
  </Reference>
  <Block BlockType="Gain" Name="Plain" SID="9">
    <P Name="Gain">1</P>
  </Block>
</System>`
	ctx := context.Background()
	sys, err := decode.SystemText(ctx, mainXML)
	require.NoError(t, err)

	r := NewResolver([]string{libDir})
	require.NoError(t, r.ResolveReferences(ctx, sys))

	controller := sys.Blocks[0]
	require.NotNil(t, controller.Subsystem)
	assert.Equal(t, "P", controller.Subsystem.Blocks[0].Name)
	assert.Equal(t, "Regler", controller.LibrarySource)
	assert.Equal(t, "Regler/PID", controller.LibraryBlockPath)

	// A missing library is skipped, not fatal.
	unknown := sys.Blocks[1]
	assert.Nil(t, unknown.Subsystem)
	assert.Empty(t, unknown.LibrarySource)

	assert.Empty(t, sys.Blocks[2].LibrarySource)
}

func TestResolveReferencesSplicesDeepCopies(t *testing.T) {
	libDir := t.TempDir()
	writeLibraryFile(t, libDir, "Regler")

	const mainXML = `<System>
  <Reference Name="A" SID="1">
    <P Name="SourceBlock">Regler/PID</P>
  </Reference>
  <Reference Name="B" SID="2">
    <P Name="SourceBlock">Regler/PID</P>
  </Reference>
</System>`
	ctx := context.Background()
	sys, err := decode.SystemText(ctx, mainXML)
	require.NoError(t, err)

	r := NewResolver([]string{libDir})
	require.NoError(t, r.ResolveReferences(ctx, sys))

	a, b := sys.Blocks[0], sys.Blocks[1]
	require.NotNil(t, a.Subsystem)
	require.NotNil(t, b.Subsystem)

	a.Subsystem.Blocks[0].Properties.Set("Gain", "99")
	assert.Equal(t, "5", b.Subsystem.Blocks[0].Properties.GetDefault("Gain"))
}

func TestResolveReferencesMissingBlockInLibrary(t *testing.T) {
	libDir := t.TempDir()
	writeLibraryFile(t, libDir, "Regler")

	const mainXML = `<System>
  <Reference Name="C" SID="1">
    <P Name="SourceBlock">Regler/DoesNotExist</P>
  </Reference>
</System>`
	ctx := context.Background()
	sys, err := decode.SystemText(ctx, mainXML)
	require.NoError(t, err)

	r := NewResolver([]string{libDir})
	require.NoError(t, r.ResolveReferences(ctx, sys))
	assert.Nil(t, sys.Blocks[0].Subsystem)
}
