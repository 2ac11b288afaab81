package codec

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/slxkit/internal/decode"
	"github.com/vk/slxkit/internal/model"
)

const testSystemXML = `<System>
  <P Name="Open">on</P>
  <Block BlockType="Constant" Name="K" SID="3">
    <PortCounts out="1"/>
    <P Name="Position">[0, 0, 30, 30]</P>
    <P Name="Value">[1, 2, 3]</P>
    <PortProperties>
      <Port Type="out" Index="1">
        <P Name="Name">k_sig</P>
      </Port>
    </PortProperties>
  </Block>
  <Block BlockType="SubSystem" Name="Outer" SID="5">
    <System Ref="system_18"/>
  </Block>
  <Line>
    <P Name="Src">3#out:1</P>
    <P Name="Dst">5#in:1</P>
  </Line>
</System>`

func parseTestSystem(t *testing.T) *model.System {
	t.Helper()
	sys, err := decode.SystemText(context.Background(), testSystemXML)
	require.NoError(t, err)
	return sys
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := &Document{System: parseTestSystem(t)}

	data, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, magic, string(data[:len(magic)]))

	restored, err := Decode(data)
	require.NoError(t, err)

	if diff := cmp.Diff(doc.System, restored.System); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Spot checks on fields that exercise the custom codecs.
	k := restored.System.Blocks[0]
	assert.Equal(t, []string{"Position", "Value"}, k.Properties.Keys())
	assert.Equal(t, model.ValueVector, k.ValueKind)
	assert.Equal(t, model.SlotPortCounts, k.ChildOrder[0].Kind)
	assert.Equal(t, "system_18", restored.System.Blocks[1].SystemRef)
	require.NotNil(t, restored.System.Lines[0].Src)
	assert.Equal(t, "3", restored.System.Lines[0].Src.SID)
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode([]byte("WRONGMAGIC\x01\x00\x00\x00"))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Decode([]byte("short"))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	doc := &Document{System: &model.System{Properties: model.NewProperties()}}
	data, err := Encode(doc)
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(data[len(magic):], Version+1)
	_, err = Decode(data)
	assert.ErrorContains(t, err, "unsupported cache version")
}

func TestSaveLoadFile(t *testing.T) {
	doc := &Document{System: parseTestSystem(t)}
	path := filepath.Join(t.TempDir(), "model.bin")

	require.NoError(t, SaveFile(doc, path))
	restored, err := LoadFile(path)
	require.NoError(t, err)

	if diff := cmp.Diff(doc.System, restored.System); diff != "" {
		t.Errorf("file round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}
