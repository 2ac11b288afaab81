package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/slxkit/internal/decode"
	"github.com/vk/slxkit/internal/model"
)

// roundTripXML exercises every construct the generator knows how to emit.
// Decoding it and regenerating must reproduce it byte for byte.
const roundTripXML = `<?xml version="1.0" encoding="utf-8"?>
<System>
  <P Name="Location">[0, 0, 1920, 1036]</P>
  <P Name="Open">on</P>
  <P Name="EmptyProp"/>
  <Block BlockType="Inport" Name="u" SID="2::28">
    <P Name="Position">[20, 101, 40, 119]</P>
    <P Name="ZOrder">1</P>
  </Block>
  <Block BlockType="Product" Name="A &amp; B&#xA;second" SID="52">
    <PortCounts in="2" out="1"/>
    <P Name="Position">[235, 92, 265, 123]</P>
    <P Name="Expr">1 &lt; 2 &gt; 0 &quot;q&quot; &apos;s&apos;</P>
    <P Name="SourceType" Ref="shared"/>
    <InstanceData>
      <P Name="Variant">base</P>
    </InstanceData>
    <LinkData>
      <DialogParameters BlockName="Gain1">
        <P Name="Gain">2</P>
      </DialogParameters>
    </LinkData>
    <PortProperties>
      <Port Type="out" Index="1">
        <P Name="Name">signal</P>
      </Port>
    </PortProperties>
    <Mask>
      <Display RunInitForIconRedraw="off">disp(&apos;G&apos;)</Display>
      <Description>A masked block.</Description>
      <Initialization>k = 2;</Initialization>
      <MaskParameter Name="gain" Type="edit" Tunable="on">
        <Prompt>Gain value</Prompt>
        <Value>2</Value>
      </MaskParameter>
      <MaskParameter Name="mode" Type="popup">
        <Prompt>Mode</Prompt>
        <Value>fast</Value>
        <TypeOptions>
          <Option>fast</Option>
          <Option>slow</Option>
        </TypeOptions>
        <Callback>refresh()</Callback>
      </MaskParameter>
      <DialogControl Type="Group" Name="grp">
        <Prompt>Settings</Prompt>
        <ControlOptions PromptLocation="left"/>
        <DialogControl Type="Edit" Name="gain">
          <Prompt>Gain</Prompt>
        </DialogControl>
      </DialogControl>
    </Mask>
    <System Ref="system_18"/>
  </Block>
  <Block BlockType="SubSystem" Name="Inline" SID="60">
    <P Name="Position">[0, 0, 40, 40]</P>
    <System>
      <P Name="Open">off</P>
      <Block BlockType="Gain" Name="G1" SID="61">
        <P Name="Gain">3</P>
      </Block>
    </System>
    <Annotation SID="62">
      <P Name="Name">inner note</P>
    </Annotation>
  </Block>
  <Line>
    <P Name="ZOrder">5</P>
    <P Name="Src">2::28#out:1</P>
    <Branch>
      <P Name="ZOrder">6</P>
      <P Name="Dst">52#in:1</P>
      <Branch>
        <P Name="Dst">60#in:1</P>
      </Branch>
    </Branch>
  </Line>
  <Annotation SID="90">
    <P Name="Name">notes here</P>
    <P Name="Position">[100, 200]</P>
  </Annotation>
</System>
`

func TestRoundTripByteIdentity(t *testing.T) {
	ctx := context.Background()
	sys, err := decode.SystemText(ctx, roundTripXML)
	require.NoError(t, err)

	out := SystemXML(sys)
	require.Equal(t, roundTripXML, out)

	// A second pass through decode/generate must be stable.
	sys2, err := decode.SystemText(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, out, SystemXML(sys2))
}

func TestReferenceRoundTrip(t *testing.T) {
	in := `<?xml version="1.0" encoding="utf-8"?>
<System>
  <Reference Name="Controller" SID="7">
    <P Name="Position">[0, 0, 30, 30]</P>
    <P Name="SourceBlock">Regler/PID</P>
  </Reference>
</System>
`
	sys, err := decode.SystemText(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, SystemXML(sys))
}

func TestReferenceFormWinsOverLinkedSubsystem(t *testing.T) {
	in := `<?xml version="1.0" encoding="utf-8"?>
<System>
  <Block BlockType="SubSystem" Name="Outer" SID="5">
    <System Ref="system_18"/>
  </Block>
</System>
`
	sys, err := decode.SystemText(context.Background(), in)
	require.NoError(t, err)

	// Simulate the linking pass attaching the referenced content.
	sys.Blocks[0].Subsystem = &model.System{Properties: model.NewProperties()}
	assert.Equal(t, in, SystemXML(sys))
}

func TestDefaultOrderForProgrammaticBlocks(t *testing.T) {
	one := 1
	blk := &model.Block{
		TagName:       "Block",
		Type:          "Gain",
		Name:          "G1",
		SID:           "5",
		Properties:    model.NewProperties(),
		RefProperties: make(map[string]bool),
		PortCounts:    &model.PortCounts{In: &one, Out: &one},
	}
	blk.Properties.Set("Position", "[10, 20, 50, 60]")
	blk.Properties.Set("Gain", "2")

	sys := &model.System{Properties: model.NewProperties()}
	sys.Blocks = append(sys.Blocks, blk)

	out := SystemXML(sys)
	want := `<?xml version="1.0" encoding="utf-8"?>
<System>
  <Block BlockType="Gain" Name="G1" SID="5">
    <PortCounts in="1" out="1"/>
    <P Name="Position">[10, 20, 50, 60]</P>
    <P Name="Gain">2</P>
  </Block>
</System>
`
	assert.Equal(t, want, out)
}

func TestEscaping(t *testing.T) {
	sys := &model.System{Properties: model.NewProperties()}
	sys.Properties.Set("Note", `a & b < c > d "e" 'f'`)

	blk := &model.Block{
		TagName:       "Block",
		Type:          "Constant",
		Name:          "multi\nline",
		Properties:    model.NewProperties(),
		RefProperties: make(map[string]bool),
	}
	sys.Blocks = append(sys.Blocks, blk)

	out := SystemXML(sys)
	assert.Contains(t, out, `<P Name="Note">a &amp; b &lt; c &gt; d &quot;e&quot; &apos;f&apos;</P>`)
	assert.Contains(t, out, `Name="multi&#xA;line"`)
	assert.False(t, strings.Contains(out, "multi\nline"))
}
