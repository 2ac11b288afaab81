package model

// ValueKind classifies the shape of a block's literal value text.
type ValueKind uint8

const (
	ValueUnknown ValueKind = iota
	ValueScalar
	ValueVector
	ValueMatrix
)

// String returns the display name of the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueScalar:
		return "Scalar"
	case ValueVector:
		return "Vector"
	case ValueMatrix:
		return "Matrix"
	default:
		return "Unknown"
	}
}

// NameLocation is the placement of a block's name label. The zero value is
// NameBottom, the format's default when the property is absent.
type NameLocation uint8

const (
	NameBottom NameLocation = iota
	NameTop
	NameLeft
	NameRight
)

// String returns the location name as it appears in the source format.
func (l NameLocation) String() string {
	switch l {
	case NameTop:
		return "top"
	case NameLeft:
		return "left"
	case NameRight:
		return "right"
	default:
		return "bottom"
	}
}

// ChildSlotKind tags one kind of child element inside a block.
type ChildSlotKind uint8

const (
	SlotPortCounts ChildSlotKind = iota
	SlotProperty
	SlotInstanceData
	SlotLinkData
	SlotPortProperties
	SlotMask
	SlotSystem
	SlotAnnotation
)

// ChildSlot records one child element of a block in document order. Name is
// set for SlotProperty entries, Index for SlotAnnotation entries. The
// generator replays the recorded slots verbatim; re-deriving the order from
// the typed fields would lose the authoring tool's emission history.
type ChildSlot struct {
	Kind  ChildSlotKind
	Name  string
	Index int
}

// System is one diagram page: blocks, signal lines, and annotations, plus the
// page's own ordered properties and an optional attached state-machine chart.
type System struct {
	Properties  *Properties
	Blocks      []*Block
	Lines       []*Line
	Annotations []*Annotation
	Chart       *Chart
}

// Block is a diagram node: either a plain typed block (tag "Block") or a
// pointer to a library definition (tag "Reference").
//
// Properties holds every <P> value in insertion order and is the source of
// truth for regeneration; the typed fields are conveniences derived during
// decoding. RefProperties marks the property names whose XML value lives in a
// Ref attribute rather than text content.
type Block struct {
	// TagName is the XML element tag, "Block" or "Reference".
	TagName string
	// Type is the BlockType attribute (or "Reference" for Reference tags).
	Type string
	Name string
	// SID is the per-scope block identifier. Not guaranteed numeric; values
	// such as "2::28" occur. Empty means the attribute was absent.
	SID string

	Position         string
	ZOrder           string
	Commented        bool
	NameLocation     NameLocation
	IsMATLABFunction bool
	BackgroundColor  string
	ShowName         *bool
	FontSize         int
	FontWeight       string
	BlockMirror      *bool
	CurrentSetting   string

	// Value is the literal value text (e.g. of a Constant block), with the
	// format's implicit default substituted when the property is omitted.
	Value     string
	ValueKind ValueKind
	ValueRows int
	ValueCols int

	Properties    *Properties
	RefProperties map[string]bool

	PortCounts *PortCounts
	Ports      []*Port

	// Subsystem is the owned nested system, populated either from an inline
	// <System> child or by the linking pass.
	Subsystem *System
	// SystemRef is the raw reference name from a <System Ref="…"/> child
	// (e.g. "system_18"). It is kept after linking so that regeneration
	// emits the reference form again.
	SystemRef string

	CFunction    *CFunctionCode
	InstanceData *InstanceData
	LinkData     *LinkData
	Mask         *Mask
	Annotations  []*Annotation

	// LibrarySource and LibraryBlockPath record provenance after library
	// resolution has spliced an external block's contents into Subsystem.
	LibrarySource    string
	LibraryBlockPath string

	// ChildOrder records the original order of child elements. Empty for
	// blocks built programmatically; the generator then falls back to a
	// fixed default order.
	ChildOrder []ChildSlot
}

// EffectiveType returns the block type label for display purposes. MATLAB
// Function blocks keep their on-disk type in Type so regeneration is exact;
// this accessor reports the flipped label instead.
func (b *Block) EffectiveType() string {
	if b.IsMATLABFunction {
		return "MATLAB Function"
	}
	return b.Type
}

// PortCounts mirrors the <PortCounts in="…" out="…"/> element. Either
// attribute may be absent.
type PortCounts struct {
	In  *int
	Out *int
}

// Port is one entry of a <PortProperties> element.
type Port struct {
	Type       string
	Index      *int
	Properties *Properties

	// Derived value-shape data mirrored from the owning block's literal, so
	// shape-aware consumers need not re-parse it. Never serialized.
	ValueKind ValueKind
	ValueRows int
	ValueCols int
}

// EndpointRef identifies one end of a line: block SID, port direction
// ("in"/"out"), and 1-based port index. Endpoints are only meaningful
// relative to blocks within the same system level.
type EndpointRef struct {
	SID       string
	PortType  string
	PortIndex int
}

// Point is one relative routing point of a line.
type Point struct {
	X int
	Y int
}

// Line is a signal connection. Properties retains the raw <P> entries in
// order; the typed fields are decode-time conveniences.
type Line struct {
	Name       string
	ZOrder     string
	Src        *EndpointRef
	Dst        *EndpointRef
	Points     []Point
	Labels     string
	Branches   []*Branch
	Properties *Properties
}

// Branch is a fan-out of a line. Unlike Line it has no source endpoint.
type Branch struct {
	Name       string
	ZOrder     string
	Dst        *EndpointRef
	Points     []Point
	Labels     string
	Branches   []*Branch
	Properties *Properties
}

// Annotation is a free-floating text or HTML note.
type Annotation struct {
	SID         string
	Text        string
	Position    string
	ZOrder      string
	Interpreter string
	Properties  *Properties
}

// Attr is one raw XML attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Mask is a custom parameter dialog attached to a block.
type Mask struct {
	Display        string
	DisplayAttrs   []Attr
	Description    string
	Initialization string
	Help           string
	Parameters     []*MaskParameter
	Dialog         []*DialogControl
}

// MaskParameter is one parameter of a mask dialog. AllAttrs captures every
// XML attribute in document order; the generator prefers it over the typed
// fields so attributes the model does not name are not dropped or reordered.
type MaskParameter struct {
	Name        string
	Type        string
	Prompt      string
	Value       string
	Callback    string
	Tunable     *bool
	Visible     *bool
	TypeOptions []string
	AllAttrs    []Attr
}

// DialogControl is one control of a mask dialog layout, possibly nested.
type DialogControl struct {
	Type           string
	Name           string
	Prompt         string
	ControlOptions *ControlOptions
	Children       []*DialogControl
}

// ControlOptions carries optional attributes of a <ControlOptions/> element.
type ControlOptions struct {
	PromptLocation string
}

// LinkData preserves pass-through dialog parameters of reference blocks.
type LinkData struct {
	DialogParameters []*DialogParameters
}

// DialogParameters is a <DialogParameters BlockName="…"> group.
type DialogParameters struct {
	BlockName  string
	Properties *Properties
}

// InstanceData is the per-instance property bag of a block.
type InstanceData struct {
	Properties *Properties
}

// CFunctionCode bundles the native-code snippets of a CFunction block.
type CFunctionCode struct {
	OutputCode           string
	StartCode            string
	TerminateCode        string
	CodegenOutputCode    string
	CodegenStartCode     string
	CodegenTerminateCode string
}

// Chart is the typed summary of a state-machine chart file: its script and
// input/output ports.
type Chart struct {
	ID         *int
	Name       string
	EMLName    string
	Script     string
	Inputs     []ChartPort
	Outputs    []ChartPort
	Properties map[string]string
}

// ChartPort describes one data port of a chart.
type ChartPort struct {
	Name       string
	Size       string
	Method     string
	Primitive  string
	IsSigned   *bool
	WordLength int
	Complexity string
	Frame      string
	DataType   string
	Unit       string
}
