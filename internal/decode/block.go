package decode

import (
	"context"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/vk/slxkit/internal/ctxlog"
	"github.com/vk/slxkit/internal/model"
)

// matlabFunctionMarker is the SFBlockType value that marks a block as a
// MATLAB Function block.
const matlabFunctionMarker = "MATLAB Function"

// Block decodes one <Block> or <Reference> element without cross-file
// recursion. Every <P> value lands in the ordered property map; a selection
// of well-known names is additionally extracted into typed fields. The order
// of all child elements is recorded in ChildOrder for exact regeneration.
func Block(ctx context.Context, el *etree.Element) *model.Block {
	logger := ctxlog.FromContext(ctx)

	blk := &model.Block{
		TagName:       el.Tag,
		Type:          el.SelectAttrValue("BlockType", ""),
		Name:          el.SelectAttrValue("Name", ""),
		SID:           el.SelectAttrValue("SID", ""),
		Properties:    model.NewProperties(),
		RefProperties: make(map[string]bool),
	}
	if blk.Type == "" && blk.TagName == "Reference" {
		blk.Type = "Reference"
	}
	for _, attr := range el.Attr {
		switch attr.Key {
		case "BlockType", "Name", "SID":
		default:
			logger.Warn("Unknown attribute on block element.", "attr", attr.Key, "block", blk.Name)
		}
	}

	var cfunc model.CFunctionCode
	hasValueProp := false

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "P":
			name := child.SelectAttrValue("Name", "")
			if name == "" {
				continue
			}
			value := child.Text()
			if ref := child.SelectAttr("Ref"); ref != nil {
				value = ref.Value
				blk.RefProperties[name] = true
			}
			blk.Properties.Set(name, value)
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotProperty, Name: name})
			decodeBlockProperty(blk, &cfunc, name, value, &hasValueProp)
		case "PortCounts":
			blk.PortCounts = decodePortCounts(child)
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotPortCounts})
		case "PortProperties":
			blk.Ports = decodePortProperties(child)
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotPortProperties})
		case "LinkData":
			blk.LinkData = decodeLinkData(child)
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotLinkData})
		case "InstanceData":
			blk.InstanceData = decodeInstanceData(child)
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotInstanceData})
		case "Mask":
			blk.Mask = Mask(child)
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotMask})
		case "System":
			if ref := child.SelectAttrValue("Ref", ""); ref != "" {
				blk.SystemRef = ref
			} else {
				blk.Subsystem = System(ctx, child)
			}
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotSystem})
		case "Annotation":
			idx := len(blk.Annotations)
			blk.Annotations = append(blk.Annotations, Annotation(child))
			blk.ChildOrder = append(blk.ChildOrder, model.ChildSlot{Kind: model.SlotAnnotation, Index: idx})
		default:
			logger.Warn("Unknown element in block.", "tag", child.Tag, "block", blk.Name)
		}
	}

	if hasValueProp {
		blk.ValueKind, blk.ValueRows, blk.ValueCols = ClassifyValue(blk.Value)
	}

	// The authoring tool omits <P Name="Value"> for Constant blocks at the
	// default literal. The typed field gets the default; the property map
	// stays untouched so regeneration does not invent the element.
	if blk.Type == "Constant" && !hasValueProp {
		blk.Value = "1"
	}

	if blk.Type == "CFunction" {
		cf := cfunc
		blk.CFunction = &cf
	}

	// Mirror the literal's shape onto the out ports so shape-aware consumers
	// need not re-parse it. Derived fields only; never serialized.
	if hasValueProp {
		for _, p := range blk.Ports {
			if p.Type == "out" {
				p.ValueKind = blk.ValueKind
				p.ValueRows = blk.ValueRows
				p.ValueCols = blk.ValueCols
			}
		}
	}

	return blk
}

// decodeBlockProperty extracts the typed convenience fields from a single
// property. The property map itself is always the source of truth.
func decodeBlockProperty(blk *model.Block, cfunc *model.CFunctionCode, name, value string, hasValueProp *bool) {
	switch name {
	case "Position":
		blk.Position = value
	case "ZOrder":
		blk.ZOrder = value
	case "Commented":
		blk.Commented = strings.EqualFold(value, "on")
	case "SFBlockType":
		if value == matlabFunctionMarker {
			blk.IsMATLABFunction = true
		}
	case "BackgroundColor":
		blk.BackgroundColor = value
	case "ShowName":
		show := !strings.EqualFold(value, "off")
		blk.ShowName = &show
	case "BlockMirror":
		on := strings.EqualFold(value, "on") || value == "1" || strings.EqualFold(value, "true")
		blk.BlockMirror = &on
	case "FontSize":
		if n, err := strconv.Atoi(value); err == nil {
			blk.FontSize = n
		}
	case "FontWeight":
		blk.FontWeight = value
	case "NameLocation":
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "top":
			blk.NameLocation = model.NameTop
		case "left":
			blk.NameLocation = model.NameLeft
		case "right":
			blk.NameLocation = model.NameRight
		default:
			blk.NameLocation = model.NameBottom
		}
	case "Value":
		blk.Value = value
		*hasValueProp = true
	case "CurrentSetting":
		blk.CurrentSetting = value
	case "OutputCode":
		cfunc.OutputCode = value
	case "StartCode":
		cfunc.StartCode = value
	case "TerminateCode":
		cfunc.TerminateCode = value
	case "CodegenOutputCode":
		cfunc.CodegenOutputCode = value
	case "CodegenStartCode":
		cfunc.CodegenStartCode = value
	case "CodegenTerminateCode":
		cfunc.CodegenTerminateCode = value
	}
}

func decodePortCounts(el *etree.Element) *model.PortCounts {
	pc := &model.PortCounts{}
	if v := el.SelectAttrValue("in", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pc.In = &n
		}
	}
	if v := el.SelectAttrValue("out", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pc.Out = &n
		}
	}
	return pc
}

func decodePortProperties(el *etree.Element) []*model.Port {
	var ports []*model.Port
	for _, pnode := range el.ChildElements() {
		if pnode.Tag != "Port" {
			continue
		}
		port := &model.Port{
			Type:       pnode.SelectAttrValue("Type", ""),
			Properties: model.NewProperties(),
		}
		if v := pnode.SelectAttrValue("Index", ""); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				port.Index = &n
			}
		}
		for _, pp := range pnode.ChildElements() {
			if pp.Tag == "P" {
				if name := pp.SelectAttrValue("Name", ""); name != "" {
					port.Properties.Set(name, pp.Text())
				}
			}
		}
		ports = append(ports, port)
	}
	return ports
}

func decodeLinkData(el *etree.Element) *model.LinkData {
	ld := &model.LinkData{}
	for _, dp := range el.ChildElements() {
		if dp.Tag != "DialogParameters" {
			continue
		}
		entry := &model.DialogParameters{
			BlockName:  dp.SelectAttrValue("BlockName", ""),
			Properties: model.NewProperties(),
		}
		for _, p := range dp.ChildElements() {
			if p.Tag == "P" {
				if name := p.SelectAttrValue("Name", ""); name != "" {
					entry.Properties.Set(name, p.Text())
				}
			}
		}
		ld.DialogParameters = append(ld.DialogParameters, entry)
	}
	return ld
}

func decodeInstanceData(el *etree.Element) *model.InstanceData {
	id := &model.InstanceData{Properties: model.NewProperties()}
	for _, p := range el.ChildElements() {
		if p.Tag == "P" {
			if name := p.SelectAttrValue("Name", ""); name != "" {
				id.Properties.Set(name, p.Text())
			}
		}
	}
	return id
}
