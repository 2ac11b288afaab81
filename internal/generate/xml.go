// Package generate regenerates system XML text from the typed model. For a
// model decoded from an unmodified file the output is byte-identical to the
// source, which means every formatting decision here (indentation, escaping,
// self-closing forms, child ordering) is part of the contract, not a style
// choice.
package generate

import (
	"fmt"
	"strings"

	"github.com/vk/slxkit/internal/model"
)

// SystemXML renders a complete system file: XML declaration plus the
// <System> tree with two-space indentation per depth.
func SystemXML(sys *model.System) string {
	var out strings.Builder
	out.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	writeSystem(&out, sys, 0)
	return out.String()
}

func indent(out *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		out.WriteString("  ")
	}
}

// escapeText escapes text content. The source tool encodes all five XML
// entities even in text content.
func escapeText(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, ch := range s {
		switch ch {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '"':
			out.WriteString("&quot;")
		case '\'':
			out.WriteString("&apos;")
		default:
			out.WriteRune(ch)
		}
	}
	return out.String()
}

// escapeAttr escapes attribute values. Like escapeText, but embedded line
// breaks must survive as numeric character references: a literal newline
// inside an attribute would be normalized away by any conforming reader.
func escapeAttr(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, ch := range s {
		switch ch {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '"':
			out.WriteString("&quot;")
		case '\'':
			out.WriteString("&apos;")
		case '\n':
			out.WriteString("&#xA;")
		case '\r':
			out.WriteString("&#xD;")
		default:
			out.WriteRune(ch)
		}
	}
	return out.String()
}

func writeSystem(out *strings.Builder, sys *model.System, level int) {
	indent(out, level)
	out.WriteString("<System>\n")
	for _, name := range sys.Properties.Keys() {
		writeP(out, level+1, name, sys.Properties.GetDefault(name), false)
	}
	for _, block := range sys.Blocks {
		writeBlock(out, block, level+1)
	}
	for _, line := range sys.Lines {
		writeLine(out, line, level+1)
	}
	for _, ann := range sys.Annotations {
		writeAnnotation(out, ann, level+1)
	}
	indent(out, level)
	out.WriteString("</System>\n")
}

func writeP(out *strings.Builder, level int, name, value string, isRef bool) {
	indent(out, level)
	switch {
	case isRef:
		fmt.Fprintf(out, "<P Name=\"%s\" Ref=\"%s\"/>\n", escapeAttr(name), escapeAttr(value))
	case value == "":
		// Empty text content uses the self-closing form.
		fmt.Fprintf(out, "<P Name=\"%s\"/>\n", escapeAttr(name))
	default:
		fmt.Fprintf(out, "<P Name=\"%s\">%s</P>\n", escapeAttr(name), escapeText(value))
	}
}

func writeBlock(out *strings.Builder, block *model.Block, level int) {
	indent(out, level)
	out.WriteString("<" + block.TagName)
	if block.TagName == "Block" {
		fmt.Fprintf(out, " BlockType=\"%s\"", escapeAttr(block.Type))
	}
	fmt.Fprintf(out, " Name=\"%s\"", escapeAttr(block.Name))
	if block.SID != "" {
		fmt.Fprintf(out, " SID=\"%s\"", escapeAttr(block.SID))
	}
	out.WriteString(">\n")

	if len(block.ChildOrder) == 0 {
		writeBlockDefaultOrder(out, block, level)
	} else {
		for _, slot := range block.ChildOrder {
			writeBlockSlot(out, block, slot, level)
		}
	}

	indent(out, level)
	out.WriteString("</" + block.TagName + ">\n")
}

// writeBlockSlot emits whichever real data the recorded slot points at. A
// slot whose data has since been removed from the model emits nothing.
func writeBlockSlot(out *strings.Builder, block *model.Block, slot model.ChildSlot, level int) {
	switch slot.Kind {
	case model.SlotPortCounts:
		if block.PortCounts != nil {
			writePortCounts(out, block.PortCounts, level+1)
		}
	case model.SlotProperty:
		if value, ok := block.Properties.Get(slot.Name); ok {
			writeP(out, level+1, slot.Name, value, block.RefProperties[slot.Name])
		}
	case model.SlotInstanceData:
		if block.InstanceData != nil {
			writeInstanceData(out, block.InstanceData, level+1)
		}
	case model.SlotLinkData:
		if block.LinkData != nil {
			writeLinkData(out, block.LinkData, level+1)
		}
	case model.SlotPortProperties:
		if len(block.Ports) > 0 {
			writePortProperties(out, block.Ports, level+1)
		}
	case model.SlotMask:
		if block.Mask != nil {
			writeMask(out, block.Mask, level+1)
		}
	case model.SlotSystem:
		writeBlockSystem(out, block, level)
	case model.SlotAnnotation:
		if slot.Index < len(block.Annotations) {
			writeAnnotation(out, block.Annotations[slot.Index], level+1)
		}
	}
}

// writeBlockDefaultOrder is the fallback for blocks built programmatically,
// which have no recorded child order to replay.
func writeBlockDefaultOrder(out *strings.Builder, block *model.Block, level int) {
	if block.PortCounts != nil {
		writePortCounts(out, block.PortCounts, level+1)
	}
	for _, name := range block.Properties.Keys() {
		writeP(out, level+1, name, block.Properties.GetDefault(name), block.RefProperties[name])
	}
	if block.LinkData != nil {
		writeLinkData(out, block.LinkData, level+1)
	}
	if block.InstanceData != nil {
		writeInstanceData(out, block.InstanceData, level+1)
	}
	if len(block.Ports) > 0 {
		writePortProperties(out, block.Ports, level+1)
	}
	if block.Mask != nil {
		writeMask(out, block.Mask, level+1)
	}
	writeBlockSystem(out, block, level)
	for _, ann := range block.Annotations {
		writeAnnotation(out, ann, level+1)
	}
}

// writeBlockSystem emits either the reference form or the inline subsystem.
// The reference form wins: linking keeps the reference name alongside the
// resolved subsystem precisely so regeneration restores the original file.
func writeBlockSystem(out *strings.Builder, block *model.Block, level int) {
	if block.SystemRef != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<System Ref=\"%s\"/>\n", escapeAttr(block.SystemRef))
	} else if block.Subsystem != nil {
		writeSystem(out, block.Subsystem, level+1)
	}
}

func writePortCounts(out *strings.Builder, pc *model.PortCounts, level int) {
	indent(out, level)
	out.WriteString("<PortCounts")
	if pc.In != nil {
		fmt.Fprintf(out, " in=\"%s\"", fmt.Sprint(*pc.In))
	}
	if pc.Out != nil {
		fmt.Fprintf(out, " out=\"%s\"", fmt.Sprint(*pc.Out))
	}
	out.WriteString("/>\n")
}

func writeInstanceData(out *strings.Builder, id *model.InstanceData, level int) {
	indent(out, level)
	out.WriteString("<InstanceData>\n")
	for _, name := range id.Properties.Keys() {
		writeP(out, level+1, name, id.Properties.GetDefault(name), false)
	}
	indent(out, level)
	out.WriteString("</InstanceData>\n")
}

func writeLinkData(out *strings.Builder, ld *model.LinkData, level int) {
	indent(out, level)
	out.WriteString("<LinkData>\n")
	for _, dp := range ld.DialogParameters {
		indent(out, level+1)
		fmt.Fprintf(out, "<DialogParameters BlockName=\"%s\">\n", escapeAttr(dp.BlockName))
		for _, name := range dp.Properties.Keys() {
			writeP(out, level+2, name, dp.Properties.GetDefault(name), false)
		}
		indent(out, level+1)
		out.WriteString("</DialogParameters>\n")
	}
	indent(out, level)
	out.WriteString("</LinkData>\n")
}

func writePortProperties(out *strings.Builder, ports []*model.Port, level int) {
	indent(out, level)
	out.WriteString("<PortProperties>\n")
	for _, port := range ports {
		indent(out, level+1)
		fmt.Fprintf(out, "<Port Type=\"%s\"", escapeText(port.Type))
		if port.Index != nil {
			fmt.Fprintf(out, " Index=\"%s\"", fmt.Sprint(*port.Index))
		}
		out.WriteString(">\n")
		for _, name := range port.Properties.Keys() {
			writeP(out, level+2, name, port.Properties.GetDefault(name), false)
		}
		indent(out, level+1)
		out.WriteString("</Port>\n")
	}
	indent(out, level)
	out.WriteString("</PortProperties>\n")
}

func writeMask(out *strings.Builder, mask *model.Mask, level int) {
	indent(out, level)
	out.WriteString("<Mask>\n")
	if mask.Display != "" {
		indent(out, level+1)
		out.WriteString("<Display")
		for _, attr := range mask.DisplayAttrs {
			fmt.Fprintf(out, " %s=\"%s\"", attr.Name, escapeAttr(attr.Value))
		}
		fmt.Fprintf(out, ">%s</Display>\n", escapeText(mask.Display))
	}
	if mask.Description != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<Description>%s</Description>\n", escapeText(mask.Description))
	}
	if mask.Initialization != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<Initialization>%s</Initialization>\n", escapeText(mask.Initialization))
	}
	if mask.Help != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<Help>%s</Help>\n", escapeText(mask.Help))
	}
	for _, param := range mask.Parameters {
		writeMaskParameter(out, param, level+1)
	}
	for _, dc := range mask.Dialog {
		writeDialogControl(out, dc, level+1)
	}
	indent(out, level)
	out.WriteString("</Mask>\n")
}

func writeMaskParameter(out *strings.Builder, param *model.MaskParameter, level int) {
	indent(out, level)
	// The captured raw attributes carry names the typed fields do not model;
	// replaying them verbatim is what keeps round trips exact.
	if len(param.AllAttrs) > 0 {
		out.WriteString("<MaskParameter")
		for _, attr := range param.AllAttrs {
			fmt.Fprintf(out, " %s=\"%s\"", attr.Name, escapeAttr(attr.Value))
		}
		out.WriteString(">\n")
	} else {
		fmt.Fprintf(out, "<MaskParameter Name=\"%s\" Type=\"%s\"", escapeAttr(param.Name), escapeAttr(param.Type))
		if param.Tunable != nil {
			fmt.Fprintf(out, " Tunable=\"%s\"", onOff(*param.Tunable))
		}
		if param.Visible != nil {
			fmt.Fprintf(out, " Visible=\"%s\"", onOff(*param.Visible))
		}
		out.WriteString(">\n")
	}

	if param.Prompt != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<Prompt>%s</Prompt>\n", escapeText(param.Prompt))
	}
	if param.Value != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<Value>%s</Value>\n", escapeText(param.Value))
	}
	if len(param.TypeOptions) > 0 {
		indent(out, level+1)
		out.WriteString("<TypeOptions>\n")
		for _, opt := range param.TypeOptions {
			indent(out, level+2)
			fmt.Fprintf(out, "<Option>%s</Option>\n", escapeText(opt))
		}
		indent(out, level+1)
		out.WriteString("</TypeOptions>\n")
	}
	if param.Callback != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<Callback>%s</Callback>\n", escapeText(param.Callback))
	}

	indent(out, level)
	out.WriteString("</MaskParameter>\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func writeDialogControl(out *strings.Builder, dc *model.DialogControl, level int) {
	indent(out, level)
	fmt.Fprintf(out, "<DialogControl Type=\"%s\"", escapeText(dc.Type))
	if dc.Name != "" {
		fmt.Fprintf(out, " Name=\"%s\"", escapeText(dc.Name))
	}
	out.WriteString(">\n")
	if dc.Prompt != "" {
		indent(out, level+1)
		fmt.Fprintf(out, "<Prompt>%s</Prompt>\n", escapeText(dc.Prompt))
	}
	if dc.ControlOptions != nil {
		indent(out, level+1)
		out.WriteString("<ControlOptions")
		if dc.ControlOptions.PromptLocation != "" {
			fmt.Fprintf(out, " PromptLocation=\"%s\"", escapeText(dc.ControlOptions.PromptLocation))
		}
		out.WriteString("/>\n")
	}
	for _, child := range dc.Children {
		writeDialogControl(out, child, level+1)
	}
	indent(out, level)
	out.WriteString("</DialogControl>\n")
}

func writeLine(out *strings.Builder, line *model.Line, level int) {
	indent(out, level)
	out.WriteString("<Line>\n")
	for _, name := range line.Properties.Keys() {
		writeP(out, level+1, name, line.Properties.GetDefault(name), false)
	}
	for _, branch := range line.Branches {
		writeBranch(out, branch, level+1)
	}
	indent(out, level)
	out.WriteString("</Line>\n")
}

func writeBranch(out *strings.Builder, branch *model.Branch, level int) {
	indent(out, level)
	out.WriteString("<Branch>\n")
	for _, name := range branch.Properties.Keys() {
		writeP(out, level+1, name, branch.Properties.GetDefault(name), false)
	}
	for _, sub := range branch.Branches {
		writeBranch(out, sub, level+1)
	}
	indent(out, level)
	out.WriteString("</Branch>\n")
}

func writeAnnotation(out *strings.Builder, ann *model.Annotation, level int) {
	indent(out, level)
	out.WriteString("<Annotation")
	if ann.SID != "" {
		fmt.Fprintf(out, " SID=\"%s\"", escapeAttr(ann.SID))
	}
	out.WriteString(">\n")
	for _, name := range ann.Properties.Keys() {
		writeP(out, level+1, name, ann.Properties.GetDefault(name), false)
	}
	indent(out, level)
	out.WriteString("</Annotation>\n")
}
