package decode

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/vk/slxkit/internal/model"
)

// Mask decodes one <Mask> element: display script, description, parameters,
// and the dialog control tree.
func Mask(el *etree.Element) *model.Mask {
	mask := &model.Mask{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "Display":
			mask.Display = child.Text()
			mask.DisplayAttrs = collectAttrs(child)
		case "Description":
			mask.Description = child.Text()
		case "Initialization":
			mask.Initialization = child.Text()
		case "Help":
			mask.Help = child.Text()
		case "MaskParameter":
			mask.Parameters = append(mask.Parameters, maskParameter(child))
		case "DialogControl":
			mask.Dialog = append(mask.Dialog, dialogControl(child))
		}
	}
	return mask
}

// maskParameter decodes one <MaskParameter>. Every attribute is captured in
// document order so regeneration never drops or reorders attributes the
// typed fields do not name.
func maskParameter(el *etree.Element) *model.MaskParameter {
	p := &model.MaskParameter{
		Name:     el.SelectAttrValue("Name", ""),
		Type:     el.SelectAttrValue("Type", ""),
		AllAttrs: collectAttrs(el),
	}
	if v := el.SelectAttrValue("Tunable", ""); v != "" {
		on := onOrOne(v)
		p.Tunable = &on
	}
	if v := el.SelectAttrValue("Visible", ""); v != "" {
		on := onOrOne(v)
		p.Visible = &on
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "Prompt":
			p.Prompt = child.Text()
		case "Value":
			p.Value = child.Text()
		case "Callback":
			p.Callback = child.Text()
		case "TypeOptions":
			for _, opt := range child.ChildElements() {
				if opt.Tag == "Option" {
					p.TypeOptions = append(p.TypeOptions, opt.Text())
				}
			}
		}
	}
	return p
}

func dialogControl(el *etree.Element) *model.DialogControl {
	dc := &model.DialogControl{
		Type: el.SelectAttrValue("Type", ""),
		Name: el.SelectAttrValue("Name", ""),
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "Prompt":
			dc.Prompt = child.Text()
		case "ControlOptions":
			dc.ControlOptions = &model.ControlOptions{
				PromptLocation: child.SelectAttrValue("PromptLocation", ""),
			}
		case "DialogControl":
			dc.Children = append(dc.Children, dialogControl(child))
		}
	}
	return dc
}

func collectAttrs(el *etree.Element) []model.Attr {
	var attrs []model.Attr
	for _, a := range el.Attr {
		attrs = append(attrs, model.Attr{Name: a.Key, Value: a.Value})
	}
	return attrs
}

func onOrOne(v string) bool {
	return strings.EqualFold(v, "on") || v == "1"
}
