package decode

import (
	"github.com/beevik/etree"

	"github.com/vk/slxkit/internal/model"
)

// Annotation decodes one <Annotation> element. The display text is carried
// by the "Name" property.
func Annotation(el *etree.Element) *model.Annotation {
	ann := &model.Annotation{
		SID:        el.SelectAttrValue("SID", ""),
		Properties: model.NewProperties(),
	}
	for _, child := range el.ChildElements() {
		if child.Tag != "P" {
			continue
		}
		name := child.SelectAttrValue("Name", "")
		if name == "" {
			continue
		}
		value := child.Text()
		ann.Properties.Set(name, value)
		switch name {
		case "Position":
			ann.Position = value
		case "ZOrder":
			ann.ZOrder = value
		case "Interpreter":
			ann.Interpreter = value
		case "Name":
			ann.Text = value
		}
	}
	return ann
}
