package decode

import (
	"context"
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/vk/slxkit/internal/ctxlog"
	"github.com/vk/slxkit/internal/model"
)

// ErrMissingRoot reports a well-formed document without the expected root
// element.
var ErrMissingRoot = errors.New("no <System> root element")

// SystemText decodes a complete system XML document. The <System> element
// may appear at any depth below the document root.
func SystemText(ctx context.Context, text string) (*model.System, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("parse XML: %w", err)
	}
	el := doc.FindElement("//System")
	if el == nil {
		return nil, ErrMissingRoot
	}
	return System(ctx, el), nil
}

// System decodes one <System> element and its descendants without following
// cross-file references. Blocks carrying a <System Ref="…"/> child keep the
// reference name for a later linking pass.
func System(ctx context.Context, el *etree.Element) *model.System {
	logger := ctxlog.FromContext(ctx)
	sys := &model.System{Properties: model.NewProperties()}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "P":
			if name := child.SelectAttrValue("Name", ""); name != "" {
				sys.Properties.Set(name, child.Text())
			}
		case "Block", "Reference":
			sys.Blocks = append(sys.Blocks, Block(ctx, child))
		case "Line":
			sys.Lines = append(sys.Lines, Line(ctx, child))
		case "Annotation":
			sys.Annotations = append(sys.Annotations, Annotation(child))
		default:
			logger.Warn("Unknown element in System.", "tag", child.Tag)
		}
	}
	return sys
}
