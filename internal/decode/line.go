package decode

import (
	"context"

	"github.com/beevik/etree"

	"github.com/vk/slxkit/internal/ctxlog"
	"github.com/vk/slxkit/internal/model"
)

// Line decodes one <Line> element. A malformed endpoint token leaves the
// corresponding optional empty instead of failing the line.
func Line(ctx context.Context, el *etree.Element) *model.Line {
	logger := ctxlog.FromContext(ctx)
	line := &model.Line{Properties: model.NewProperties()}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "P":
			name := child.SelectAttrValue("Name", "")
			if name == "" {
				continue
			}
			value := child.Text()
			line.Properties.Set(name, value)
			switch name {
			case "Name":
				line.Name = value
			case "ZOrder":
				line.ZOrder = value
			case "Src":
				line.Src = parseEndpointLenient(ctx, value)
			case "Dst":
				line.Dst = parseEndpointLenient(ctx, value)
			case "Labels":
				line.Labels = value
			case "Points":
				line.Points = append(line.Points, ParsePoints(value)...)
			}
		case "Branch":
			line.Branches = append(line.Branches, Branch(ctx, child))
		default:
			logger.Warn("Unknown element in Line.", "tag", child.Tag)
		}
	}
	return line
}

// Branch decodes one <Branch> element, recursing into nested branches.
func Branch(ctx context.Context, el *etree.Element) *model.Branch {
	logger := ctxlog.FromContext(ctx)
	br := &model.Branch{Properties: model.NewProperties()}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "P":
			name := child.SelectAttrValue("Name", "")
			if name == "" {
				continue
			}
			value := child.Text()
			br.Properties.Set(name, value)
			switch name {
			case "Name":
				br.Name = value
			case "ZOrder":
				br.ZOrder = value
			case "Dst":
				br.Dst = parseEndpointLenient(ctx, value)
			case "Labels":
				br.Labels = value
			case "Points":
				br.Points = append(br.Points, ParsePoints(value)...)
			}
		case "Branch":
			br.Branches = append(br.Branches, Branch(ctx, child))
		default:
			logger.Warn("Unknown element in Branch.", "tag", child.Tag)
		}
	}
	return br
}

func parseEndpointLenient(ctx context.Context, value string) *model.EndpointRef {
	ep, err := ParseEndpoint(value)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Dropping malformed endpoint.", "value", value, "error", err)
		return nil
	}
	return ep
}
