package decode

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/vk/slxkit/internal/model"
)

// ParsePoints parses a routing-point list of the form "[x, y]" or
// "[x1, y1; x2, y2; …]". Only the first two tokens of each pair are read;
// trailing tokens are ignored. Pairs whose first two tokens do not parse as
// integers are skipped.
func ParsePoints(s string) []model.Point {
	inner := strings.TrimSpace(s)
	if t, ok := strings.CutPrefix(inner, "["); ok {
		if t2, ok := strings.CutSuffix(t, "]"); ok {
			inner = t2
		}
	}
	var points []model.Point
	for _, pair := range strings.Split(inner, ";") {
		parts := strings.Split(pair, ",")
		if len(parts) < 2 {
			continue
		}
		x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, model.Point{X: x, Y: y})
	}
	return points
}

// ParseEndpoint parses an endpoint token of the form "<sid>#<type>:<index>",
// e.g. "2::28#out:1". The SID may itself contain colons, so the token is
// split at '#' before the port part is split at ':'.
func ParseEndpoint(s string) (*model.EndpointRef, error) {
	sid, rest, ok := strings.Cut(s, "#")
	if !ok {
		return nil, fmt.Errorf("invalid endpoint format: %q", s)
	}
	ptype, pidx, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, fmt.Errorf("invalid endpoint port format: %q", s)
	}
	index, err := strconv.Atoi(strings.TrimSpace(pidx))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint port index in %q: %w", s, err)
	}
	return &model.EndpointRef{
		SID:       strings.TrimSpace(sid),
		PortType:  strings.TrimSpace(ptype),
		PortIndex: index,
	}, nil
}

// ResolveSystemReference turns a system reference value such as "system_22"
// or "system_22.xml" into the full logical path of the referenced file,
// relative to the directory of the referencing file.
func ResolveSystemReference(ref, baseDir string) string {
	candidate := ref
	if path.Ext(candidate) != ".xml" {
		candidate += ".xml"
	}
	if path.IsAbs(candidate) {
		return candidate
	}
	return path.Join(baseDir, candidate)
}

// ClassifyValue infers the shape of a literal value string. A non-bracketed
// literal is a scalar; a single bracketed group is a scalar or vector by
// comma count; semicolon-separated groups of equal length form a matrix;
// anything irregular is unknown.
func ClassifyValue(val string) (kind model.ValueKind, rows, cols int) {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return model.ValueUnknown, 0, 0
	}
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return model.ValueScalar, 1, 1
	}
	inner := trimmed[1 : len(trimmed)-1]
	if strings.TrimSpace(inner) == "" {
		return model.ValueUnknown, 0, 0
	}
	groups := strings.Split(inner, ";")
	colCount := -1
	for _, row := range groups {
		n := 0
		for _, c := range strings.Split(row, ",") {
			if strings.TrimSpace(c) != "" {
				n++
			}
		}
		if n == 0 {
			return model.ValueUnknown, 0, 0
		}
		if colCount == -1 {
			colCount = n
		} else if colCount != n {
			return model.ValueUnknown, 0, 0
		}
	}
	if len(groups) == 1 {
		if colCount == 1 {
			return model.ValueScalar, 1, 1
		}
		return model.ValueVector, 1, colCount
	}
	return model.ValueMatrix, len(groups), colCount
}
