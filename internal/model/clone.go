package model

// Clone returns a deep copy of the system. Linking and library resolution
// splice cached systems into multiple places in a tree, so copies must not
// share any mutable state with the cache.
func (s *System) Clone() *System {
	if s == nil {
		return nil
	}
	out := &System{
		Properties: s.Properties.Clone(),
		Chart:      s.Chart.Clone(),
	}
	for _, b := range s.Blocks {
		out.Blocks = append(out.Blocks, b.Clone())
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, l.Clone())
	}
	for _, a := range s.Annotations {
		out.Annotations = append(out.Annotations, a.Clone())
	}
	return out
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	out := *b
	out.Properties = b.Properties.Clone()
	if b.RefProperties != nil {
		out.RefProperties = make(map[string]bool, len(b.RefProperties))
		for k, v := range b.RefProperties {
			out.RefProperties[k] = v
		}
	}
	out.PortCounts = b.PortCounts.clone()
	out.Ports = nil
	for _, p := range b.Ports {
		out.Ports = append(out.Ports, p.clone())
	}
	out.Subsystem = b.Subsystem.Clone()
	if b.CFunction != nil {
		cf := *b.CFunction
		out.CFunction = &cf
	}
	if b.InstanceData != nil {
		out.InstanceData = &InstanceData{Properties: b.InstanceData.Properties.Clone()}
	}
	out.LinkData = b.LinkData.clone()
	out.Mask = b.Mask.clone()
	out.Annotations = nil
	for _, a := range b.Annotations {
		out.Annotations = append(out.Annotations, a.Clone())
	}
	out.ShowName = cloneBool(b.ShowName)
	out.BlockMirror = cloneBool(b.BlockMirror)
	out.ChildOrder = append([]ChildSlot(nil), b.ChildOrder...)
	return &out
}

func (pc *PortCounts) clone() *PortCounts {
	if pc == nil {
		return nil
	}
	return &PortCounts{In: cloneInt(pc.In), Out: cloneInt(pc.Out)}
}

func (p *Port) clone() *Port {
	out := *p
	out.Index = cloneInt(p.Index)
	out.Properties = p.Properties.Clone()
	return &out
}

// Clone returns a deep copy of the line.
func (l *Line) Clone() *Line {
	if l == nil {
		return nil
	}
	out := *l
	out.Src = l.Src.clone()
	out.Dst = l.Dst.clone()
	out.Points = append([]Point(nil), l.Points...)
	out.Properties = l.Properties.Clone()
	out.Branches = nil
	for _, br := range l.Branches {
		out.Branches = append(out.Branches, br.Clone())
	}
	return &out
}

// Clone returns a deep copy of the branch.
func (b *Branch) Clone() *Branch {
	if b == nil {
		return nil
	}
	out := *b
	out.Dst = b.Dst.clone()
	out.Points = append([]Point(nil), b.Points...)
	out.Properties = b.Properties.Clone()
	out.Branches = nil
	for _, br := range b.Branches {
		out.Branches = append(out.Branches, br.Clone())
	}
	return &out
}

func (e *EndpointRef) clone() *EndpointRef {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

// Clone returns a deep copy of the annotation.
func (a *Annotation) Clone() *Annotation {
	if a == nil {
		return nil
	}
	out := *a
	out.Properties = a.Properties.Clone()
	return &out
}

func (m *Mask) clone() *Mask {
	if m == nil {
		return nil
	}
	out := *m
	out.DisplayAttrs = append([]Attr(nil), m.DisplayAttrs...)
	out.Parameters = nil
	for _, p := range m.Parameters {
		pc := *p
		pc.Tunable = cloneBool(p.Tunable)
		pc.Visible = cloneBool(p.Visible)
		pc.TypeOptions = append([]string(nil), p.TypeOptions...)
		pc.AllAttrs = append([]Attr(nil), p.AllAttrs...)
		out.Parameters = append(out.Parameters, &pc)
	}
	out.Dialog = nil
	for _, d := range m.Dialog {
		out.Dialog = append(out.Dialog, d.clone())
	}
	return &out
}

func (d *DialogControl) clone() *DialogControl {
	out := *d
	if d.ControlOptions != nil {
		co := *d.ControlOptions
		out.ControlOptions = &co
	}
	out.Children = nil
	for _, c := range d.Children {
		out.Children = append(out.Children, c.clone())
	}
	return &out
}

func (ld *LinkData) clone() *LinkData {
	if ld == nil {
		return nil
	}
	out := &LinkData{}
	for _, dp := range ld.DialogParameters {
		out.DialogParameters = append(out.DialogParameters, &DialogParameters{
			BlockName:  dp.BlockName,
			Properties: dp.Properties.Clone(),
		})
	}
	return out
}

// Clone returns a deep copy of the chart.
func (c *Chart) Clone() *Chart {
	if c == nil {
		return nil
	}
	out := *c
	out.ID = cloneInt(c.ID)
	out.Inputs = append([]ChartPort(nil), c.Inputs...)
	out.Outputs = append([]ChartPort(nil), c.Outputs...)
	for i := range out.Inputs {
		out.Inputs[i].IsSigned = cloneBool(out.Inputs[i].IsSigned)
	}
	for i := range out.Outputs {
		out.Outputs[i].IsSigned = cloneBool(out.Outputs[i].IsSigned)
	}
	if c.Properties != nil {
		out.Properties = make(map[string]string, len(c.Properties))
		for k, v := range c.Properties {
			out.Properties[k] = v
		}
	}
	return &out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
