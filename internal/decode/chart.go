package decode

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/vk/slxkit/internal/model"
)

// ErrMissingChartRoot reports a chart document without a <chart> element.
var ErrMissingChartRoot = errors.New("no <chart> root element")

// ChartText decodes one state-machine chart document into its typed summary:
// id, name, script text, and input/output data ports.
func ChartText(text, pathHint string) (*model.Chart, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("parse XML %s: %w", pathHint, err)
	}
	el := doc.FindElement("//chart")
	if el == nil {
		return nil, fmt.Errorf("%s: %w", pathHint, ErrMissingChartRoot)
	}

	chart := &model.Chart{Properties: make(map[string]string)}
	for _, p := range el.ChildElements() {
		if p.Tag == "P" {
			if name := p.SelectAttrValue("Name", ""); name != "" {
				chart.Properties[name] = p.Text()
			}
		}
	}
	if v := el.SelectAttrValue("id", ""); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			chart.ID = &id
		}
	}
	chart.Name = chart.Properties["name"]

	if eml := el.SelectElement("eml"); eml != nil {
		chart.EMLName = namedPText(eml, "name")
	}

	// The script lives on the first state that carries an eml body.
	for _, st := range el.FindElements(".//state") {
		if eml := st.SelectElement("eml"); eml != nil {
			if script := namedPText(eml, "script"); script != "" {
				chart.Script = script
				break
			}
		}
	}

	for _, data := range el.FindElements(".//data") {
		name := data.SelectAttrValue("name", "")
		if name == "" {
			continue
		}
		port, scope := chartPort(data, name)
		switch scope {
		case "INPUT_DATA":
			chart.Inputs = append(chart.Inputs, port)
		case "OUTPUT_DATA":
			chart.Outputs = append(chart.Outputs, port)
		}
	}
	return chart, nil
}

func chartPort(data *etree.Element, name string) (model.ChartPort, string) {
	port := model.ChartPort{Name: name}
	scope := ""
	for _, child := range data.ChildElements() {
		switch child.Tag {
		case "P":
			switch child.SelectAttrValue("Name", "") {
			case "scope":
				scope = child.Text()
			case "dataType":
				port.DataType = child.Text()
			}
		case "props":
			decodeChartProps(child, &port)
		}
	}
	return port, scope
}

func decodeChartProps(props *etree.Element, port *model.ChartPort) {
	for _, pp := range props.ChildElements() {
		switch pp.Tag {
		case "array":
			port.Size = namedPText(pp, "size")
		case "type":
			for _, tp := range pp.ChildElements() {
				if tp.Tag != "P" {
					continue
				}
				val := tp.Text()
				switch tp.SelectAttrValue("Name", "") {
				case "method":
					port.Method = val
				case "primitive":
					port.Primitive = val
				case "isSigned":
					if n, err := strconv.Atoi(val); err == nil {
						signed := n != 0
						port.IsSigned = &signed
					}
				case "wordLength":
					if n, err := strconv.Atoi(val); err == nil {
						port.WordLength = n
					}
				}
			}
		case "unit":
			port.Unit = namedPText(pp, "name")
		case "P":
			val := pp.Text()
			switch pp.SelectAttrValue("Name", "") {
			case "complexity":
				port.Complexity = val
			case "frame":
				port.Frame = val
			}
		}
	}
}

// namedPText returns the text of the child <P Name="name"> element, or "".
func namedPText(el *etree.Element, name string) string {
	for _, p := range el.ChildElements() {
		if p.Tag == "P" && p.SelectAttrValue("Name", "") == name {
			return p.Text()
		}
	}
	return ""
}
