package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/joshuapare/iekit/resource"
	"github.com/joshuapare/iekit/schema"
)

// jsonNode represents a structure node in JSON format.
type jsonNode struct {
	Label     string      `json:"label"`
	Kind      string      `json:"kind,omitempty"`
	Offset    int         `json:"offset"`
	Size      int         `json:"size"`
	Signature string      `json:"signature,omitempty"`
	Version   string      `json:"version,omitempty"`
	Fields    []jsonField `json:"fields,omitempty"`
	Children  []jsonNode  `json:"children,omitempty"`
}

// jsonField represents a field in JSON format. Value is a number for
// integer kinds and a string otherwise; Display is the decoded rendering
// when it differs from the value.
type jsonField struct {
	Name    string `json:"name"`
	Kind    string `json:"kind,omitempty"`
	Offset  int    `json:"offset"`
	Width   int    `json:"width"`
	Value   any    `json:"value"`
	Display string `json:"display,omitempty"`
}

func (p *Printer) printJSON(n *resource.Node, recursive bool) error {
	return p.writeJSON(p.buildNode(n, 0, recursive))
}

func (p *Printer) printFieldJSON(f *resource.Field) error {
	return p.writeJSON(p.buildField(f))
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

func (p *Printer) buildNode(n *resource.Node, depth int, recursive bool) jsonNode {
	out := jsonNode{
		Label:  n.Label(),
		Offset: n.Offset(),
		Size:   n.Size(),
	}
	if p.opts.ShowKinds {
		out.Kind = string(n.Kind())
	}
	if n.IsRecord() {
		out.Signature = n.Signature()
		out.Version = n.Version()
	}
	if p.opts.ShowFields {
		for _, f := range n.Fields() {
			out.Fields = append(out.Fields, p.buildField(f))
		}
	}
	if !recursive || (p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth) {
		return out
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, p.buildNode(c, depth+1, true))
	}
	return out
}

func (p *Printer) buildField(f *resource.Field) jsonField {
	out := jsonField{
		Name:   f.Name(),
		Offset: f.Offset(),
		Width:  f.Width(),
	}
	if p.opts.ShowKinds {
		out.Kind = f.Kind().String()
	}
	switch {
	case f.Kind() == schema.KindOpaque:
		shown, _ := p.clip(f.Bytes())
		out.Value = hex.EncodeToString(shown)
	case f.Kind() == schema.KindText:
		out.Value = f.Text()
	case f.Kind() == schema.KindResRef:
		out.Value = f.ResRef()
	case f.Kind() == schema.KindSigned:
		out.Value = f.Int()
	case f.Kind().IsInteger():
		out.Value = f.Uint()
		if d := f.Display(p.opts.Strings); d != fmt.Sprint(f.Uint()) {
			out.Display = d
		}
	}
	return out
}
