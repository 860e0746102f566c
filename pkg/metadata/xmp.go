package metadata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmlNS = "http://www.w3.org/XML/1998/namespace"

	xpacketBegin = "<?xpacket begin=\"\ufeff\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n"
	xpacketEnd   = "\n<?xpacket end=\"w\"?>"

	// xmpListSeparator joins the items of array properties.
	xmpListSeparator = "; "
)

type xmpKind int

const (
	xmpSimple xmpKind = iota
	xmpAttr
	xmpBag
	xmpSeq
	xmpAlt
)

// xmlNode is a minimal element tree. Character data is kept only on leaves.
type xmlNode struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*xmlNode
	text     string
}

// xmpProperty is the Handle behind XMP Data fields. It edits the element
// tree in place.
type xmpProperty struct {
	kind xmpKind
	node *xmlNode
	attr int

	section *xmpSection
}

func (p *xmpProperty) String() string {
	switch p.kind {
	case xmpAttr:
		return p.node.attrs[p.attr].Value
	case xmpSimple:
		return p.node.text
	}
	items := make([]string, 0, len(p.container().children))
	for _, li := range p.container().children {
		items = append(items, li.text)
	}
	return strings.Join(items, xmpListSeparator)
}

// Set replaces the value. Array items are split on "; ".
func (p *xmpProperty) Set(text string) error {
	p.section.dirty = true
	switch p.kind {
	case xmpAttr:
		p.node.attrs[p.attr].Value = text
		return nil
	case xmpSimple:
		p.node.text = text
		return nil
	}

	c := p.container()
	var items []string
	if text != "" {
		items = strings.Split(text, xmpListSeparator)
	}
	old := c.children
	c.children = make([]*xmlNode, len(items))
	for i, item := range items {
		li := &xmlNode{name: xml.Name{Space: rdfNS, Local: "li"}, text: item}
		if i < len(old) {
			li.attrs = old[i].attrs
		} else if p.kind == xmpAlt && i == 0 {
			li.attrs = []xml.Attr{{Name: xml.Name{Space: xmlNS, Local: "lang"}, Value: "x-default"}}
		}
		c.children[i] = li
	}
	return nil
}

func (p *xmpProperty) container() *xmlNode {
	return p.node.children[0]
}

type xmpSection struct {
	root     *xmlNode
	prefixes map[string]string
	fields   []*Field
	dirty    bool
}

func decodeXmp(packet []byte) (*xmpSection, error) {
	root, err := parseXMLTree(packet)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XMP packet: %w", err)
	}

	s := &xmpSection{root: root, prefixes: make(map[string]string)}
	collectPrefixes(root, s.prefixes)

	seen := make(map[string]bool)
	add := func(space, local string, prop *xmpProperty) {
		key := "Xmp." + s.prefix(space) + "." + local
		if seen[key] {
			return
		}
		seen[key] = true
		prop.section = s
		s.fields = append(s.fields, &Field{Name: key, Value: Typed(prop)})
	}

	walk(root, func(n *xmlNode) {
		if n.name.Space != rdfNS || n.name.Local != "Description" {
			return
		}
		for i, a := range n.attrs {
			if a.Name.Space == "" || a.Name.Space == "xmlns" || a.Name.Space == rdfNS {
				continue
			}
			add(a.Name.Space, a.Name.Local, &xmpProperty{kind: xmpAttr, node: n, attr: i})
		}
		for _, child := range n.children {
			if kind, ok := propertyKind(child); ok {
				add(child.name.Space, child.name.Local, &xmpProperty{kind: kind, node: child})
			}
		}
	})
	return s, nil
}

// propertyKind classifies a property element. Structs and resource
// references are not exposed and stay untouched in the tree.
func propertyKind(n *xmlNode) (xmpKind, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == rdfNS && (a.Name.Local == "parseType" || a.Name.Local == "resource") {
			return 0, false
		}
	}
	if len(n.children) == 0 {
		return xmpSimple, true
	}
	if len(n.children) != 1 || n.children[0].name.Space != rdfNS {
		return 0, false
	}
	switch n.children[0].name.Local {
	case "Bag":
		return xmpBag, true
	case "Seq":
		return xmpSeq, true
	case "Alt":
		return xmpAlt, true
	}
	return 0, false
}

func (s *xmpSection) prefix(space string) string {
	if p, ok := s.prefixes[space]; ok {
		return p
	}
	return space
}

// encode serializes the element tree into a fresh packet.
func (s *xmpSection) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xpacketBegin)
	if err := s.writeNode(&buf, s.root, 0); err != nil {
		return nil, err
	}
	buf.WriteString(xpacketEnd)
	return buf.Bytes(), nil
}

func (s *xmpSection) writeNode(buf *bytes.Buffer, n *xmlNode, depth int) error {
	indent := strings.Repeat(" ", depth)
	buf.WriteString(indent)
	buf.WriteString("<")
	buf.WriteString(s.qualified(n.name))
	for _, a := range n.attrs {
		buf.WriteString(" ")
		buf.WriteString(s.qualifiedAttr(a.Name))
		buf.WriteString(`="`)
		if err := xml.EscapeText(buf, []byte(a.Value)); err != nil {
			return err
		}
		buf.WriteString(`"`)
	}

	switch {
	case len(n.children) > 0:
		buf.WriteString(">\n")
		for _, c := range n.children {
			if err := s.writeNode(buf, c, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString(indent)
	case n.text != "":
		buf.WriteString(">")
		if err := xml.EscapeText(buf, []byte(n.text)); err != nil {
			return err
		}
	default:
		buf.WriteString("/>\n")
		return nil
	}
	buf.WriteString("</")
	buf.WriteString(s.qualified(n.name))
	buf.WriteString(">\n")
	return nil
}

func (s *xmpSection) qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return s.prefix(name.Space) + ":" + name.Local
}

func (s *xmpSection) qualifiedAttr(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	case xmlNS:
		return "xml:" + name.Local
	}
	return s.qualified(name)
}

func parseXMLTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			t = t.Copy()
			n := &xmlNode{name: t.Name, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			n := stack[len(stack)-1]
			if len(n.children) > 0 {
				n.text = ""
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				n := stack[len(stack)-1]
				n.text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

func collectPrefixes(n *xmlNode, prefixes map[string]string) {
	walk(n, func(n *xmlNode) {
		for _, a := range n.attrs {
			if a.Name.Space != "xmlns" {
				continue
			}
			if _, exists := prefixes[a.Value]; !exists {
				prefixes[a.Value] = a.Name.Local
			}
		}
	})
}

func walk(n *xmlNode, visit func(*xmlNode)) {
	visit(n)
	for _, c := range n.children {
		walk(c, visit)
	}
}
