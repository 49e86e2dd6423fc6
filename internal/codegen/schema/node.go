// Package schema holds the generic layout tree read from the structure
// definition documents.
//
// Attribute and element names are stored without their XML namespace, so
// `ld:meta="compound"` is read back as Attr("meta").
package schema

import "maps"

// Tag names that carry structural meaning in the layout tree.
const (
	TagItem           = "item"
	TagCodeHelper     = "code-helper"
	TagComment        = "comment"
	TagEnumItem       = "enum-item"
	TagEnumAttr       = "enum-attr"
	TagGlobalObject   = "global-object"
	TagGlobalType     = "global-type"
	TagVirtualMethods = "virtual-methods"
	TagVMethod        = "vmethod"
	TagRetType        = "ret-type"
)

// Node is one element of a layout document.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	Text     string

	collapsed bool
}

// Attr returns the attribute value or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// Has reports whether the attribute is present, even if empty.
func (n *Node) Has(name string) bool {
	if n == nil || n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[name]
	return ok
}

// Accessors for the layout attributes the renderer dispatches on. Each
// returns "" when the attribute is absent; IsUnion is false unless the
// attribute is "true".
func (n *Node) Meta() string           { return n.Attr("meta") }
func (n *Node) Subtype() string        { return n.Attr("subtype") }
func (n *Node) Level() string          { return n.Attr("level") }
func (n *Node) Name() string           { return n.Attr("name") }
func (n *Node) TypeName() string       { return n.Attr("type-name") }
func (n *Node) TypedefName() string    { return n.Attr("typedef-name") }
func (n *Node) AnonName() string       { return n.Attr("anon-name") }
func (n *Node) RefTarget() string      { return n.Attr("ref-target") }
func (n *Node) PointerType() string    { return n.Attr("pointer-type") }
func (n *Node) InheritsFrom() string   { return n.Attr("inherits-from") }
func (n *Node) InstanceVector() string { return n.Attr("instance-vector") }
func (n *Node) IndexEnum() string      { return n.Attr("index-enum") }
func (n *Node) IsUnion() bool          { return n.Attr("is-union") == "true" }

// Comment joins the comment and since attributes into a trailing
// annotation comment, with a leading space when non-empty.
func (n *Node) Comment() string {
	s := ""
	if c := n.Attr("comment"); c != "" {
		s = " " + c
	}
	if since := n.Attr("since"); since != "" {
		s += " since " + since
	}
	return s
}

// First returns the first child or nil.
func (n *Node) First() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Clone returns a shallow copy with its own attribute map. Children are
// shared.
func (n *Node) Clone() *Node {
	c := *n
	c.Attrs = maps.Clone(n.Attrs)
	if c.Attrs == nil {
		c.Attrs = map[string]string{}
	}
	return &c
}

// Collapse merges the attributes of a sole "item" child under the node's
// own attributes (the node wins on conflicts). It never mutates the tree
// and is applied at most once per node: collapsing an already collapsed
// node returns it unchanged.
func (n *Node) Collapse() *Node {
	if n == nil || n.collapsed {
		return n
	}
	c := n.Clone()
	c.collapsed = true
	if len(n.Children) == 1 && n.Children[0].Tag == TagItem {
		merged := maps.Clone(n.Children[0].Attrs)
		if merged == nil {
			merged = map[string]string{}
		}
		maps.Copy(merged, n.Attrs)
		c.Attrs = merged
	}
	return c
}

// Under returns a copy whose attributes are base overlaid with the node's
// own attributes.
func (n *Node) Under(base map[string]string) *Node {
	c := n.Clone()
	merged := maps.Clone(base)
	if merged == nil {
		merged = map[string]string{}
	}
	maps.Copy(merged, n.Attrs)
	c.Attrs = merged
	return c
}

// WithAttr returns a copy with one attribute replaced.
func (n *Node) WithAttr(name, value string) *Node {
	c := n.Clone()
	c.Attrs[name] = value
	return c
}
