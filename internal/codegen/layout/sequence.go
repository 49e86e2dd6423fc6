package layout

import (
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/schema"
)

// containerItem walks nested item wrappers down to the element a sequence
// holds, collecting one dimension per array level ("_" when the length is
// dynamic).
func containerItem(n *schema.Node) (*schema.Node, []string) {
	var dims []string
	for len(n.Children) > 0 {
		if n.Has("is-array") || n.Meta() == "static-array" || (n.Meta() == "container" && n.Subtype() == "stl-vector") {
			count := n.Attr("count")
			if count == "" {
				count = "_"
			}
			dims = append(dims, count)
		}
		if n.Children[0].Tag != schema.TagItem {
			return n, dims
		}
		n = n.Children[0]
	}
	return n, dims
}

type seqType struct {
	typed   string
	dims    []string
	untyped bool
}

func (s seqType) count() string { return strings.Join(s.dims, ",") }

// resolveSequence types a pointer, container or static array declared at
// path. Element records or enums declared inline are declared at the same
// path.
func (r *Renderer) resolveSequence(n *schema.Node, path Path, mode Mode) seqType {
	inner, dims := containerItem(n)
	full := path.String()
	br := brackets(dims)
	body := len(inner.Children) > 0 && inner.Children[0].Tag != schema.TagCodeHelper
	if body {
		r.elementBody(n, inner, path, mode)
	}

	s := seqType{dims: dims}
	switch n.Meta() {
	case "pointer":
		switch {
		case n.TypeName() != "":
			s.typed = r.typeRef(n.TypeName())
		case body:
			s.typed = full + br
		case n.PointerType() != "" && n.Subtype() == "stl-vector":
			s.typed = Ref(n.PointerType(), r.reg) + "[]"
		default:
			if p, ok := Primitive(n.Subtype()); ok {
				s.typed = p
			} else if n.Subtype() == "stl-vector" {
				s.typed, s.untyped = "any[]", true
			} else {
				s.typed, s.untyped = "unknown", true
			}
		}
		r.elementOverrides(&s, inner, br)

	case "container":
		if n.Subtype() == "df-flagarray" {
			s.typed = keyedMap(r.indexKeys(n.IndexEnum()), "boolean")
			s.dims = nil
			return s
		}
		switch {
		case n.RefTarget() != "":
			s.typed = Ref(n.RefTarget(), r.reg)
		case n.TypeName() != "":
			s.typed = r.typeRef(n.TypeName())
		case body:
			s.typed = full
		case n.Subtype() == "stl-bit-vector":
			s.typed = "boolean"
		default:
			s.typed = "any"
		}
		s.typed += br
		r.elementOverrides(&s, inner, br)
		if inner.Subtype() == "stl-string" && n.PointerType() == "stl-string" {
			s.typed = "{ value: string }" + br
		}
		s.untyped = s.untyped || strings.TrimRight(s.typed, "[]") == "any"

	case "static-array":
		switch {
		case n.RefTarget() != "":
			s.typed = Ref(n.RefTarget(), r.reg)
		case n.TypeName() != "":
			s.typed = r.typeRef(n.TypeName())
		case body:
			s.typed = full
		default:
			s.typed = "any"
		}
		s.typed = r.staticElement(inner, full, br, s.typed+br)
		if n.Has("index-enum") {
			s.typed = keyedMap(r.indexKeys(n.IndexEnum()), trimBrackets(s.typed))
		}
		if unknownVector(inner, dims) {
			s.typed, s.untyped = "unknown"+br, true
		}
		s.untyped = s.untyped || strings.TrimRight(s.typed, "[]") == "any"
	}
	return s
}

// elementOverrides lets a scalar or global element type win over whatever
// the wrapper attributes produced.
func (r *Renderer) elementOverrides(s *seqType, inner *schema.Node, br string) {
	switch inner.Meta() {
	case "global":
		if inner.TypeName() != "" {
			s.typed = r.typeRef(inner.TypeName()) + br
		}
	case "primitive", "number":
		if p, ok := Primitive(inner.Subtype()); ok {
			s.typed = p + br
		}
	}
	if len(s.dims) > 0 && unknownVector(inner, s.dims) {
		s.typed, s.untyped = "unknown"+br, true
	}
}

func (r *Renderer) staticElement(inner *schema.Node, full, br, typed string) string {
	itemType := inner.TypeName()
	for _, alt := range []string{inner.Attr("base-name"), inner.Subtype(), "any"} {
		if itemType != "" {
			break
		}
		itemType = alt
	}
	switch inner.Meta() {
	case "global", "number", "primitive":
		return r.typeRef(itemType) + br
	case "compound":
		return typed
	}
	switch inner.Subtype() {
	case "bitfield", "enum":
		return full + br
	}
	return r.typeRef(itemType) + br
}

// unknownVector reports an array whose element is a vector with no element
// description.
func unknownVector(inner *schema.Node, dims []string) bool {
	return len(dims) > 0 && inner.Meta() == "container" && inner.Subtype() == "stl-vector"
}

// elementBody declares the record or enum a sequence element defines
// inline. The element inherits the wrapper attributes it does not set.
func (r *Renderer) elementBody(n, inner *schema.Node, path Path, mode Mode) {
	b := inner
	if inner != n {
		b = inner.Under(n.Attrs)
	}
	if b.Subtype() == "enum" {
		r.enum(b, path)
		return
	}
	r.compound(b, path, mode)
}

// sequenceField resolves a sequence member. Non-flag containers get their own
// wrapper class carrying the container methods.
func (r *Renderer) sequenceField(n *schema.Node, parent Path, mode Mode) *Field {
	path := Qualify(n, parent, mode, r.reg)
	s := r.resolveSequence(n, path, mode)
	f := &Field{
		Name:    instanceName(n),
		Type:    s.typed,
		Count:   s.count(),
		Comment: n.Comment(),
		Untyped: s.untyped,
	}
	if n.Meta() == "container" && n.Subtype() != "df-flagarray" {
		wrapper := path.String() + "_C"
		r.declare(&Class{
			Name:     wrapper,
			Comment:  n.Comment(),
			Index:    trimBrackets(s.typed),
			Defaults: DefaultsContainer | modeDefaults(mode),
		})
		f.Type = wrapper
	}
	return f
}
