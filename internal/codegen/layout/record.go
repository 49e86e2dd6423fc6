package layout

import (
	"fmt"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/schema"
)

func modeDefaults(mode Mode) Defaults {
	if mode == ModeType {
		return DefaultsNamed
	}
	return DefaultsTyped
}

// rootStruct renders a struct-like root. The instance pass produces the
// fields and the records they reference; the type pass adds the nominal
// declarations nested typedefs introduce.
func (r *Renderer) rootStruct(n *schema.Node) {
	path := r.rootPath(n, ModeAll)
	c := &Class{
		Name:     path.String(),
		Base:     Ref(n.InheritsFrom(), r.reg),
		Comment:  n.Comment(),
		Union:    n.IsUnion(),
		Defaults: DefaultsBase | DefaultsStruct | DefaultsTyped,
		Find:     n.InstanceVector() != "",
	}
	if !r.declare(c) {
		return
	}
	if n.Meta() == "bitfield-type" {
		r.bitfield(c, n)
		return
	}
	r.members(c, n, path, ModeRegular, true)
	r.members(c, n, path, ModeType, false)
}

// bitfield fills c with one boolean per flag bit.
func (r *Renderer) bitfield(c *Class, n *schema.Node) {
	items, other := collectItems(n.Children, isFlagBit)
	for _, it := range items {
		c.Fields = append(c.Fields, Field{Name: it.Name, Type: "boolean", Comment: it.Comment})
	}
	for _, o := range other {
		if o.Tag == schema.TagComment {
			c.Doc = commentText(o)
		}
	}
}

// compound renders a nested record declared at path.
func (r *Renderer) compound(n *schema.Node, path Path, mode Mode) {
	c := &Class{
		Name:    path.String(),
		Base:    Ref(n.InheritsFrom(), r.reg),
		Comment: n.Comment(),
		Union:   n.IsUnion(),
	}
	if c.Base == "" {
		c.Defaults = DefaultsBase | modeDefaults(mode)
	}
	if !r.declare(c) {
		return
	}
	r.members(c, n, path, mode, true)
}

// members resolves the children of n below path. In type mode only
// children that introduce a typedef are visited.
func (r *Renderer) members(c *Class, n *schema.Node, path Path, mode Mode, withFields bool) {
	anon := 0
	for i, child := range n.Children {
		child = prepare(child, i, &anon)
		kind := Classify(child)
		if kind == KindSkip {
			continue
		}
		if mode == ModeType && kind != KindComment && kind != KindVirtualMethods && typedefOf(child) == "" {
			continue
		}

		switch kind {
		case KindComment:
			if withFields {
				c.Doc = commentText(child)
			}
		case KindVirtualMethods:
			if withFields {
				c.Methods = append(c.Methods, r.vmethods(child)...)
			}
		default:
			if f := r.member(child, kind, path, mode); f != nil && withFields {
				c.Fields = append(c.Fields, *f)
			}
		}
	}
}

// member resolves one field, declaring any nested types it introduces.
func (r *Renderer) member(n *schema.Node, kind Kind, parent Path, mode Mode) *Field {
	f := &Field{Name: instanceName(n), Comment: n.Comment()}
	switch kind {
	case KindPrimitive:
		if t, ok := Primitive(n.Subtype()); ok {
			f.Type = t
		} else if n.Subtype() != "" {
			f.Type = n.Subtype()
		} else {
			f.Type, f.Untyped = "unknown", true
		}

	case KindGlobalField:
		f.Type = r.typeRef(n.TypeName())
		if f.Type == "" {
			f.Type, f.Untyped = "unknown", true
		}

	case KindEnum:
		if n.Meta() == "global" {
			f.Type = Ref(n.TypeName(), r.reg)
			if f.Type == "" {
				f.Type, f.Untyped = "unknown", true
			}
			break
		}
		path := Qualify(n, parent, mode, r.reg)
		r.enum(n, path)
		f.Type = path.String()

	case KindCompound:
		path := Qualify(n, parent, mode, r.reg)
		r.compound(n, path, mode)
		f.Type = path.String()

	case KindPointer, KindContainer, KindStaticArray:
		return r.sequenceField(n, parent, mode)

	default:
		r.skip(n, parent, "unhandled tag")
		return nil
	}
	return f
}

// globalObject renders a singleton. Its collapsed meta decides whether it
// is a typed slot or a record of its own.
func (r *Renderer) globalObject(n *schema.Node) {
	g := n.Collapse()
	path := Qualify(g, nil, ModeRegular, r.reg)
	if !path.Global() {
		path = append(Path{GlobalRoot}, path...)
	}
	slot := &Global{Name: path.String(), Comment: g.Comment()}

	switch g.Meta() {
	case "global", "pointer":
		slot.Type = r.typeRef(g.TypeName())
		if slot.Type == "" {
			slot.Type = "unknown"
		}
	case "number", "primitive":
		slot.Type, _ = Primitive(g.Subtype())
	case "static-array", "container":
		item := g.First()
		if item == nil {
			r.skip(g, path, "empty global sequence")
			return
		}
		if item.Name() == "" {
			item = item.WithAttr("name", g.Name())
		}
		s := r.resolveSequence(item, path, ModeRegular)
		slot.Type = s.typed
		slot.Count = s.count()
	case "compound":
		item := g.First()
		if item == nil {
			r.skip(g, path, "empty global record")
			return
		}
		r.compound(item.Under(g.Attrs), path, ModeRegular)
		return
	default:
		r.skip(g, path, "unhandled global object")
		return
	}
	if slot.Type == "" {
		slot.Type = "unknown"
	}
	r.declare(slot)
}

// vmethods converts a virtual-methods table into method fields.
func (r *Renderer) vmethods(n *schema.Node) []Field {
	var out []Field
	for _, m := range n.Children {
		if m.Tag != schema.TagVMethod || m.Name() == "" {
			continue
		}
		ret := "nil"
		if rt := m.Attr("ret-type"); rt != "" {
			ret = r.typeRef(rt)
		}
		args := []string{"self: self"}
		for i, a := range m.Children {
			if a.Tag == schema.TagRetType {
				ret = r.scalar(a.Collapse())
				continue
			}
			if a.Tag == schema.TagComment || a.Tag == schema.TagCodeHelper {
				continue
			}
			a = a.Collapse()
			name := instanceName(a)
			if name == "" {
				name = fmt.Sprintf("arg%d", i)
			}
			args = append(args, name+": "+r.scalar(a))
		}
		out = append(out, Field{
			Name:    m.Name(),
			Type:    "fun(" + strings.Join(args, ", ") + "): " + ret,
			Comment: m.Comment(),
		})
	}
	return out
}

// scalar types a method argument or return value without declaring
// anything.
func (r *Renderer) scalar(n *schema.Node) string {
	switch Classify(n) {
	case KindPrimitive:
		if t, ok := Primitive(n.Subtype()); ok {
			return t
		}
	case KindGlobalField, KindEnum:
		if t := Ref(n.TypeName(), r.reg); t != "" {
			return t
		}
	case KindPointer, KindContainer, KindStaticArray:
		inner, dims := containerItem(n)
		elem := "any"
		switch {
		case n.TypeName() != "":
			elem = r.typeRef(n.TypeName())
		case inner.TypeName() != "":
			elem = r.typeRef(inner.TypeName())
		default:
			if t, ok := Primitive(inner.Subtype()); ok {
				elem = t
			}
		}
		return elem + brackets(dims)
	}
	return "any"
}

// commentText normalises a multi-line comment element.
func commentText(n *schema.Node) string {
	lines := strings.Split(strings.TrimSpace(n.Text), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}
