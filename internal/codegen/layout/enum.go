package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/schema"
)

// EnumRegistry maps qualified enum names to their resolved items. It is
// filled during the enum pass and only read afterwards.
type EnumRegistry struct {
	enums map[string]*Enum
}

func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{enums: make(map[string]*Enum)}
}

// Register adds e unless its name is already registered.
func (er *EnumRegistry) Register(e *Enum) bool {
	if _, dup := er.enums[e.Name]; dup {
		return false
	}
	er.enums[e.Name] = e
	return true
}

func (er *EnumRegistry) Lookup(name string) (*Enum, bool) {
	if er == nil {
		return nil, false
	}
	e, ok := er.enums[name]
	return e, ok
}

// Names returns the registered names, sorted.
func (er *EnumRegistry) Names() []string {
	if er == nil {
		return nil
	}
	names := make([]string, 0, len(er.enums))
	for n := range er.enums {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (er *EnumRegistry) Len() int {
	if er == nil {
		return 0
	}
	return len(er.enums)
}

// collectItems walks the children of an enum or bitfield. Every child counts
// towards the position; children that are not items decrement the shift so
// auto-numbering continues where it left off. An explicit value re-anchors
// the shift.
func collectItems(children []*schema.Node, isItem func(*schema.Node) bool) ([]EnumItem, []*schema.Node) {
	var (
		items []EnumItem
		other []*schema.Node
		shift int
	)
	for i, c := range children {
		if !isItem(c) {
			other = append(other, c)
			shift--
			continue
		}
		if v, ok := itemValue(c); ok {
			shift = v - i
		}
		idx := i + shift
		name := c.Name()
		if name == "" {
			name = fmt.Sprintf("unk_%d", idx)
		}
		items = append(items, EnumItem{Name: name, Index: idx, Comment: c.Comment()})
	}
	return items, other
}

func isEnumItem(n *schema.Node) bool { return n.Tag == schema.TagEnumItem }

// isFlagBit matches bitfield members, which the lowered layout spells as
// fields with a flag-bit subtype.
func isFlagBit(n *schema.Node) bool {
	return n.Tag == "flag-bit" || n.Subtype() == "flag-bit"
}

func itemValue(n *schema.Node) (int, bool) {
	raw := strings.TrimSpace(n.Attr("value"))
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, true
	}
	if v, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return int(v), true
	}
	return 0, false
}

// enum resolves n as an enum declared at path and registers it.
func (r *Renderer) enum(n *schema.Node, path Path) *Enum {
	items, other := collectItems(n.Children, isEnumItem)
	e := &Enum{
		Name:    path.String(),
		Comment: n.Comment(),
		Items:   items,
	}
	for _, o := range other {
		if o.Tag != schema.TagEnumAttr || o.Name() == "" {
			continue
		}
		typ := o.TypeName()
		if typ == "" {
			typ = "unknown"
		}
		e.Attrs = append(e.Attrs, EnumAttr{Name: o.Name(), Type: r.typeRef(typ)})
	}

	if !r.enums.Register(e) {
		r.stats.Collisions++
		r.logger.Debug("Rejected duplicate enum", "name", e.Name)
		return e
	}
	r.declare(e)
	return e
}

func (r *Renderer) rootEnum(n *schema.Node) {
	r.enum(n, r.rootPath(n, ModeRegular))
}

// rootBitfieldKeys registers the flag names of a root bitfield so index-enum
// can key by them. The class itself is declared with the other records.
func (r *Renderer) rootBitfieldKeys(n *schema.Node) {
	items, _ := collectItems(n.Children, isFlagBit)
	name := r.rootPath(n, ModeAll).String()
	if !r.enums.Register(&Enum{Name: name, Items: items}) {
		r.logger.Debug("Bitfield keys shadowed by enum", "name", name)
	}
}

// indexKeys returns the item names of the enum an index-enum attribute
// points at, or nil when it is not registered.
func (r *Renderer) indexKeys(name string) []string {
	if name == "" {
		return nil
	}
	if e, ok := r.enums.Lookup(name); ok {
		return e.Keys()
	}
	if e, ok := r.enums.Lookup(Ref(name, r.reg)); ok {
		return e.Keys()
	}
	return nil
}
