package layout

import (
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/registry"
	"github.com/dfhack/luastubs/internal/codegen/schema"
)

// GlobalRoot is the namespace component singletons are declared under.
const GlobalRoot = "global"

// Mode selects which name a node contributes to its path.
type Mode int

const (
	// ModeType names each level by its typedef name (nominal declarations).
	ModeType Mode = iota
	// ModeRegular names each level by its instance field name.
	ModeRegular
	// ModeAll is used for root structs, which render both regimes.
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModeType:
		return "type"
	case ModeRegular:
		return "regular"
	case ModeAll:
		return "all"
	default:
		return "unknown"
	}
}

// Path is the list of name components from the root to a node.
type Path []string

// With returns a new path with c appended. The receiver is never modified.
func (p Path) With(c string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, c)
}

// Last returns the final component.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Global reports whether the path is rooted at the singleton namespace.
func (p Path) Global() bool {
	return len(p) > 0 && p[0] == GlobalRoot
}

func (p Path) String() string { return strings.Join(p, ".") }

// Qualify computes the path of n below parent. It depends only on the node's
// attributes, the parent path, the mode and the registry.
func Qualify(n *schema.Node, parent Path, mode Mode, reg *registry.Registry) Path {
	var p Path
	switch {
	case n.Tag == schema.TagGlobalObject:
		p = Path{n.Name()}
	case n.Level() == "0":
		p = parent.With(n.TypeName())
	default:
		p = parent.With(component(n, mode))
	}

	if n.Meta() == "global" {
		p = Path{p.Last()}
	}
	if !p.Global() && reg.IsGlobal(p.String()) {
		p = append(Path{GlobalRoot}, p...)
	}
	return p
}

// component is the name n contributes in the given mode. Nodes without a
// typedef name fall back to their instance name in type mode so types nested
// below a nominal declaration stay addressable.
func component(n *schema.Node, mode Mode) string {
	if mode == ModeType {
		if t := n.TypedefName(); t != "" {
			return t
		}
		if inner, _ := containerItem(n); inner != n {
			if t := inner.TypedefName(); t != "" {
				return t
			}
		}
	}
	return instanceName(n)
}

func instanceName(n *schema.Node) string {
	if name := n.Name(); name != "" {
		return name
	}
	return n.AnonName()
}

// typedefOf reports the typedef name a member declares, looking through
// item wrappers for sequences.
func typedefOf(n *schema.Node) string {
	if t := n.TypedefName(); t != "" {
		return t
	}
	if inner, _ := containerItem(n); inner != n {
		return inner.TypedefName()
	}
	return ""
}

// Ref is the annotation name for a reference to a named type. Names that are
// declared singletons live under the global namespace.
func Ref(name string, reg *registry.Registry) string {
	name = strings.TrimPrefix(name, "df::")
	if name == "" {
		return ""
	}
	if reg.IsGlobal(name) {
		return GlobalRoot + "." + name
	}
	return name
}
