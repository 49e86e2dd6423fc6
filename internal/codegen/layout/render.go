// Package layout turns the layout tree into resolved declarations: classes,
// enums and global slots with every field type already expressed in the
// annotation type grammar.
package layout

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dfhack/luastubs/internal/codegen/registry"
	"github.com/dfhack/luastubs/internal/codegen/schema"
)

// Kind is the renderer a node dispatches to.
type Kind int

const (
	KindSkip Kind = iota
	KindUnknown
	KindPrimitive
	KindPointer
	KindContainer
	KindStaticArray
	KindCompound
	KindEnum
	KindGlobalField
	KindComment
	KindVirtualMethods
)

// Classify dispatches a member node on its (meta, subtype) pair.
func Classify(n *schema.Node) Kind {
	switch n.Tag {
	case schema.TagItem, schema.TagCodeHelper:
		return KindSkip
	case schema.TagComment:
		return KindComment
	case schema.TagVirtualMethods:
		return KindVirtualMethods
	}
	switch n.Meta() {
	case "primitive", "bytes", "number":
		return KindPrimitive
	case "pointer":
		return KindPointer
	case "container":
		return KindContainer
	case "static-array":
		return KindStaticArray
	case "compound":
		if n.Subtype() == "enum" {
			return KindEnum
		}
		return KindCompound
	case "global":
		if n.Subtype() == "enum" {
			return KindEnum
		}
		return KindGlobalField
	}
	return KindUnknown
}

// Stats counts the recoverable conditions met while rendering.
type Stats struct {
	Roots      int
	Skipped    int
	Collisions int
	Flattened  int
	Undeclared int // type references the symbol registry does not know
}

// Result is the output of one render pass.
type Result struct {
	Decls   []Decl
	Enums   *EnumRegistry
	Classes map[string]*Class
	Stats   Stats
}

// Renderer resolves a layout corpus. It is single use: Render fills the
// enum registry and class cache once and they are read-only afterwards.
type Renderer struct {
	reg    *registry.Registry
	logger *slog.Logger

	enums    *EnumRegistry
	classes  map[string]*Class
	declared map[namespace]map[string]struct{}
	decls    []Decl
	stats    Stats
}

func NewRenderer(reg *registry.Registry, logger *slog.Logger) *Renderer {
	return &Renderer{
		reg:     reg,
		logger:  logger,
		enums:   NewEnumRegistry(),
		classes: make(map[string]*Class),
		declared: map[namespace]map[string]struct{}{
			typeSpace:  {},
			valueSpace: {},
		},
	}
}

// Render resolves every root of every document. Root enums and bitfield
// keys are resolved first so index-enum lookups anywhere in the corpus can
// see them.
func (r *Renderer) Render(docs []*schema.Document) *Result {
	for _, doc := range docs {
		for _, root := range doc.Roots() {
			if root.Meta() == "enum-type" {
				r.stats.Roots++
				r.rootEnum(root)
			}
		}
	}
	for _, doc := range docs {
		for _, root := range doc.Roots() {
			if root.Meta() == "bitfield-type" {
				r.rootBitfieldKeys(root)
			}
		}
	}

	for _, doc := range docs {
		for _, root := range doc.Roots() {
			switch {
			case root.Meta() == "enum-type":
			case isStructRoot(root.Meta()):
				r.stats.Roots++
				r.rootStruct(root)
			case root.Tag == schema.TagGlobalObject:
				r.stats.Roots++
				r.globalObject(root)
			default:
				r.skip(root, nil, "unhandled root")
			}
		}
	}

	r.flatten()

	return &Result{
		Decls:   r.decls,
		Enums:   r.enums,
		Classes: r.classes,
		Stats:   r.stats,
	}
}

func isStructRoot(meta string) bool {
	switch meta {
	case "struct-type", "class-type", "bitfield-type", "df-other-vectors-type", "df-linked-list-type":
		return true
	}
	return false
}

// declare records d unless its qualified name is already taken in its
// namespace; the first declaration wins.
func (r *Renderer) declare(d Decl) bool {
	seen := r.declared[d.space()]
	if _, dup := seen[d.Qualified()]; dup {
		r.stats.Collisions++
		r.logger.Debug("Rejected duplicate declaration", "name", d.Qualified())
		return false
	}
	seen[d.Qualified()] = struct{}{}
	r.decls = append(r.decls, d)
	if c, ok := d.(*Class); ok {
		r.classes[c.Name] = c
	}
	return true
}

func (r *Renderer) skip(n *schema.Node, path Path, reason string) {
	r.stats.Skipped++
	r.logger.Debug("Skipped tag", "tag", n.Tag, "meta", n.Meta(), "path", path.String(), "reason", reason)
}

// rootPath qualifies a root type declaration, which is always named by its
// type name.
func (r *Renderer) rootPath(n *schema.Node, mode Mode) Path {
	if n.Level() == "" {
		n = n.WithAttr("level", "0")
	}
	return Qualify(n, nil, mode, r.reg)
}

// typeRef maps a type-name attribute: known scalars become primitives,
// everything else a type reference. References to names the registry does
// not declare are kept and counted.
func (r *Renderer) typeRef(name string) string {
	if p, ok := Primitive(name); ok {
		return p
	}
	ref := Ref(name, r.reg)
	if bare := strings.TrimPrefix(name, "df::"); r.reg != nil && bare != "" && bare != "unknown" &&
		!r.reg.IsType(bare) && !r.reg.IsGlobal(bare) {
		r.stats.Undeclared++
		r.logger.Debug("Reference to undeclared type", "type", bare)
	}
	return ref
}

// prepare applies the per-member normalisation done before dispatch: the
// single-item collapse and placeholder names. anon counts the anonymous
// compounds seen so far among the siblings; the second and later ones get a
// numbered name.
func prepare(n *schema.Node, index int, anon *int) *schema.Node {
	c := n.Collapse()
	if c.Has("anon-compound") {
		*anon++
		name := "anon_compound"
		if *anon > 1 {
			name = fmt.Sprintf("anon_compound_%d", *anon)
		}
		c = c.WithAttr("name", name)
	}
	if c.Name() == "" && c.AnonName() == "" {
		c = c.WithAttr("name", fmt.Sprintf("unnamed_%d", index))
	}
	return c
}
