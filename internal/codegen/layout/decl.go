package layout

// Decl is one resolved declaration: *Class, *Enum or *Global.
type Decl interface {
	Qualified() string
	space() namespace
}

type namespace int

const (
	typeSpace namespace = iota
	valueSpace
)

// Defaults selects the built-in member blocks appended to a class.
type Defaults uint8

const (
	DefaultsBase Defaults = 1 << iota
	DefaultsNamed
	DefaultsTyped
	DefaultsStruct
	DefaultsContainer
)

// Has reports whether every bit of d2 is set.
func (d Defaults) Has(d2 Defaults) bool { return d&d2 == d2 }

// Field is one member of a class.
type Field struct {
	Name    string
	Type    string
	Count   string // array dimensions, "_" for dynamic
	Comment string
	Untyped bool
}

// Class is a record declaration.
type Class struct {
	Name     string
	Base     string
	Comment  string
	Doc      string
	Union    bool
	Fields   []Field
	Methods  []Field
	Index    string // element type of a container class
	Defaults Defaults
	Find     bool
}

func (c *Class) Qualified() string { return c.Name }
func (*Class) space() namespace    { return typeSpace }

// EnumItem is one resolved enumerator.
type EnumItem struct {
	Name    string
	Index   int
	Comment string
}

// EnumAttr is an enum-attr pair.
type EnumAttr struct {
	Name string
	Type string
}

// Enum is an ordered constant map.
type Enum struct {
	Name    string
	Comment string
	Items   []EnumItem
	Attrs   []EnumAttr
}

func (e *Enum) Qualified() string { return e.Name }
func (*Enum) space() namespace    { return typeSpace }

// Keys returns the item names in index order of declaration.
func (e *Enum) Keys() []string {
	keys := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		keys = append(keys, it.Name)
	}
	return keys
}

// Global is a typed value slot of a singleton.
type Global struct {
	Name    string
	Type    string
	Count   string
	Comment string
}

func (g *Global) Qualified() string { return g.Name }
func (*Global) space() namespace    { return valueSpace }
