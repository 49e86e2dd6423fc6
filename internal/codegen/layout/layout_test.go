package layout

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfhack/luastubs/internal/codegen/registry"
	"github.com/dfhack/luastubs/internal/codegen/schema"
)

const ldOpen = `<ld:data-definition xmlns:ld="http://github.com/peterix/dfhack/lowered-data-definition">`
const ldClose = `</ld:data-definition>`

func render(t *testing.T, reg *registry.Registry, body string) *Result {
	t.Helper()
	root, err := schema.ParseBytes([]byte(ldOpen + body + ldClose))
	require.NoError(t, err)
	r := NewRenderer(reg, slog.New(slog.DiscardHandler))
	return r.Render([]*schema.Document{{Path: "codegen.out.xml", Root: root}})
}

func field(t *testing.T, c *Class, name string) Field {
	t.Helper()
	require.NotNil(t, c)
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("class %s has no field %s", c.Name, name)
	return Field{}
}

func global(t *testing.T, res *Result, name string) *Global {
	t.Helper()
	for _, d := range res.Decls {
		if g, ok := d.(*Global); ok && g.Name == name {
			return g
		}
	}
	t.Fatalf("no global %s", name)
	return nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		node *schema.Node
		want Kind
	}{
		{"item", &schema.Node{Tag: schema.TagItem}, KindSkip},
		{"code helper", &schema.Node{Tag: schema.TagCodeHelper}, KindSkip},
		{"comment", &schema.Node{Tag: schema.TagComment}, KindComment},
		{"vmethods", &schema.Node{Tag: schema.TagVirtualMethods}, KindVirtualMethods},
		{"number", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "number"}}, KindPrimitive},
		{"bytes", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "bytes"}}, KindPrimitive},
		{"pointer", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "pointer"}}, KindPointer},
		{"container", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "container"}}, KindContainer},
		{"static array", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "static-array"}}, KindStaticArray},
		{"compound", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "compound"}}, KindCompound},
		{"compound enum", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "compound", "subtype": "enum"}}, KindEnum},
		{"global enum", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "global", "subtype": "enum"}}, KindEnum},
		{"global", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "global"}}, KindGlobalField},
		{"unknown", &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "frobnicate"}}, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.node))
		})
	}
}

func TestPrimitive(t *testing.T) {
	tests := map[string]string{
		"int32_t":        "integer",
		"uint64_t":       "integer",
		"size_t":         "integer",
		"padding":        "integer",
		"stl-string":     "string",
		"static-string":  "string",
		"s-float":        "number",
		"d-float":        "number",
		"bool":           "boolean",
		"flag-bit":       "boolean",
		"stl-bit-vector": "boolean[]",
		"void":           "nil",
	}
	for in, want := range tests {
		got, ok := Primitive(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	got, ok := Primitive("unit")
	assert.False(t, ok)
	assert.Equal(t, "unit", got)
}

func TestEnumIndexShifting(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="enum-type" ld:level="0" type-name="job_kind" base-type="int16_t">
    <enum-item name="A"/>
    <enum-item name="B"/>
    <enum-item name="C" value="10"/>
    <enum-item name="D"/>
</ld:global-type>`)

	e, ok := res.Enums.Lookup("job_kind")
	require.True(t, ok)
	assert.Equal(t, []EnumItem{
		{Name: "A", Index: 0},
		{Name: "B", Index: 1},
		{Name: "C", Index: 10},
		{Name: "D", Index: 11},
	}, e.Items)
}

func TestEnumNonItemChildrenAndPlaceholders(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="enum-type" ld:level="0" type-name="mood_type" comment="how they feel">
    <enum-attr name="caption" type-name="stl-string"/>
    <enum-item value="-1"/>
    <enum-item name="Fey"/>
    <comment>not an item</comment>
    <enum-item name="Secretive" since="v0.50"/>
</ld:global-type>`)

	e, ok := res.Enums.Lookup("mood_type")
	require.True(t, ok)
	assert.Equal(t, " how they feel", e.Comment)
	assert.Equal(t, []EnumItem{
		{Name: "unk_-1", Index: -1},
		{Name: "Fey", Index: 0},
		{Name: "Secretive", Index: 1, Comment: " since v0.50"},
	}, e.Items)
	assert.Equal(t, []EnumAttr{{Name: "caption", Type: "string"}}, e.Attrs)
	assert.Equal(t, []string{"unk_-1", "Fey", "Secretive"}, e.Keys())
}

func TestNamespacePromotion(t *testing.T) {
	reg := registry.New([]string{"world"}, []string{"world"})
	res := render(t, reg, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="world">
    <ld:field ld:meta="compound" ld:level="1" name="status">
        <ld:field ld:meta="compound" ld:level="2" name="flags">
            <ld:field ld:meta="number" ld:subtype="bool" ld:level="3" name="dirty"/>
        </ld:field>
    </ld:field>
</ld:global-type>
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="unit">
    <ld:field ld:meta="global" ld:level="1" name="home" type-name="world"/>
</ld:global-type>
<ld:global-object name="world">
    <ld:item ld:meta="global" ld:level="1" type-name="world"/>
</ld:global-object>`)

	require.Contains(t, res.Classes, "global.world")
	require.Contains(t, res.Classes, "global.world.status")
	require.Contains(t, res.Classes, "global.world.status.flags")
	assert.NotContains(t, res.Classes, "world")

	assert.Equal(t, "global.world.status", field(t, res.Classes["global.world"], "status").Type)
	assert.Equal(t, "global.world", field(t, res.Classes["unit"], "home").Type)

	g := global(t, res, "global.world")
	assert.Equal(t, "global.world", g.Type)
}

func TestInheritanceFlattening(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="class-type" ld:level="0" type-name="leaf" inherits-from="mid">
    <ld:field ld:meta="number" ld:subtype="bool" ld:level="1" name="flag"/>
    <ld:field ld:meta="number" ld:subtype="int16_t" ld:level="1" name="id" comment="narrowed"/>
</ld:global-type>
<ld:global-type ld:meta="class-type" ld:level="0" type-name="mid" inherits-from="base">
    <ld:field ld:meta="primitive" ld:subtype="stl-string" ld:level="1" name="label"/>
</ld:global-type>
<ld:global-type ld:meta="class-type" ld:level="0" type-name="base">
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1" name="id"/>
</ld:global-type>`)

	leaf := res.Classes["leaf"]
	require.NotNil(t, leaf)
	assert.Equal(t, "mid", leaf.Base)

	var names []string
	for _, f := range leaf.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "label", "flag"}, names)
	assert.Equal(t, " narrowed", field(t, leaf, "id").Comment)

	assert.Len(t, res.Classes["mid"].Fields, 2)
	assert.Len(t, res.Classes["base"].Fields, 1)

	count := 0
	for _, d := range res.Decls {
		if d.Qualified() == "base" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, res.Stats.Flattened)
}

func TestInheritanceCycleTerminates(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="class-type" ld:level="0" type-name="a" inherits-from="b">
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1" name="x"/>
</ld:global-type>
<ld:global-type ld:meta="class-type" ld:level="0" type-name="b" inherits-from="a">
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1" name="y"/>
</ld:global-type>`)

	assert.NotNil(t, res.Classes["a"])
	assert.NotNil(t, res.Classes["b"])
}

func TestContainerComposition(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="enum-type" ld:level="0" type-name="flavor">
    <enum-item name="A"/>
    <enum-item name="B"/>
</ld:global-type>
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="map_block">
    <ld:field ld:meta="container" ld:subtype="stl-vector" ld:level="1" name="grid">
        <ld:item ld:meta="container" ld:subtype="stl-vector" ld:level="2">
            <ld:item ld:meta="number" ld:subtype="int32_t" ld:level="3"/>
        </ld:item>
    </ld:field>
    <ld:field ld:meta="container" ld:subtype="df-flagarray" ld:level="1" name="flags" index-enum="flavor"/>
    <ld:field ld:meta="container" ld:subtype="df-flagarray" ld:level="1" name="other_flags" index-enum="missing"/>
    <ld:field ld:meta="static-array" ld:level="1" name="tiles" count="16">
        <ld:item ld:meta="static-array" ld:level="2" count="16">
            <ld:item ld:meta="number" ld:subtype="int8_t" ld:level="3"/>
        </ld:item>
    </ld:field>
    <ld:field ld:meta="static-array" ld:level="1" name="weights" count="2" index-enum="flavor">
        <ld:item ld:meta="number" ld:subtype="int16_t" ld:level="2"/>
    </ld:field>
    <ld:field ld:meta="pointer" ld:level="1" name="owner" type-name="unit">
        <ld:item ld:meta="global" ld:level="2" type-name="unit"/>
    </ld:field>
</ld:global-type>`)

	c := res.Classes["map_block"]
	require.NotNil(t, c)

	grid := field(t, c, "grid")
	assert.Equal(t, "map_block.grid_C", grid.Type)
	assert.Equal(t, "_,_", grid.Count)
	wrapper := res.Classes["map_block.grid_C"]
	require.NotNil(t, wrapper)
	assert.Equal(t, "integer[]", wrapper.Index)
	assert.True(t, wrapper.Defaults.Has(DefaultsContainer))

	flags := field(t, c, "flags")
	assert.Equal(t, `table<"A"|"B", boolean>`, flags.Type)
	assert.Empty(t, flags.Count)
	assert.NotContains(t, res.Classes, "map_block.flags_C")

	assert.Equal(t, "table<string, boolean>", field(t, c, "other_flags").Type)

	tiles := field(t, c, "tiles")
	assert.Equal(t, "integer[][]", tiles.Type)
	assert.Equal(t, "16,16", tiles.Count)

	assert.Equal(t, `table<"A"|"B", integer>`, field(t, c, "weights").Type)

	owner := field(t, c, "owner")
	assert.Equal(t, "unit", owner.Type)
	assert.Empty(t, owner.Count)
}

func TestSequenceElementRecords(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="army">
    <ld:field ld:meta="container" ld:subtype="stl-vector" ld:level="1" name="members">
        <ld:item ld:meta="pointer" ld:level="2" is-array="true">
            <ld:item ld:meta="compound" ld:level="3">
                <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="4" name="hp"/>
            </ld:item>
        </ld:item>
    </ld:field>
    <ld:field ld:meta="container" ld:subtype="stl-vector" ld:level="1" name="untyped"/>
    <ld:field ld:meta="pointer" ld:level="1" name="opaque"/>
</ld:global-type>`)

	c := res.Classes["army"]
	require.NotNil(t, c)

	elem := res.Classes["army.members"]
	require.NotNil(t, elem)
	assert.Equal(t, "integer", field(t, elem, "hp").Type)

	members := field(t, c, "members")
	assert.Equal(t, "army.members_C", members.Type)
	assert.Equal(t, "_,_", members.Count)
	assert.Equal(t, "army.members[]", res.Classes["army.members_C"].Index)

	untyped := field(t, c, "untyped")
	assert.True(t, untyped.Untyped)
	assert.Equal(t, "any", res.Classes["army.untyped_C"].Index)

	opaque := field(t, c, "opaque")
	assert.Equal(t, "unknown", opaque.Type)
	assert.True(t, opaque.Untyped)
}

func TestTypedefDeclarations(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="unit" instance-vector="$global.world.units.all">
    <ld:field ld:meta="compound" ld:level="1" name="status" typedef-name="T_status">
        <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="2" name="x"/>
    </ld:field>
    <ld:field ld:meta="compound" ld:subtype="enum" ld:level="1" name="mode" typedef-name="T_mode">
        <enum-item name="Idle"/>
        <enum-item name="Busy"/>
    </ld:field>
    <ld:field ld:meta="global" ld:subtype="enum" ld:level="1" name="kind" type-name="job_kind"/>
</ld:global-type>`)

	unit := res.Classes["unit"]
	require.NotNil(t, unit)
	assert.True(t, unit.Find)
	assert.True(t, unit.Defaults.Has(DefaultsStruct|DefaultsTyped|DefaultsBase))

	assert.Equal(t, "unit.status", field(t, unit, "status").Type)
	assert.Equal(t, "unit.mode", field(t, unit, "mode").Type)
	assert.Equal(t, "job_kind", field(t, unit, "kind").Type)
	assert.Len(t, unit.Fields, 3)

	require.Contains(t, res.Classes, "unit.status")
	require.Contains(t, res.Classes, "unit.T_status")
	assert.True(t, res.Classes["unit.T_status"].Defaults.Has(DefaultsNamed))
	assert.True(t, res.Classes["unit.status"].Defaults.Has(DefaultsTyped))

	_, ok := res.Enums.Lookup("unit.mode")
	assert.True(t, ok)
	_, ok = res.Enums.Lookup("unit.T_mode")
	assert.True(t, ok)
	_, ok = res.Enums.Lookup("job_kind")
	assert.False(t, ok, "enum references never register an enum")
}

func TestCollisionFirstWins(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="item">
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1" name="first"/>
</ld:global-type>
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="item">
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1" name="second"/>
</ld:global-type>`)

	assert.Equal(t, 1, res.Stats.Collisions)
	c := res.Classes["item"]
	require.NotNil(t, c)
	require.Len(t, c.Fields, 1)
	assert.Equal(t, "first", c.Fields[0].Name)
}

func TestGlobalObjects(t *testing.T) {
	reg := registry.New(nil, []string{"cur_year", "cursor", "selection_rect"})
	res := render(t, reg, `
<ld:global-object name="cur_year">
    <ld:item ld:meta="number" ld:subtype="int32_t" ld:level="1"/>
</ld:global-object>
<ld:global-object name="cursor">
    <ld:item ld:meta="compound" ld:level="1">
        <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="2" name="x"/>
        <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="2" name="y"/>
    </ld:item>
</ld:global-object>
<ld:global-object name="selection_rect">
    <ld:item ld:meta="static-array" ld:level="1" count="4">
        <ld:item ld:meta="number" ld:subtype="int16_t" ld:level="2"/>
    </ld:item>
</ld:global-object>
<ld:global-object name="strange">
    <ld:item ld:meta="frobnicate" ld:level="1"/>
</ld:global-object>`)

	assert.Equal(t, "integer", global(t, res, "global.cur_year").Type)

	cursor := res.Classes["global.cursor"]
	require.NotNil(t, cursor)
	assert.Len(t, cursor.Fields, 2)

	sel := global(t, res, "global.selection_rect")
	assert.Equal(t, "integer[]", sel.Type)
	assert.Equal(t, "4", sel.Count)

	assert.Equal(t, 1, res.Stats.Skipped)
}

func TestVirtualMethodsAndDocs(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="class-type" ld:level="0" type-name="building">
    <comment>
        A placed structure.
        Has a position.
    </comment>
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1" name="id"/>
    <virtual-methods>
        <vmethod name="getType" ret-type="building_type"/>
        <vmethod name="setName">
            <ld:field ld:meta="primitive" ld:subtype="stl-string" ld:level="2" name="name"/>
            <ret-type ld:meta="number" ld:subtype="bool" ld:level="2"/>
        </vmethod>
        <vmethod/>
    </virtual-methods>
</ld:global-type>`)

	c := res.Classes["building"]
	require.NotNil(t, c)
	assert.Equal(t, "A placed structure.\nHas a position.", c.Doc)
	assert.Equal(t, []Field{
		{Name: "getType", Type: "fun(self: self): building_type"},
		{Name: "setName", Type: "fun(self: self, name: string): boolean"},
	}, c.Methods)
	assert.Len(t, c.Fields, 1)
}

func TestBitfieldRegistersKeys(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="blk">
    <ld:field ld:meta="container" ld:subtype="df-flagarray" ld:level="1" name="flags" index-enum="tile_flags"/>
</ld:global-type>
<ld:global-type ld:meta="bitfield-type" ld:level="0" type-name="tile_flags">
    <comment>Per-tile flags.</comment>
    <ld:field ld:meta="number" ld:subtype="flag-bit" ld:level="1" name="designated"/>
    <ld:field ld:meta="number" ld:subtype="flag-bit" ld:level="1"/>
    <ld:field ld:meta="number" ld:subtype="flag-bit" ld:level="1" name="hidden"/>
</ld:global-type>`)

	c := res.Classes["tile_flags"]
	require.NotNil(t, c)
	assert.Equal(t, "Per-tile flags.", c.Doc)
	assert.Equal(t, []Field{
		{Name: "designated", Type: "boolean"},
		{Name: "unk_1", Type: "boolean"},
		{Name: "hidden", Type: "boolean"},
	}, c.Fields)

	e, ok := res.Enums.Lookup("tile_flags")
	require.True(t, ok)
	assert.Equal(t, []string{"designated", "unk_1", "hidden"}, e.Keys())

	// blk is declared before the bitfield it is keyed by.
	assert.Equal(t, `table<"designated"|"unk_1"|"hidden", boolean>`, field(t, res.Classes["blk"], "flags").Type)
	_, declared := findDecl(res, "tile_flags").(*Enum)
	assert.False(t, declared, "bitfield keys are not emitted as an enum")
}

func findDecl(res *Result, name string) Decl {
	for _, d := range res.Decls {
		if d.Qualified() == name {
			return d
		}
	}
	return nil
}

func TestUnnamedMembers(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="thing">
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1"/>
    <ld:field ld:meta="compound" ld:level="1" anon-compound="true">
        <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="2" name="z"/>
    </ld:field>
    <ld:field ld:meta="frobnicate" ld:level="1" name="weird"/>
</ld:global-type>`)

	c := res.Classes["thing"]
	require.NotNil(t, c)
	assert.Equal(t, "integer", field(t, c, "unnamed_0").Type)
	assert.Equal(t, "thing.anon_compound", field(t, c, "anon_compound").Type)
	assert.Equal(t, 1, res.Stats.Skipped)
}

func TestAnonCompoundsKeepTheirFields(t *testing.T) {
	res := render(t, nil, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="item_filter">
    <ld:field ld:meta="compound" ld:level="1" anon-compound="true">
        <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="2" name="a"/>
    </ld:field>
    <ld:field ld:meta="compound" ld:level="1" anon-compound="true">
        <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="2" name="b"/>
    </ld:field>
</ld:global-type>`)

	c := res.Classes["item_filter"]
	require.NotNil(t, c)
	assert.Equal(t, "item_filter.anon_compound", field(t, c, "anon_compound").Type)
	assert.Equal(t, "item_filter.anon_compound_2", field(t, c, "anon_compound_2").Type)
	assert.Equal(t, "integer", field(t, res.Classes["item_filter.anon_compound"], "a").Type)
	assert.Equal(t, "integer", field(t, res.Classes["item_filter.anon_compound_2"], "b").Type)
	assert.Zero(t, res.Stats.Collisions)
}

func TestQualifyIsPure(t *testing.T) {
	reg := registry.New(nil, []string{"gview"})
	n := &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "compound", "name": "gview", "typedef-name": "T_view"}}
	parent := Path{"interface"}

	regular := Qualify(n, parent, ModeRegular, reg)
	assert.Equal(t, "interface.gview", regular.String())
	assert.Equal(t, "interface.T_view", Qualify(n, parent, ModeType, reg).String())
	assert.Equal(t, Path{"interface"}, parent)

	g := &schema.Node{Tag: "field", Attrs: map[string]string{"meta": "global", "name": "gview", "type-name": "view"}}
	assert.Equal(t, "global.gview", Qualify(g, Path{"a", "b"}, ModeRegular, reg).String())
}

func TestUndeclaredReferencesCounted(t *testing.T) {
	reg := registry.New([]string{"unit"}, nil)
	res := render(t, reg, `
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="squad">
    <ld:field ld:meta="global" ld:level="1" name="leader" type-name="unit"/>
    <ld:field ld:meta="global" ld:level="1" name="banner" type-name="df::mystery"/>
</ld:global-type>`)

	c := res.Classes["squad"]
	assert.Equal(t, "unit", field(t, c, "leader").Type)
	assert.Equal(t, "mystery", field(t, c, "banner").Type)
	assert.Equal(t, 1, res.Stats.Undeclared)
}
