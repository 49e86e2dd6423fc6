// Package testing holds fixture helpers shared by package tests.
package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree creates files below root. Keys are slash separated relative
// paths.
func WriteTree(t *testing.T, root string, files map[string]string) string {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

const ldOpen = `<ld:data-definition xmlns:ld="http://github.com/peterix/dfhack/lowered-data-definition">` + "\n"
const ldClose = `</ld:data-definition>` + "\n"

// CodegenXML wraps lowered layout roots in a data-definition document.
func CodegenXML(body string) string { return ldOpen + body + ldClose }

// SourceTree is the layout of a minimal source checkout. Paths are relative
// to the checkout root.
var SourceTree = map[string]string{
	"library/include/df/codegen.out.xml": CodegenXML(`
<ld:global-type ld:meta="enum-type" ld:level="0" type-name="job_type">
    <enum-item name="Dig"/>
    <enum-item name="Carve" comment="carve stone"/>
</ld:global-type>
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="coord">
    <ld:field ld:meta="number" ld:subtype="int16_t" ld:level="1" name="x"/>
    <ld:field ld:meta="number" ld:subtype="int16_t" ld:level="1" name="y"/>
</ld:global-type>
<ld:global-type ld:meta="struct-type" ld:level="0" type-name="unit" instance-vector="$global.world.units.all">
    <ld:field ld:meta="number" ld:subtype="int32_t" ld:level="1" name="id"/>
    <ld:field ld:meta="global" ld:subtype="enum" ld:level="1" name="job" type-name="job_type"/>
    <ld:field ld:meta="global" ld:level="1" name="pos" type-name="coord"/>
</ld:global-type>
<ld:global-object name="cur_year">
    <ld:item ld:meta="number" ld:subtype="int32_t" ld:level="1"/>
</ld:global-object>
`),
	"library/xml/df.units.xml": `<data-definition>
    <enum-type type-name='job_type'/>
    <struct-type type-name='coord'/>
    <struct-type type-name='unit'/>
    <global-object name='cur_year' type-name='int32_t'/>
</data-definition>
`,
	"library/LuaApi.cpp": `
static const LuaWrapper::FunctionReg dfhack_units_module[] = {
    WRAPM(Units, isCitizen),
    WRAPM(Units, getMissing),
    { NULL, NULL }
};
// <force-expose> string dfhack.units.getReadableName(df::unit *unit)
`,
	"library/modules/Units.cpp": `
bool Units::isCitizen(df::unit *unit, bool include_insane)
{
    return true;
}
`,
	"docs/dev/Lua API.rst": "* ``dfhack.units.isCitizen(unit[,include_insane])``\n\n  Check whether the unit is a citizen.\n",
	"library/lua/utils.lua": "local _ENV = mkmodule('utils')\n\n-- Compare two values.\nfunction compare(a, b)\nend\n\nreturn _ENV\n",
}
