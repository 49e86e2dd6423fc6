package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSignature(t *testing.T) {
	tests := []struct {
		name  string
		sig   string
		lower bool
		want  Signature
	}{
		{
			name:  "integer parameter and void return",
			sig:   "void Foo::bar(int x)",
			lower: true,
			want: Signature{
				Name:   "foo.bar",
				Return: Return{Type: "nil"},
				Params: []Param{{Name: "x", Type: "integer"}},
			},
		},
		{
			name:  "trailing bools default to false",
			sig:   "bool Units::isCitizen(df::unit *unit, bool include_insane = true, bool ignore_sanity)",
			lower: true,
			want: Signature{
				Name:   "units.iscitizen",
				Return: Return{Type: "boolean"},
				Params: []Param{
					{Name: "unit", Type: "unit"},
					{Name: "include_insane", Type: "boolean", Default: "true"},
					{Name: "ignore_sanity", Type: "boolean", Default: "false"},
				},
			},
		},
		{
			name:  "banned native types are dropped",
			sig:   "std::vector<df::unit*> Units::getCitizens(bool exclude_residents, lua_State *L)",
			lower: true,
			want: Signature{
				Name:   "units.getcitizens",
				Return: Return{Type: "unit[]"},
				Params: []Param{{Name: "exclude_residents", Type: "boolean", Default: "false"}},
			},
		},
		{
			name:  "unknown return and cache handle",
			sig:   "MapExtras::Block Maps::getBlock(MapExtras::MapCache &mc, int x)",
			lower: true,
			want: Signature{
				Name:   "maps.getblock",
				Return: Return{Type: "MapExtras.Block", Unknown: true},
				Params: []Param{{Name: "x", Type: "integer"}},
			},
		},
		{
			name:  "varargs",
			sig:   "void Core::print(const char *fmt, ...)",
			lower: true,
			want: Signature{
				Name:   "core.print",
				Return: Return{Type: "nil"},
				Params: []Param{
					{Name: "fmt", Type: "string"},
					{Name: "vararg", Type: "...", Vararg: true},
				},
			},
		},
		{
			name:  "unknown parameter",
			sig:   "void Gui::showPopup(Widget w)",
			lower: true,
			want: Signature{
				Name:   "gui.showpopup",
				Return: Return{Type: "nil"},
				Params: []Param{{Name: "w", Type: "Widget", Unknown: true}},
			},
		},
		{
			name: "verbatim name",
			sig:  "string dfhack.units.getReadableName(df::unit unit)",
			want: Signature{
				Name:   "dfhack.units.getReadableName",
				Return: Return{Type: "string"},
				Params: []Param{{Name: "unit", Type: "unit"}},
			},
		},
		{
			name:  "no parameters",
			sig:   "df::coord Maps::getTileSize()",
			lower: true,
			want: Signature{
				Name:   "maps.gettilesize",
				Return: Return{Type: "coord"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeSignature(tt.sig, tt.lower)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeSignatureRejectsNonHeaders(t *testing.T) {
	_, ok := DecodeSignature("not a header", true)
	assert.False(t, ok)
}

func TestDecodeType(t *testing.T) {
	tests := map[string]string{
		"int32_t":                   "integer",
		"uintptr_t":                 "integer",
		"double":                    "number",
		"char":                      "string",
		"std::vector<std::string>":  "string[]",
		"vector<int>":               "integer[]",
		"std::vector<vector<bool>>": "boolean[][]",
		"std::unique_ptr<df::job>":  "job",
		"std::function<void()>":     "function",
		"int|bool":                  "integer|boolean",
		"df::unit":                  "unit",
		"Widget":                    "Widget",
	}
	for in, want := range tests {
		assert.Equal(t, want, DecodeType(in), in)
	}
}

func TestParamOptional(t *testing.T) {
	assert.True(t, Param{Default: "false"}.Optional())
	assert.False(t, Param{}.Optional())
}
