package scanner

import (
	"regexp"
	"strings"
	"unicode"
)

// Param is one decoded parameter of a native function.
type Param struct {
	Name    string `json:"name"`
	Type    string `json:"type"`              // annotation type, "..." for varargs
	Default string `json:"default,omitempty"` // literal default value, empty when required
	Vararg  bool   `json:"vararg"`
	Unknown bool   `json:"unknown"` // type could not be mapped
}

// Optional reports whether the parameter may be omitted.
func (p Param) Optional() bool { return p.Default != "" }

// Return is the decoded return type.
type Return struct {
	Type    string `json:"type"`
	Unknown bool   `json:"unknown"`
}

// Signature is a decoded native function header.
type Signature struct {
	Name   string  `json:"name"` // dotted, lowercased unless decoded verbatim
	Return Return  `json:"return"`
	Params []Param `json:"params"`
}

var signaturePattern = regexp.MustCompile(`(?m)^([\w:<>]+)(.+)?\(([^)]*)\)`)

// Qualifiers removed before a header is matched.
var strippedQualifiers = []string{"const ", "*", "&", "static ", "inline "}

// Parameter types that only exist on the native side and never reach the
// scripting caller.
var bannedParamTypes = map[string]bool{
	"lua_State":           true,
	"color_ostream":       true,
	"MapExtras::MapCache": true,
}

// DecodeSignature parses a recovered header like
// `bool Units::isCitizen(df::unit *unit, bool include_insane = false)`.
// The function name is lowercased when lower is set. ok is false when the
// text is not a header at all.
func DecodeSignature(sig string, lower bool) (Signature, bool) {
	for _, q := range strippedQualifiers {
		sig = strings.ReplaceAll(sig, q, "")
	}
	m := signaturePattern.FindStringSubmatch(sig)
	if m == nil {
		return Signature{}, false
	}

	rawRet := m[1]
	ret := DecodeType(rawRet)
	out := Signature{
		Return: Return{
			Type:    strings.ReplaceAll(strings.ReplaceAll(ret, "::", "."), "enums__biome_type__", ""),
			Unknown: ret == rawRet && rawRet != "string",
		},
	}

	if name := strings.TrimSpace(m[2]); name != "" {
		name = strings.ReplaceAll(name, "::", ".")
		if lower {
			name = strings.ToLower(name)
		}
		out.Name = name
	}

	if m[3] != "" {
		for _, raw := range strings.Split(m[3], ", ") {
			p, keep := decodeParam(raw)
			if keep {
				out.Params = append(out.Params, p)
			}
		}
	}
	defaultTrailingBools(out.Params)
	return out, true
}

func decodeParam(raw string) (Param, bool) {
	var def string
	if name, value, ok := strings.Cut(raw, "="); ok {
		def = strings.TrimSpace(value)
		raw = strings.TrimSpace(name)
	}
	if strings.HasPrefix(raw, "...") {
		return Param{Name: "vararg", Type: "...", Default: def, Vararg: true}, true
	}

	fields := strings.Split(raw, " ")
	name := fields[len(fields)-1]
	rawType := strings.TrimSpace(strings.Replace(raw, " "+name, "", 1))
	if bannedParamTypes[rawType] {
		return Param{}, false
	}
	decoded := DecodeType(rawType)
	return Param{
		Name:    name,
		Type:    strings.ReplaceAll(decoded, "::", "."),
		Default: def,
		Unknown: (decoded == rawType && rawType != "string") || hasUpper(decoded),
	}, true
}

// defaultTrailingBools marks every trailing boolean parameter as defaulting
// to false, stopping at the first parameter of another type.
func defaultTrailingBools(params []Param) {
	for i := len(params) - 1; i >= 0; i-- {
		if params[i].Type != "boolean" {
			return
		}
		if params[i].Default == "" {
			params[i].Default = "false"
		}
	}
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// DecodeType maps a native type spelling to an annotation type. Unions
// written as `a|b` are decoded member-wise. Unmapped types are returned
// unchanged.
func DecodeType(cxx string) string {
	parts := strings.Split(strings.TrimSpace(cxx), "|")
	for i, p := range parts {
		parts[i] = decodeSingleType(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

func decodeSingleType(cxx string) string {
	switch cxx {
	case "int", "int8_t", "uint8_t", "int16_t", "uint16_t", "int32_t", "uint32_t", "int64_t", "uint64_t",
		"size_t", "uintptr_t", "intptr_t":
		return "integer"
	case "float", "long", "ulong", "double":
		return "number"
	case "bool":
		return "boolean"
	case "string", "std::string", "char":
		return "string"
	case "void":
		return "nil"
	}
	switch {
	case strings.HasPrefix(cxx, "std::function"):
		return "function"
	case strings.HasPrefix(cxx, "std::vector<"), strings.HasPrefix(cxx, "vector<"):
		inner := strings.TrimPrefix(strings.TrimPrefix(cxx, "std::"), "vector<")
		return strings.TrimSpace(DecodeType(strings.TrimSuffix(inner, ">"))) + "[]"
	case strings.HasPrefix(cxx, "df::"):
		return cxx[len("df::"):]
	case strings.HasPrefix(cxx, "std::unique_ptr<"):
		inner := strings.TrimPrefix(cxx, "std::unique_ptr<")
		return strings.TrimSpace(DecodeType(strings.TrimSuffix(inner, ">")))
	}
	return cxx
}
