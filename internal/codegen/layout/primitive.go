package layout

import "strings"

// Primitive maps a scalar layout subtype to its annotation type. ok is false
// when the subtype is not a known scalar; the subtype is then returned as is.
func Primitive(subtype string) (typ string, ok bool) {
	switch subtype {
	case "int8_t", "uint8_t", "int16_t", "uint16_t", "int32_t", "uint32_t", "int64_t", "uint64_t", "size_t":
		return "integer", true
	case "pointer", "padding":
		return "integer", true
	case "stl-string", "static-string", "ptr-string":
		return "string", true
	case "s-float", "d-float", "long", "ulong":
		return "number", true
	case "bool", "flag-bit":
		return "boolean", true
	case "stl-bit-vector", "df-flagarray":
		return "boolean[]", true
	case "void":
		return "nil", true
	default:
		return subtype, false
	}
}

func brackets(dims []string) string { return strings.Repeat("[]", len(dims)) }

func trimBrackets(t string) string { return strings.TrimSuffix(t, "[]") }

// keyedMap renders a table keyed by enum item names, or by string when the
// key list is empty.
func keyedMap(keys []string, value string) string {
	if len(keys) == 0 {
		return "table<string, " + value + ">"
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = `"` + k + `"`
	}
	return "table<" + strings.Join(quoted, "|") + ", " + value + ">"
}
