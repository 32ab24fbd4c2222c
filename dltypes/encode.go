package dltypes

import (
	"strconv"
	"strings"

	"github.com/inputlayer/inputlayer-go/dlast"
)

// EncodeLiteral serializes a Literal to its Datalog textual form.
func EncodeLiteral(lit dlast.Literal) (string, error) {
	switch lit.Kind {
	case dlast.ScalarNull:
		return "null", nil
	case dlast.ScalarBool:
		if lit.Bool {
			return "true", nil
		}
		return "false", nil
	case dlast.ScalarInt:
		return strconv.FormatInt(lit.Int, 10), nil
	case dlast.ScalarFloat:
		return formatFloat(lit.Float), nil
	case dlast.ScalarString:
		return encodeString(lit.Str), nil
	case dlast.ScalarVector:
		parts := make([]string, len(lit.Vector))
		for i, v := range lit.Vector {
			parts[i] = formatFloat(v)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case dlast.ScalarTimestamp:
		return strconv.FormatInt(lit.Int, 10), nil
	default:
		return "", &UnsupportedValueError{Value: lit}
	}
}

// formatFloat renders a float as the shortest decimal that round-trips
// (strconv 'g' with precision -1): exponent form such as "1e+06" when the
// decimal exponent is below -4 or at least 6, plain digits otherwise. A
// ".0" is appended when the result has neither a decimal point nor an
// exponent, so it cannot be mistaken for an integer literal.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// encodeString double-quotes a string, doubling backslashes and escaping
// embedded double quotes.
func encodeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
