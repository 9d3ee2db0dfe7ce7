package formula

import (
	"strings"
	"unicode"
)

// binaryOps are matched longest first.
var binaryOps = []string{"**", "==", "!=", ">=", "<=", "&&", "||", "+", "-", "*", "/", "%", ">", "<"}

// normalize rewrites an expression with exactly one space around binary
// operators and after commas, so "(age-25)**2" and "( age - 25 ) ** 2"
// both become "(age - 25) ** 2".
func normalize(expr string) string {
	src := strings.Join(strings.Fields(expr), "")
	var sb strings.Builder
	operand := false // previous token ends an operand
	for i := 0; i < len(src); {
		if op, ok := matchOp(src[i:]); ok {
			if operand {
				sb.WriteString(" " + op + " ")
			} else {
				// Unary sign.
				sb.WriteString(op)
			}
			operand = false
			i += len(op)
			continue
		}
		c := rune(src[i])
		switch {
		case c == ',':
			sb.WriteString(", ")
			operand = false
		case c == '(':
			sb.WriteByte(src[i])
			operand = false
		default:
			sb.WriteByte(src[i])
			operand = c == ')' || c == '_' || c == '.' || unicode.IsLetter(c) || unicode.IsDigit(c)
		}
		i++
	}
	return sb.String()
}

func matchOp(s string) (string, bool) {
	for _, op := range binaryOps {
		if strings.HasPrefix(s, op) {
			return op, true
		}
	}
	return "", false
}
