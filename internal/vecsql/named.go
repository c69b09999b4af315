package vecsql

import (
	"strings"

	"github.com/pkg/errors"
)

// expandNamedParams rewrites :name references in a caller-supplied filter
// clause into dialect placeholders and collects the bound values in
// occurrence order. start is the number of placeholders already emitted
// before the clause. References inside single-quoted literals are left
// alone, as is the Postgres :: cast operator. A reference with no matching
// value in params is an error; extra params are tolerated.
func expandNamedParams(d Dialect, clause string, params map[string]any, start int) (string, []any, error) {
	// MariaDB treats backslash as an escape character inside string
	// literals; standard-conforming Postgres literals do not.
	backslash := d.Name() == "mysql"

	var (
		out      strings.Builder
		args     []any
		inQuote  bool
		n        = start
		i        = 0
		prevByte byte
	)
	for i < len(clause) {
		c := clause[i]
		switch {
		case inQuote && backslash && c == '\\' && i+1 < len(clause):
			out.WriteByte(c)
			out.WriteByte(clause[i+1])
			i += 2
		case c == '\'':
			inQuote = !inQuote
			out.WriteByte(c)
			i++
		case !inQuote && c == ':' && prevByte != ':' && i+1 < len(clause) && isIdentStart(clause[i+1]):
			j := i + 1
			for j < len(clause) && isIdentPart(clause[j]) {
				j++
			}
			name := clause[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, errors.Errorf("filter references parameter %q but no value was supplied", name)
			}
			n++
			out.WriteString(d.Placeholder(n))
			args = append(args, value)
			i = j
		default:
			out.WriteByte(c)
			i++
		}
		prevByte = c
	}
	if inQuote {
		return "", nil, errors.New("filter clause has an unterminated string literal")
	}
	return out.String(), args, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
