package shell

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrFormat is returned when a command template doesn't match the values passed to it
var ErrFormat = eris.New("invalid command template")

// Command substitutes each value for its %s placeholder in order. %% produces a literal %.
// The number of values has to match the number of placeholders exactly.
func Command(template string, values ...interface{}) (string, error) {
	return format(template, values, nil)
}

// NamedCommand works like Command but replaces %(name)s placeholders with the matching entry from values.
func NamedCommand(template string, values map[string]interface{}) (string, error) {
	return format(template, nil, values)
}

func format(template string, positional []interface{}, named map[string]interface{}) (string, error) {
	var result strings.Builder
	result.Grow(len(template))

	used := 0
	sawNamed := false
	for pos := 0; pos < len(template); pos++ {
		c := template[pos]
		if c != '%' {
			result.WriteByte(c)
			continue
		}

		pos++
		if pos >= len(template) {
			return "", eris.Wrapf(ErrFormat, "incomplete placeholder at the end of %q", template)
		}

		switch template[pos] {
		case '%':
			result.WriteByte('%')
		case 's':
			if sawNamed {
				return "", eris.Wrapf(ErrFormat, "%q mixes positional and named placeholders", template)
			}

			if used >= len(positional) {
				return "", eris.Wrapf(ErrFormat, "not enough values for %q (got %d)", template, len(positional))
			}

			result.WriteString(fmt.Sprint(positional[used]))
			used++
		case '(':
			end := strings.Index(template[pos:], ")s")
			if end < 0 {
				return "", eris.Wrapf(ErrFormat, "unterminated named placeholder in %q", template)
			}

			if used > 0 {
				return "", eris.Wrapf(ErrFormat, "%q mixes positional and named placeholders", template)
			}

			name := template[pos+1 : pos+end]
			value, ok := named[name]
			if !ok {
				return "", eris.Wrapf(ErrFormat, "no value for %%(%s)s in %q", name, template)
			}

			result.WriteString(fmt.Sprint(value))
			sawNamed = true
			pos += end + 1
		default:
			return "", eris.Wrapf(ErrFormat, "unsupported placeholder %%%c in %q", template[pos], template)
		}
	}

	if used < len(positional) {
		return "", eris.Wrapf(ErrFormat, "too many values for %q (expected %d, got %d)", template, used, len(positional))
	}

	return result.String(), nil
}
