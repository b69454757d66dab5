package intake

import (
	"regexp"
	"strings"
)

// PatternError reports a filename pattern that cannot be compiled.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "invalid filename pattern '" + e.Pattern + "': " + e.Err.Error()
}

func (e *PatternError) Code() string {
	return "PatternError"
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// MatchPattern reports whether name matches the shell-style pattern.
// '*' matches any run of characters including '/', '?' matches one character and
// '[seq]' or '[!seq]' match a character class. Matching is case-sensitive.
func MatchPattern(pattern, name string) (bool, error) {
	re, err := regexp.Compile(translatePattern(pattern))
	if err != nil {
		return false, &PatternError{Pattern: pattern, Err: err}
	}
	return re.MatchString(name), nil
}

func translatePattern(pattern string) string {
	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	p := []rune(pattern)
	n := len(p)
	for i := 0; i < n; {
		ch := p[i]
		i++
		switch ch {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)
		case '[':
			j := i
			if j < n && p[j] == '!' {
				j++
			}
			if j < n && p[j] == ']' {
				j++
			}
			for j < n && p[j] != ']' {
				j++
			}
			if j >= n { // no closing bracket so '[' is a literal.
				sb.WriteString(`\[`)
				continue
			}
			class := p[i:j]
			i = j + 1
			sb.WriteString(`[`)
			for k, c := range class {
				switch {
				case k == 0 && c == '!':
					sb.WriteString(`^`)
				case c == '\\' || c == '[' || c == ']' || (k == 0 && c == '^'):
					sb.WriteRune('\\')
					sb.WriteRune(c)
				default:
					sb.WriteRune(c)
				}
			}
			sb.WriteString(`]`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	sb.WriteString(`$`)
	return sb.String()
}
