package engine

import "strings"

// typeMacroName is the mandatory built-in literal-text macro.
const typeMacroName = "Type"

// LeadingWord returns the first whitespace-delimited word of s, which is the
// candidate macro name of a token and the base command name of an output line.
func LeadingWord(s string) string {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

// EscapeLiteral quotes text for a VHS Type command: the payload is wrapped
// in double quotes with backslash and double-quote escaped. Payloads that
// are already fully quoted pass through unchanged so escaping never stacks.
func EscapeLiteral(text string) string {
	if isQuoted(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte('"')
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\', '"':
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	b.WriteByte('"')
	return b.String()
}

// UnescapeLiteral reverses EscapeLiteral. Unquoted input is returned as-is.
func UnescapeLiteral(text string) string {
	if !isQuoted(text) {
		return text
	}
	inner := text[1 : len(text)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

// isQuoted reports whether text is one complete double-quoted string: it
// must start and end with an unescaped quote and contain no bare quote in
// between.
func isQuoted(text string) bool {
	if len(text) < 2 || text[0] != '"' {
		return false
	}
	escaped := false
	for i := 1; i < len(text); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch text[i] {
		case '\\':
			escaped = true
		case '"':
			return i == len(text)-1
		}
	}
	return false
}

// typeLiteral is the expansion function of the built-in Type macro. The text
// comes from the token remainder (already argument-substituted), falling
// back to the payload and then to $1 for bare invocations. A multi-line
// payload becomes one Type per line with Enter pressed in between.
func typeLiteral(payload, token string, args *Args, ctx *Context) []string {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), typeMacroName))
	if text == "" {
		text = payload
	}
	if text == "" {
		text = args.Get(1)
	}
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, 2*len(lines)-1)
	for i, line := range lines {
		if i > 0 {
			out = append(out, "Enter")
		}
		out = append(out, typeMacroName+" "+EscapeLiteral(line))
	}
	return out
}
