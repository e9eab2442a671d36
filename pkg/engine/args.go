package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// placeholderRe matches $* and $1..$N argument references.
var placeholderRe = regexp.MustCompile(`\$(\*|\d+)`)

// Args holds the argument bindings of one directive invocation: positional
// lines $1..$N plus the greedy $* value. Bindings are immutable once built;
// derived sets for nested calls are fresh values.
type Args struct {
	pos    []string // pos[0] is $1
	greedy string
}

// NewArgs builds a binding from positional values ($1 first) and a greedy
// value. Packs use it to synthesize argument sets for recursive calls.
func NewArgs(positional []string, greedy string) *Args {
	return &Args{pos: positional, greedy: greedy}
}

// SingleArg binds text as both $1 and the greedy value, the shape used for
// inline-argument invocations and per-line template iterations.
func SingleArg(text string) *Args {
	return &Args{pos: []string{text}, greedy: text}
}

// Get returns the value bound to $i, or "" when unbound.
func (a *Args) Get(i int) string {
	if a == nil || i < 1 || i > len(a.pos) {
		return ""
	}
	return a.pos[i-1]
}

// Greedy returns the $* value, "" when unbound.
func (a *Args) Greedy() string {
	if a == nil {
		return ""
	}
	return a.greedy
}

// Len returns the highest bound positional index.
func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.pos)
}

// Substitute replaces every $* and $N occurrence in token with the bound
// values, defaulting unbound references to "".
func (a *Args) Substitute(token string) string {
	return placeholderRe.ReplaceAllStringFunc(token, func(m string) string {
		if m == "$*" {
			return a.Greedy()
		}
		n, err := strconv.Atoi(m[1:])
		if err != nil {
			return ""
		}
		return a.Get(n)
	})
}

// withFirst returns a copy of a with $1 rebound to text, used when inline
// remainder text becomes the first argument of a nested call.
func (a *Args) withFirst(text string) *Args {
	pos := make([]string, 1, max(1, a.Len()))
	pos[0] = text
	if a != nil && len(a.pos) > 1 {
		pos = append(pos, a.pos[1:]...)
	}
	return &Args{pos: pos, greedy: a.Greedy()}
}

// placeholderIndex returns the positional index of a $N match, 0 for $*.
func placeholderIndex(m string) int {
	n, err := strconv.Atoi(m[1:])
	if err != nil {
		return 0
	}
	return n
}

// HasPlaceholder reports whether token references any argument.
func HasPlaceholder(token string) bool {
	return placeholderRe.MatchString(token)
}

// bindArgs determines how many of the lines following a directive are
// consumed as arguments, per the binder contract: the highest $N referenced
// directly or implied by macro metadata, then the greedy tail if any token
// or macro demands it. Returns the binding and the number of lines consumed.
func (r *run) bindArgs(tokens []string, following []string) (*Args, int) {
	maxN := 0
	greedy := false
	bareType := false

	for _, tok := range tokens {
		for _, m := range placeholderRe.FindAllString(tok, -1) {
			if m == "$*" {
				greedy = true
				continue
			}
			if n, err := strconv.Atoi(m[1:]); err == nil && n > maxN {
				maxN = n
			}
		}
		trimmed := strings.TrimSpace(tok)
		name := LeadingWord(trimmed)
		if entry, ok := r.lookup(name); ok && r.eligible(name, entry) {
			if entry.Args > maxN {
				maxN = entry.Args
			}
			if entry.Greedy || entry.PerLine {
				greedy = true
			}
		}
		if trimmed == typeMacroName {
			bareType = true
		}
	}

	// A lone Type with no arguments still types the next line.
	if maxN == 0 && !greedy && bareType {
		maxN = 1
	}

	consumed := 0
	pos := make([]string, maxN)
	for i := 0; i < maxN; i++ {
		if consumed < len(following) {
			pos[i] = following[consumed]
			consumed++
		}
	}

	var greedyVal string
	if greedy {
		var lines []string
		for consumed < len(following) {
			line := following[consumed]
			consumed++
			if strings.TrimSpace(line) == "" {
				break // terminator, discarded
			}
			lines = append(lines, line)
		}
		greedyVal = strings.Join(lines, "\n")
		if maxN == 0 {
			pos = []string{greedyVal}
		}
	}

	return &Args{pos: pos, greedy: greedyVal}, consumed
}
