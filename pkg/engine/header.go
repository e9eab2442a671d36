package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// useKeyword introduces an activation declaration: "Use Name1 Name2 ...".
const useKeyword = "Use"

var aliasRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)

// headerResult is what header parsing hands to the body walk.
type headerResult struct {
	aliases   map[string]macroEntry
	active    map[string]bool
	body      []string
	bodyStart int // 1-based input line number of body[0]
	text      string
}

// parseHeader scans lines from the top: blanks and comments are skipped,
// "Use" declarations feed the activation set, "Name = Tok, Tok" declarations
// become alias macros, and the first line matching none of those starts the
// body. Anomalies are tolerated, warned about, or fatal depending on the
// engine's HeaderValidation level.
func (e *Engine) parseHeader(lines []string) (*headerResult, error) {
	h := &headerResult{
		aliases: make(map[string]macroEntry),
		active:  make(map[string]bool),
	}

	i := 0
scan:
	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, "//"):
		case trimmed == useKeyword || strings.HasPrefix(trimmed, useKeyword+" "):
			names := strings.Fields(trimmed)[1:]
			if len(names) == 0 {
				if err := e.headerAnomaly(i+1, line, "empty Use declaration"); err != nil {
					return nil, err
				}
				continue
			}
			for _, name := range names {
				h.active[name] = true
			}
		case aliasRe.MatchString(trimmed):
			m := aliasRe.FindStringSubmatch(trimmed)
			name, rhs := m[1], strings.TrimSpace(m[2])
			if rhs == "" {
				if err := e.headerAnomaly(i+1, line, "alias with empty body"); err != nil {
					return nil, err
				}
				continue
			}
			if err := e.addAlias(h, name, rhs); err != nil {
				return nil, err
			}
		case strings.Contains(trimmed, "=") && !strings.HasPrefix(trimmed, directivePrefix):
			if err := e.headerAnomaly(i+1, line, "malformed alias declaration"); err != nil {
				return nil, err
			}
			break scan
		default:
			break scan
		}
	}

	h.text = strings.Join(lines[:i], "\n")
	h.body = lines[i:]
	h.bodyStart = i + 1
	return h, nil
}

// addAlias turns one "Name = Tok1, Tok2" declaration into an always-on
// macro whose expansion substitutes arguments into the fixed token sequence.
// Binding metadata is derived from the placeholders the tokens reference.
func (e *Engine) addAlias(h *headerResult, name, rhs string) error {
	tokens := splitTokens(rhs)
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	_, inOverlay := h.aliases[name]
	_, inRegistry := e.macros[name]
	if (inOverlay || inRegistry) && !e.opts.QuietCollisions {
		fmt.Fprintf(e.opts.Warnings, "prevhs: alias %q shadows an existing macro\n", name)
	}

	nargs, greedy := 0, false
	for _, tok := range tokens {
		for _, m := range placeholderRe.FindAllString(tok, -1) {
			if m == "$*" {
				greedy = true
			} else if n := placeholderIndex(m); n > nargs {
				nargs = n
			}
		}
	}

	fixed := append([]string(nil), tokens...)
	h.aliases[name] = macroEntry{
		Macro: Macro{
			Expand: func(payload, token string, args *Args, ctx *Context) []string {
				out := make([]string, len(fixed))
				for i, t := range fixed {
					out[i] = args.Substitute(t)
				}
				return out
			},
			Args:   nargs,
			Greedy: greedy,
		},
		alwaysOn: true,
		origin:   "header",
	}
	return nil
}

// headerAnomaly applies the configured strictness to one soft header issue.
func (e *Engine) headerAnomaly(line int, text, reason string) error {
	switch e.opts.HeaderValidation {
	case ValidationWarn:
		fmt.Fprintf(e.opts.Warnings, "prevhs: header line %d: %s: %q\n", line, reason, strings.TrimSpace(text))
	case ValidationError:
		return &HeaderError{Line: line, Text: strings.TrimSpace(text), Reason: reason}
	}
	return nil
}
