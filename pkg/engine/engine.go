// Package engine implements the pre-vhs macro expansion engine.
//
// The engine turns a macro-bearing tape script into a flat VHS tape: the
// header declares aliases and activations, directive lines (leading ">") are
// comma-split into tokens and expanded recursively against macros registered
// on the engine, and every other line passes through verbatim. Expansion is
// bounded by a document-wide step budget and a per-directive depth/cycle
// guard; those are the only hard failures the engine produces.
package engine

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Default guard limits, applied when Options leaves them zero.
const (
	DefaultMaxExpansionSteps = 10000
	DefaultMaxExpansionDepth = 32
)

// ValidationLevel controls how header parsing anomalies are treated.
type ValidationLevel string

const (
	ValidationOff   ValidationLevel = "off"
	ValidationWarn  ValidationLevel = "warn"
	ValidationError ValidationLevel = "error"
)

// Expansion maps one macro invocation to a sequence of output tokens.
// A nil or empty return means the macro produced no output.
type Expansion func(payload, token string, args *Args, ctx *Context) []string

// Macro describes a registered macro: its expansion function plus the
// binding metadata the argument binder consults before expansion starts.
type Macro struct {
	Expand Expansion

	// Args is the number of positional lines the macro is known to
	// consume even when its invocation token carries no $N placeholder.
	Args int

	// Greedy marks the macro as binding the $* multi-line argument.
	Greedy bool

	// PerLine marks the template-over-lines shape: the macro is never
	// invoked itself; the remaining tokens on its directive line are
	// re-expanded once per non-blank line of the greedy argument.
	PerLine bool
}

// RegisterOptions qualifies one RegisterMacros call.
type RegisterOptions struct {
	// AlwaysOn macros fire without a "Use" declaration. The zero value
	// means the macro must be activated by the document header.
	AlwaysOn bool

	// Quiet suppresses the collision warning for this call only.
	Quiet bool

	// Origin names the pack the macros came from, for listings.
	Origin string
}

// Options configures a new Engine.
type Options struct {
	MaxExpansionSteps int
	MaxExpansionDepth int
	HeaderValidation  ValidationLevel
	QuietCollisions   bool

	// Warnings receives collision and header diagnostics.
	// Defaults to os.Stderr.
	Warnings io.Writer
}

type macroEntry struct {
	Macro
	alwaysOn bool
	origin   string
}

// Engine holds one macro registry and transform pipeline. An Engine is not
// safe for concurrent use; give each document its own instance when
// processing in parallel.
type Engine struct {
	opts       Options
	macros     map[string]macroEntry
	transforms [phaseCount][]Transform
}

// New returns an engine with the built-in Type macro registered.
func New(opts Options) *Engine {
	if opts.MaxExpansionSteps <= 0 {
		opts.MaxExpansionSteps = DefaultMaxExpansionSteps
	}
	if opts.MaxExpansionDepth <= 0 {
		opts.MaxExpansionDepth = DefaultMaxExpansionDepth
	}
	if opts.HeaderValidation == "" {
		opts.HeaderValidation = ValidationOff
	}
	if opts.Warnings == nil {
		opts.Warnings = os.Stderr
	}
	e := &Engine{
		opts:   opts,
		macros: make(map[string]macroEntry),
	}
	e.RegisterMacros(map[string]Macro{
		typeMacroName: {Expand: typeLiteral},
	}, RegisterOptions{AlwaysOn: true, Quiet: true, Origin: "builtin"})
	return e
}

// RegisterMacros installs or overwrites entries. Re-registering an existing
// name wins silently apart from a warning, which Quiet or the engine-wide
// QuietCollisions option suppresses.
func (e *Engine) RegisterMacros(macros map[string]Macro, o RegisterOptions) {
	for name, m := range macros {
		if _, exists := e.macros[name]; exists && !o.Quiet && !e.opts.QuietCollisions {
			fmt.Fprintf(e.opts.Warnings, "prevhs: macro %q re-registered; last registration wins\n", name)
		}
		e.macros[name] = macroEntry{Macro: m, alwaysOn: o.AlwaysOn, origin: o.Origin}
	}
}

// MacroInfo describes a registered macro for listings.
type MacroInfo struct {
	Name     string `json:"name"`
	AlwaysOn bool   `json:"always_on"`
	Args     int    `json:"args"`
	Greedy   bool   `json:"greedy"`
	PerLine  bool   `json:"per_line"`
	Origin   string `json:"origin"`
}

// Macros returns the registered macros sorted by name.
func (e *Engine) Macros() []MacroInfo {
	infos := make([]MacroInfo, 0, len(e.macros))
	for name, entry := range e.macros {
		infos = append(infos, MacroInfo{
			Name:     name,
			AlwaysOn: entry.alwaysOn,
			Args:     entry.Args,
			Greedy:   entry.Greedy,
			PerLine:  entry.PerLine,
			Origin:   entry.origin,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ProcessText expands one document and returns the newline-joined tape.
// It fails only on a guard error or, under ValidationError, a header
// anomaly; everything else degrades to literal pass-through.
func (e *Engine) ProcessText(input string) (string, error) {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")

	hdr, err := e.parseHeader(lines)
	if err != nil {
		return "", err
	}

	r := &run{
		eng:     e,
		aliases: hdr.aliases,
		active:  hdr.active,
		header:  hdr.text,
	}

	body := hdr.body
	i := 0
	for i < len(body) {
		line := body[i]
		ctx := &Context{Line: hdr.bodyStart + i, Header: hdr.text}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, directivePrefix) {
			r.emit([]string{line}, ctx)
			i++
			continue
		}

		tokens := splitTokens(strings.TrimPrefix(trimmed, directivePrefix))
		tokens = e.applyWholeSlice(PhaseHeader, tokens, ctx)

		args, consumed := r.bindArgs(tokens, body[i+1:])
		i += 1 + consumed

		expanded, err := r.expandDirective(tokens, args, ctx)
		if err != nil {
			return "", err
		}
		r.emit(expanded, ctx)
	}

	out := e.applyWholeSlice(PhaseFinalize, r.out, &Context{})
	return strings.Join(out, "\n"), nil
}

const directivePrefix = ">"

// splitTokens comma-splits the remainder of a directive line. Pieces keep
// their surrounding whitespace; the expander trims right before resolution
// so placeholder scans see the raw text.
func splitTokens(rest string) []string {
	return strings.Split(rest, ",")
}

// run carries the per-document state of one ProcessText call: the header's
// alias overlay and activation set, the shared step counter, the output
// accumulator, and the previously emitted command name.
type run struct {
	eng     *Engine
	aliases map[string]macroEntry
	active  map[string]bool
	header  string

	steps   int
	out     []string
	prevCmd string
}

// lookup consults the document's alias overlay before the engine registry.
func (r *run) lookup(name string) (macroEntry, bool) {
	if entry, ok := r.aliases[name]; ok {
		return entry, true
	}
	entry, ok := r.eng.macros[name]
	return entry, ok
}

func (r *run) eligible(name string, entry macroEntry) bool {
	return entry.alwaysOn || r.active[name]
}
