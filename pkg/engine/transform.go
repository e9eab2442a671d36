package engine

// Phase identifies where in processing a transform hook runs.
type Phase int

const (
	// PhaseHeader rewrites the full token slice of a directive line
	// before argument binding.
	PhaseHeader Phase = iota

	// PhasePreExpand rewrites one substituted token at a time, possibly
	// fanning it out into several tokens, before macro resolution.
	PhasePreExpand

	// PhasePostExpand rewrites one expanded output line at a time, with
	// ctx.PrevCommand set to the previously emitted command name.
	PhasePostExpand

	// PhaseFinalize rewrites the whole accumulated output once, at the
	// very end.
	PhaseFinalize

	phaseCount
)

// Transform is a rewrite hook. Header and finalize hooks receive the whole
// slice; pre- and post-expansion hooks receive a single item and may return
// zero or more replacements. A nil return means "no change": the input is
// kept as-is. Hooks run in registration order, each consuming the previous
// hook's output.
type Transform func(items []string, ctx *Context) []string

// Context is the transient per-directive state visible to transforms and
// expansion functions.
type Context struct {
	// Line is the 1-based input line number of the current directive.
	Line int

	// Header is the raw header text of the document.
	Header string

	// TokenIndex is the position of the current token on its directive
	// line.
	TokenIndex int

	// PrevCommand is the base command name of the last non-blank line
	// appended to the output. Only set during the post-expansion phase.
	PrevCommand string
}

// RegisterTransform appends a hook to the given phase's chain.
func (e *Engine) RegisterTransform(phase Phase, fn Transform) {
	if phase < 0 || phase >= phaseCount || fn == nil {
		return
	}
	e.transforms[phase] = append(e.transforms[phase], fn)
}

// applyWholeSlice runs a header- or finalize-style chain: every hook sees
// the full slice and replaces it wholesale.
func (e *Engine) applyWholeSlice(phase Phase, items []string, ctx *Context) []string {
	for _, fn := range e.transforms[phase] {
		if out := fn(items, ctx); out != nil {
			items = out
		}
	}
	return items
}

// applyFanOut runs a pre- or post-expansion chain: each hook processes every
// item in the working bucket individually and may replace it with zero or
// more items; the next hook sees the fanned-out bucket.
func (e *Engine) applyFanOut(phase Phase, items []string, ctx *Context) []string {
	for _, fn := range e.transforms[phase] {
		next := make([]string, 0, len(items))
		for _, item := range items {
			if out := fn([]string{item}, ctx); out != nil {
				next = append(next, out...)
			} else {
				next = append(next, item)
			}
		}
		items = next
	}
	return items
}
