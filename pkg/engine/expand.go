package engine

import "strings"

// expandDirective expands every token of one directive line. The call stack
// guard starts empty for each token; the step counter is shared across the
// whole document. A per-line macro takes over the rest of its line: the
// remaining tokens become a template re-expanded once per non-blank greedy
// line.
func (r *run) expandDirective(tokens []string, args *Args, ctx *Context) ([]string, error) {
	var out []string
	for i, tok := range tokens {
		name := LeadingWord(strings.TrimSpace(tok))
		if entry, ok := r.lookup(name); ok && entry.PerLine && r.eligible(name, entry) {
			lines, err := r.expandPerLine(tokens[i+1:], args, ctx)
			if err != nil {
				return nil, err
			}
			return append(out, lines...), nil
		}

		ctx.TokenIndex = i
		lines, err := r.expand(tok, "", args, ctx, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}

// expandPerLine runs a line-template once per non-blank line of the greedy
// argument, binding that line as both $1 and $* for the iteration.
func (r *run) expandPerLine(template []string, args *Args, ctx *Context) ([]string, error) {
	var out []string
	for _, line := range strings.Split(args.Greedy(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineArgs := SingleArg(line)
		for j, tok := range template {
			ctx.TokenIndex = j
			lines, err := r.expand(tok, "", lineArgs, ctx, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		}
	}
	return out, nil
}

// expand resolves one token to a sequence of final output lines.
//
// The order of operations is fixed: step guard, argument substitution,
// pre-expansion transforms (which may fan the token out), then per fanned
// token either literal emission or macro invocation with cycle and depth
// guards, recursing into whatever the macro returned. A returned item that
// leads with the invoked macro's own name is final output, not a
// re-invocation.
func (r *run) expand(token, payload string, args *Args, ctx *Context, stack []string) ([]string, error) {
	if r.steps >= r.eng.opts.MaxExpansionSteps {
		return nil, &StepLimitError{Limit: r.eng.opts.MaxExpansionSteps, Line: ctx.Line, Chain: stack}
	}
	r.steps++

	hadPlaceholder := HasPlaceholder(token)
	substituted := args.Substitute(token)
	fanned := r.eng.applyFanOut(PhasePreExpand, []string{substituted}, ctx)

	var out []string
	for _, t := range fanned {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		name := LeadingWord(t)
		entry, ok := r.lookup(name)
		if !ok || !r.eligible(name, entry) || entry.Expand == nil {
			out = append(out, t)
			continue
		}

		for _, frame := range stack {
			if frame == name {
				return nil, &RecursionError{Line: ctx.Line, Chain: append(append([]string(nil), stack...), name)}
			}
		}
		if len(stack) >= r.eng.opts.MaxExpansionDepth {
			return nil, &DepthLimitError{Limit: r.eng.opts.MaxExpansionDepth, Line: ctx.Line, Chain: stack}
		}

		// Inline text after the macro name becomes the payload and $1
		// of the nested call, but only when the original token was not
		// driven by placeholders.
		callPayload, callArgs := payload, args
		if rest := strings.TrimSpace(strings.TrimPrefix(t, name)); !hadPlaceholder && rest != "" {
			callPayload = rest
			callArgs = args.withFirst(rest)
		}

		produced := entry.Expand(callPayload, t, callArgs, ctx)
		nested := append(stack, name)
		for _, item := range produced {
			if LeadingWord(strings.TrimSpace(item)) == name {
				out = append(out, strings.TrimSpace(item))
				continue
			}
			lines, err := r.expand(item, callPayload, callArgs, ctx, nested)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		}
	}
	return out, nil
}

// emit pushes expanded lines through the post-expansion chain and appends
// them to the document output, tracking the base command of the last
// non-blank line appended for transforms that care what came before.
func (r *run) emit(lines []string, ctx *Context) {
	for _, line := range lines {
		ctx.PrevCommand = r.prevCmd
		for _, l := range r.eng.applyFanOut(PhasePostExpand, []string{line}, ctx) {
			r.out = append(r.out, l)
			if strings.TrimSpace(l) != "" {
				r.prevCmd = LeadingWord(strings.TrimSpace(l))
			}
		}
	}
	ctx.PrevCommand = ""
}
