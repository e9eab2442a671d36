package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain registers macros where each name expands to the next.
func chain(eng *Engine, names ...string) {
	for i, name := range names {
		next := "Done"
		if i+1 < len(names) {
			next = names[i+1]
		}
		eng.RegisterMacros(map[string]Macro{
			name: {Expand: func(payload, token string, args *Args, ctx *Context) []string {
				return []string{next}
			}},
		}, RegisterOptions{AlwaysOn: true, Quiet: true})
	}
}

func TestExpand_RecursionDetected(t *testing.T) {
	eng := New(Options{})
	eng.RegisterMacros(map[string]Macro{
		"A": {Expand: func(payload, token string, args *Args, ctx *Context) []string {
			return []string{"B"}
		}},
		"B": {Expand: func(payload, token string, args *Args, ctx *Context) []string {
			return []string{"A"}
		}},
	}, RegisterOptions{AlwaysOn: true})

	_, err := eng.ProcessText("> A")
	require.Error(t, err)

	var recErr *RecursionError
	require.ErrorAs(t, err, &recErr)
	assert.Contains(t, err.Error(), "A")
	assert.Contains(t, err.Error(), "B")
	assert.Equal(t, []string{"A", "B", "A"}, recErr.Chain)
	assert.Equal(t, 1, recErr.Line)
}

func TestExpand_DepthLimit(t *testing.T) {
	eng := New(Options{MaxExpansionDepth: 3})
	chain(eng, "M1", "M2", "M3", "M4")

	_, err := eng.ProcessText("> M1")
	require.Error(t, err)

	var depthErr *DepthLimitError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, 3, depthErr.Limit)
}

func TestExpand_DepthLimitNotHitAtExactDepth(t *testing.T) {
	eng := New(Options{MaxExpansionDepth: 3})
	chain(eng, "M1", "M2", "M3")

	out, err := eng.ProcessText("> M1")
	require.NoError(t, err)
	assert.Equal(t, "Done", out)
}

func TestExpand_StepLimit(t *testing.T) {
	eng := New(Options{MaxExpansionSteps: 5})
	eng.RegisterMacros(map[string]Macro{
		"Many": {Expand: func(payload, token string, args *Args, ctx *Context) []string {
			lines := make([]string, 10)
			for i := range lines {
				lines[i] = "Sleep 1s"
			}
			return lines
		}},
	}, RegisterOptions{AlwaysOn: true})

	_, err := eng.ProcessText("> Many")
	require.Error(t, err)

	var stepErr *StepLimitError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 5, stepErr.Limit)
}

func TestExpand_StepBudgetSpansWholeDocument(t *testing.T) {
	// Three directives of two tokens each fit a budget of 6 but not 5.
	doc := "> Type a, Enter\n> Type b, Enter\n> Type c, Enter"

	eng := New(Options{MaxExpansionSteps: 6})
	_, err := eng.ProcessText(doc)
	require.NoError(t, err)

	eng = New(Options{MaxExpansionSteps: 5})
	_, err = eng.ProcessText(doc)
	require.Error(t, err)

	var stepErr *StepLimitError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 3, stepErr.Line)
}

func TestExpand_SelfNamePassthrough(t *testing.T) {
	eng := New(Options{})
	eng.RegisterMacros(map[string]Macro{
		"Echo": {Expand: func(payload, token string, args *Args, ctx *Context) []string {
			return []string{"Echo once"}
		}},
	}, RegisterOptions{AlwaysOn: true})

	out, err := eng.ProcessText("> Echo")
	require.NoError(t, err)
	assert.Equal(t, "Echo once", out)
}

func TestExpand_CallStackResetsPerDirective(t *testing.T) {
	eng := New(Options{})
	eng.RegisterMacros(map[string]Macro{
		"Once": {Expand: func(payload, token string, args *Args, ctx *Context) []string {
			return []string{"Sleep 1s"}
		}},
	}, RegisterOptions{AlwaysOn: true})

	out, err := eng.ProcessText("> Once\n> Once")
	require.NoError(t, err)
	assert.Equal(t, "Sleep 1s\nSleep 1s", out)
}
