// Package typing bundles the typing-simulation macros: shorthand for typing
// a line and pressing Enter, running a command with a beat before Enter,
// pauses, typing-speed presets, and the EachLine template that replays the
// rest of its directive line for every line of the greedy argument.
package typing

import (
	"strings"

	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

// Default sleep durations, overridable per invocation via inline text.
const (
	pauseDefault = "1s"
	beatDefault  = "300ms"
	runBeat      = "500ms"

	slowSpeed = "150ms"
	fastSpeed = "25ms"
)

// Pack registers the typing macros. All of them require a "Use" declaration.
func Pack(e *engine.Engine, _ map[string]any) error {
	e.RegisterMacros(map[string]engine.Macro{
		"Say": {Expand: say, Args: 1},
		"Run": {Expand: run, Args: 1},

		"Pause": {Expand: sleepFor(pauseDefault)},
		"Beat":  {Expand: sleepFor(beatDefault)},

		"Slow": {Expand: speed(slowSpeed)},
		"Fast": {Expand: speed(fastSpeed)},

		"EachLine": {PerLine: true, Greedy: true},
	}, engine.RegisterOptions{Origin: "typing"})
	return nil
}

// say types its argument and presses Enter.
func say(payload, token string, args *engine.Args, ctx *engine.Context) []string {
	return []string{"Type $1", "Enter"}
}

// run types a command, lets it sit for a beat, then presses Enter.
func run(payload, token string, args *engine.Args, ctx *engine.Context) []string {
	return []string{"Type $1", "Sleep " + runBeat, "Enter"}
}

// sleepFor emits a Sleep with the inline duration or the given default.
func sleepFor(def string) engine.Expansion {
	return func(payload, token string, args *engine.Args, ctx *engine.Context) []string {
		d := strings.TrimSpace(payload)
		if d == "" {
			d = def
		}
		return []string{"Sleep " + d}
	}
}

// speed emits a Set TypingSpeed with the inline duration or the preset.
func speed(def string) engine.Expansion {
	return func(payload, token string, args *engine.Args, ctx *engine.Context) []string {
		d := strings.TrimSpace(payload)
		if d == "" {
			d = def
		}
		return []string{"Set TypingSpeed " + d}
	}
}
