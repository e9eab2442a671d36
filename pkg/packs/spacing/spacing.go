// Package spacing bundles a post-expansion transform that opens a blank
// line before a Type command when the preceding output was some other kind
// of command, keeping generated tapes readable. Nothing is inserted before
// the first line, between consecutive Type lines, or right after the
// Set/Require/Output/Env control family.
package spacing

import (
	"strings"

	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

var controlFamily = map[string]bool{
	"Set":     true,
	"Require": true,
	"Output":  true,
	"Env":     true,
}

// Pack registers the gap transform.
func Pack(e *engine.Engine, _ map[string]any) error {
	e.RegisterTransform(engine.PhasePostExpand, insertGap)
	return nil
}

func insertGap(items []string, ctx *engine.Context) []string {
	line := items[0]
	if engine.LeadingWord(strings.TrimSpace(line)) != "Type" {
		return nil
	}
	prev := ctx.PrevCommand
	if prev == "" || prev == "Type" || controlFamily[prev] {
		return nil
	}
	return []string{"", line}
}
