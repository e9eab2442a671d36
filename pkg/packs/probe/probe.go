// Package probe bundles the external-process probing macros. Probe runs a
// shell command at expansion time and types its trimmed output; ProbeOK runs
// a command and emits a visible comment only when it fails. The engine has
// no timeout of its own, so the pack owns one.
package probe

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

// DefaultTimeout bounds each probed command.
const DefaultTimeout = 10 * time.Second

// Pack registers the probing macros. Both require a "Use" declaration; the
// pack itself must additionally be enabled in the configuration, so scripts
// cannot run commands on a host that never opted in.
func Pack(e *engine.Engine, opts map[string]any) error {
	timeout := DefaultTimeout
	if opts != nil {
		if d, ok := opts["timeout"].(time.Duration); ok && d > 0 {
			timeout = d
		}
	}
	e.RegisterMacros(map[string]engine.Macro{
		"Probe":   {Expand: probeMacro(timeout), Args: 1},
		"ProbeOK": {Expand: probeOKMacro(timeout), Args: 1},
	}, engine.RegisterOptions{Origin: "probe"})
	return nil
}

func commandText(payload string, args *engine.Args) string {
	if c := strings.TrimSpace(payload); c != "" {
		return c
	}
	return strings.TrimSpace(args.Get(1))
}

// probeMacro types the command's output. Failure degrades to a comment line
// rather than aborting the document.
func probeMacro(timeout time.Duration) engine.Expansion {
	return func(payload, token string, args *engine.Args, ctx *engine.Context) []string {
		cmdline := commandText(payload, args)
		if cmdline == "" {
			return nil
		}
		out, err := runShell(cmdline, timeout)
		if err != nil {
			return []string{"# probe failed: " + cmdline}
		}
		if out == "" {
			return nil
		}
		return []string{"Type " + engine.EscapeLiteral(out)}
	}
}

// probeOKMacro is silent on success and leaves a comment on failure.
func probeOKMacro(timeout time.Duration) engine.Expansion {
	return func(payload, token string, args *engine.Args, ctx *engine.Context) []string {
		cmdline := commandText(payload, args)
		if cmdline == "" {
			return nil
		}
		if _, err := runShell(cmdline, timeout); err != nil {
			return []string{"# probe failed: " + cmdline}
		}
		return nil
	}
}

func runShell(cmdline string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "sh", "-c", cmdline).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
