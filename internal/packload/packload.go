// Package packload applies the configured macro packs to an engine: bundled
// packs by name, plus Lua pack scripts loaded from disk.
package packload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hesreallyhim/pre-vhs/internal/config"
	"github.com/hesreallyhim/pre-vhs/pkg/engine"
	"github.com/hesreallyhim/pre-vhs/pkg/packs/emoji"
	luapack "github.com/hesreallyhim/pre-vhs/pkg/packs/lua"
	"github.com/hesreallyhim/pre-vhs/pkg/packs/probe"
	"github.com/hesreallyhim/pre-vhs/pkg/packs/spacing"
	"github.com/hesreallyhim/pre-vhs/pkg/packs/typing"
)

// Pack is the registration entry point a bundled pack exposes. Packs must
// not assume any ordering beyond registration order.
type Pack func(e *engine.Engine, opts map[string]any) error

var builtins = map[string]Pack{
	"typing":  typing.Pack,
	"emoji":   emoji.Pack,
	"spacing": spacing.Pack,
	"probe":   probe.Pack,
}

// Loaded tracks resources owned by loaded packs.
type Loaded struct {
	scripts []*luapack.Script
}

// Close releases Lua interpreter states. Call after the last ProcessText.
func (l *Loaded) Close() {
	for _, s := range l.scripts {
		s.Close()
	}
	l.scripts = nil
}

// Apply registers every configured pack on the engine, in configuration
// order. Registration errors (including a failing Lua script) propagate
// unchanged.
func Apply(e *engine.Engine, cfg *config.Config) (*Loaded, error) {
	loaded := &Loaded{}

	for _, name := range cfg.Packs {
		pack, ok := builtins[name]
		if !ok {
			return loaded, fmt.Errorf("unknown pack %q", name)
		}
		if err := pack(e, nil); err != nil {
			return loaded, fmt.Errorf("pack %q: %w", name, err)
		}
	}

	for _, path := range cfg.LuaPacks {
		script, err := luapack.Load(e, expandHome(path))
		if err != nil {
			return loaded, err
		}
		loaded.scripts = append(loaded.scripts, script)
	}

	return loaded, nil
}

// expandHome resolves a leading ~/ against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
