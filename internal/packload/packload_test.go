package packload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesreallyhim/pre-vhs/internal/config"
	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

func TestApply_BuiltinPacks(t *testing.T) {
	eng := engine.New(engine.Options{})
	loaded, err := Apply(eng, &config.Config{Packs: []string{"typing", "emoji"}})
	require.NoError(t, err)
	defer loaded.Close()

	names := make(map[string]bool)
	for _, info := range eng.Macros() {
		names[info.Name] = true
	}
	assert.True(t, names["Say"])
	assert.True(t, names["EachLine"])
	assert.True(t, names["Emoji"])
	assert.False(t, names["Probe"])
}

func TestApply_UnknownPack(t *testing.T) {
	eng := engine.New(engine.Options{})
	loaded, err := Apply(eng, &config.Config{Packs: []string{"nosuch"}})
	require.Error(t, err)
	loaded.Close()
	assert.Contains(t, err.Error(), `unknown pack "nosuch"`)
}

func TestApply_LuaPack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
prevhs.register("Demo", {
    always_on = true,
    expand = function(payload, token, args)
        return { "Sleep 1s" }
    end,
})
`), 0644))

	eng := engine.New(engine.Options{})
	loaded, err := Apply(eng, &config.Config{LuaPacks: []string{path}})
	require.NoError(t, err)
	defer loaded.Close()

	out, err := eng.ProcessText("> Demo")
	require.NoError(t, err)
	assert.Equal(t, "Sleep 1s", out)
}

func TestApply_LuaPackErrorPropagates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lua")
	require.NoError(t, os.WriteFile(path, []byte("not lua at all ("), 0644))

	eng := engine.New(engine.Options{})
	loaded, err := Apply(eng, &config.Config{LuaPacks: []string{path}})
	require.Error(t, err)
	loaded.Close()
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.lua"), expandHome("~/x.lua"))
	assert.Equal(t, "/abs/x.lua", expandHome("/abs/x.lua"))
	assert.Equal(t, "rel.lua", expandHome("rel.lua"))
}
