package macros

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

func TestRunMacros_Table(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("packs: [typing]\n"), 0644))

	var stdout bytes.Buffer
	opts := &macrosOptions{
		output:     "table",
		noColor:    true,
		configPath: cfgPath,
		stdout:     &stdout,
	}

	err := runMacros(opts)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Type")
	assert.Contains(t, out, "Say")
	assert.Contains(t, out, "per-line")
	assert.Contains(t, out, "always")
}

func TestRunMacros_JSON(t *testing.T) {
	var stdout bytes.Buffer
	opts := &macrosOptions{
		output:     "json",
		noColor:    true,
		configPath: filepath.Join(t.TempDir(), "config.yml"),
		stdout:     &stdout,
	}

	err := runMacros(opts)
	require.NoError(t, err)

	var infos []engine.MacroInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "Type", infos[0].Name)
	assert.True(t, infos[0].AlwaysOn)
}

func TestRunMacros_InvalidFormat(t *testing.T) {
	opts := &macrosOptions{
		output:     "xml",
		noColor:    true,
		configPath: filepath.Join(t.TempDir(), "config.yml"),
		stdout:     &bytes.Buffer{},
	}

	err := runMacros(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
