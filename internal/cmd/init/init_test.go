package init

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesreallyhim/pre-vhs/internal/config"
)

func TestRunInit_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	err := runInit(path, true)
	require.NoError(t, err)

	cfg, loadErr := config.Load(path)
	require.NoError(t, loadErr)
	assert.Equal(t, []string{"typing", "spacing"}, cfg.Packs)
	assert.Equal(t, "warn", cfg.HeaderValidation)
}

func TestRunInit_DefaultsOverwritesWithoutPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("packs: [emoji]\n"), 0600))

	err := runInit(path, true)
	require.NoError(t, err)

	cfg, loadErr := config.Load(path)
	require.NoError(t, loadErr)
	assert.Equal(t, []string{"typing", "spacing"}, cfg.Packs)
}

func TestValidateOptionalInt(t *testing.T) {
	assert.NoError(t, validateOptionalInt(""))
	assert.NoError(t, validateOptionalInt("10"))
	assert.Error(t, validateOptionalInt("0"))
	assert.Error(t, validateOptionalInt("-3"))
	assert.Error(t, validateOptionalInt("abc"))
}
