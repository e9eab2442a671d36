package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"empty (default)", "", false},
		{"table", "table", false},
		{"json", "json", false},
		{"plain", "plain", false},
		{"invalid", "invalid", true},
		{"xml", "xml", true},
		{"TABLE uppercase", "TABLE", true}, // case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid output format")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidFormats(t *testing.T) {
	formats := ValidFormats()
	assert.Contains(t, formats, "table")
	assert.Contains(t, formats, "json")
	assert.Contains(t, formats, "plain")
	assert.Len(t, formats, 3)
}

func TestRenderTable_Aligned(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatTable, true)
	r.SetWriter(&buf)

	r.RenderTable([]string{"NAME", "ARGS"}, [][]string{
		{"Say", "1"},
		{"EachLine", "per-line"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME      ARGS", lines[0])
	assert.Equal(t, "Say       1", lines[1])
	assert.Equal(t, "EachLine  per-line", lines[2])
}

func TestRenderTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	r.RenderTable([]string{"Name"}, [][]string{{"Say"}})

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Say", rows[0]["name"])
}

func TestRenderTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPlain, true)
	r.SetWriter(&buf)

	r.RenderTable([]string{"A", "B"}, [][]string{{"x", "y"}})
	assert.Equal(t, "x\ty\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderJSON(map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n": 1}`, buf.String())
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPlain, true)
	r.SetWriter(&buf)

	r.Success("done")
	r.Error("broken")
	r.Warning("careful")

	out := buf.String()
	assert.Contains(t, out, "✓ done")
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "! careful")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncate with ellipsis", "hello world", 8, "hello..."},
		{"very short max", "hello", 3, "hel"},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen))
		})
	}
}
