// Package view provides output formatting for prevhs commands.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Format represents an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ValidFormats returns the accepted output format names.
func ValidFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatPlain)}
}

// ValidateFormat checks an output format name. The empty string is accepted
// as the default.
func ValidateFormat(format string) error {
	switch Format(format) {
	case "", FormatTable, FormatJSON, FormatPlain:
		return nil
	}
	return fmt.Errorf("invalid output format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
}

// Renderer renders data in a specific format.
type Renderer struct {
	format  Format
	writer  io.Writer
	noColor bool
}

// NewRenderer creates a new renderer with the specified format.
func NewRenderer(format Format, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	return &Renderer{
		format:  format,
		writer:  os.Stdout,
		noColor: noColor,
	}
}

// SetWriter sets the output writer.
func (r *Renderer) SetWriter(w io.Writer) {
	r.writer = w
}

// RenderTable renders rows as an aligned table, or as JSON/TSV depending on
// the renderer's format.
func (r *Renderer) RenderTable(headers []string, rows [][]string) {
	switch r.format {
	case FormatJSON:
		r.renderTableAsJSON(headers, rows)
		return
	case FormatPlain:
		r.renderTableAsPlain(rows)
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) && len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	r.renderRow(headers, widths)
	for _, row := range rows {
		r.renderRow(row, widths)
	}
}

func (r *Renderer) renderRow(cells []string, widths []int) {
	for i, val := range cells {
		if i > 0 {
			fmt.Fprint(r.writer, "  ")
		}
		if i < len(cells)-1 {
			fmt.Fprintf(r.writer, "%-*s", widths[i], val)
		} else {
			fmt.Fprint(r.writer, val)
		}
	}
	fmt.Fprintln(r.writer)
}

func (r *Renderer) renderTableAsJSON(headers []string, rows [][]string) {
	var result []map[string]string
	for _, row := range rows {
		item := make(map[string]string)
		for i, header := range headers {
			if i < len(row) {
				item[strings.ToLower(header)] = row[i]
			}
		}
		result = append(result, item)
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(r.writer, string(data))
}

func (r *Renderer) renderTableAsPlain(rows [][]string) {
	for _, row := range rows {
		fmt.Fprintln(r.writer, strings.Join(row, "\t"))
	}
}

// RenderJSON renders an object as JSON.
func (r *Renderer) RenderJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.writer, string(data))
	return nil
}

// RenderText renders plain text.
func (r *Renderer) RenderText(text string) {
	fmt.Fprintln(r.writer, text)
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintln(r.writer, "✓ "+msg)
}

// Error prints an error message.
func (r *Renderer) Error(msg string) {
	red := color.New(color.FgRed)
	red.Fprintln(r.writer, "✗ "+msg)
}

// Warning prints a warning message.
func (r *Renderer) Warning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintln(r.writer, "! "+msg)
}

// Truncate truncates a string to the specified length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
