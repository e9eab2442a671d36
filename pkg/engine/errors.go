package engine

import (
	"fmt"
	"strings"
)

// StepLimitError reports that a document exceeded its expansion step budget.
type StepLimitError struct {
	Limit int
	Line  int
	Chain []string
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("line %d: macro expansion exceeded %d steps%s", e.Line, e.Limit, chainSuffix(e.Chain))
}

// RecursionError reports a macro invoking itself, directly or through a
// cycle of other macros.
type RecursionError struct {
	Line  int
	Chain []string
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("line %d: recursive macro expansion: %s", e.Line, strings.Join(e.Chain, " -> "))
}

// DepthLimitError reports a macro chain deeper than the configured maximum.
type DepthLimitError struct {
	Limit int
	Line  int
	Chain []string
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("line %d: macro expansion deeper than %d levels%s", e.Line, e.Limit, chainSuffix(e.Chain))
}

// HeaderError reports a header anomaly under ValidationError strictness.
type HeaderError struct {
	Line   int
	Text   string
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func chainSuffix(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return " (while expanding " + strings.Join(chain, " -> ") + ")"
}
