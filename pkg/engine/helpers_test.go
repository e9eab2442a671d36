package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadingWord(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Type hello", "Type"},
		{"  Type hello", "Type"},
		{"Type", "Type"},
		{"Type\thello", "Type"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LeadingWord(tt.input), "input %q", tt.input)
	}
}

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", `hello`, `"hello"`},
		{"embedded quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"backslash then quote", `\"`, `"\\\""`},
		{"empty", ``, `""`},
		{"already quoted", `"hello"`, `"hello"`},
		{"already quoted with escapes", `"say \"hi\""`, `"say \"hi\""`},
		{"quote only at start", `"hello`, `"\"hello"`},
		{"interior bare quote", `"a"b"`, `"\"a\"b\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLiteral(tt.input))
		})
	}
}

func TestEscapeLiteral_RoundTrip(t *testing.T) {
	inputs := []string{
		"plain",
		`with "quotes"`,
		`back\slash`,
		`mixed \" both`,
		`\\`,
		"",
	}

	for _, input := range inputs {
		assert.Equal(t, input, UnescapeLiteral(EscapeLiteral(input)), "input %q", input)
	}
}

func TestArgs_Substitute(t *testing.T) {
	args := NewArgs([]string{"one", "two"}, "all\nlines")

	tests := []struct {
		token string
		want  string
	}{
		{"Type $1", "Type one"},
		{"Type $2", "Type two"},
		{"Type $3", "Type "},
		{"Type $*", "Type all\nlines"},
		{"$1 and $2", "one and two"},
		{"no placeholders", "no placeholders"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, args.Substitute(tt.token), "token %q", tt.token)
	}
}

func TestArgs_SubstituteHighIndexes(t *testing.T) {
	pos := make([]string, 12)
	for i := range pos {
		pos[i] = string(rune('a' + i))
	}
	args := NewArgs(pos, "")

	// $12 must not be read as $1 followed by "2".
	assert.Equal(t, "l then a", args.Substitute("$12 then $1"))
}

func TestArgs_NilSafety(t *testing.T) {
	var args *Args
	assert.Equal(t, "", args.Get(1))
	assert.Equal(t, "", args.Greedy())
	assert.Equal(t, 0, args.Len())
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, HasPlaceholder("Type $1"))
	assert.True(t, HasPlaceholder("Type $*"))
	assert.False(t, HasPlaceholder("Type hello"))
	assert.False(t, HasPlaceholder("price is $x"))
}
