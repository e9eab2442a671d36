// Package emoji bundles emoji shortcut support: an activation-gated Emoji
// macro that types the named emoji, and a pre-expansion transform rewriting
// :shortcode: occurrences inside tokens.
package emoji

import (
	"regexp"
	"strings"

	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

var shortcodes = map[string]string{
	"smile":     "😄",
	"grin":      "😁",
	"wave":      "👋",
	"thumbsup":  "👍",
	"heart":     "❤️",
	"fire":      "🔥",
	"rocket":    "🚀",
	"tada":      "🎉",
	"sparkles":  "✨",
	"check":     "✅",
	"x":         "❌",
	"warning":   "⚠️",
	"eyes":      "👀",
	"thinking":  "🤔",
	"shrug":     "🤷",
	"computer":  "💻",
	"keyboard":  "⌨️",
	"hourglass": "⏳",
}

var shortcodeRe = regexp.MustCompile(`:([a-z0-9_+-]+):`)

// Pack registers the Emoji macro and the :shortcode: rewrite transform.
func Pack(e *engine.Engine, _ map[string]any) error {
	e.RegisterMacros(map[string]engine.Macro{
		"Emoji": {Expand: emojiMacro},
	}, engine.RegisterOptions{Origin: "emoji"})

	e.RegisterTransform(engine.PhasePreExpand, rewriteShortcodes)
	return nil
}

// emojiMacro types the emoji named by its argument. Unknown names fall back
// to the literal text so an incomplete script still produces something.
func emojiMacro(payload, token string, args *engine.Args, ctx *engine.Context) []string {
	name := strings.TrimSpace(payload)
	if name == "" {
		name = strings.TrimSpace(args.Get(1))
	}
	if name == "" {
		return nil
	}
	text, ok := shortcodes[strings.ToLower(name)]
	if !ok {
		text = name
	}
	return []string{"Type " + engine.EscapeLiteral(text)}
}

// rewriteShortcodes replaces known :shortcode: occurrences in one token.
// Unknown shortcodes are left alone.
func rewriteShortcodes(items []string, ctx *engine.Context) []string {
	token := items[0]
	if !strings.Contains(token, ":") {
		return nil
	}
	replaced := shortcodeRe.ReplaceAllStringFunc(token, func(m string) string {
		if emoji, ok := shortcodes[m[1:len(m)-1]]; ok {
			return emoji
		}
		return m
	})
	if replaced == token {
		return nil
	}
	return []string{replaced}
}
