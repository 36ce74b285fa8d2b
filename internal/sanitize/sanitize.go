// Package sanitize cleans clinical text for safe local handling. The audit
// trail stores short previews of submitted notes; those previews must be
// single-line, ASCII-only, and free of the typographic characters that
// word processors leave in pasted casenotes.
package sanitize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// replacer maps the problematic Unicode characters commonly found in
// clinical notes to plain ASCII equivalents.
var replacer = strings.NewReplacer(
	// Dashes
	"‐", "-", "–", "-", "—", "-", "−", "-",
	// Math symbols
	"×", "x", "÷", "/", "±", "+/-",
	// Superscripts
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	// Subscripts
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
	// Temperature/degrees
	"°", " degrees ", "℃", "C", "℉", "F",
	// Quotes
	"“", `"`, "”", `"`, "‘", "'", "’", "'", "`", "'",
	// Bullets
	"•", "-", "·", "-", "●", "-", "○", "-",
	// Whitespace
	" ", " ", " ", " ", "​", "",
	// Other
	"…", "...", "™", "", "®", "", "©", "",
)

// Sanitize applies the replacement table and maps any remaining character
// outside latin-1 to a space. This mirrors what the service does to text
// before embedding it.
func Sanitize(text string) string {
	replaced := replacer.Replace(text)

	var b strings.Builder
	b.Grow(len(replaced))
	for _, r := range replaced {
		if r < 256 {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Preview produces a single-line, ASCII-only excerpt of at most max bytes,
// suitable for list display and the audit trail. Compatibility characters
// the replacement table misses are folded via NFKC before the cutoff.
func Preview(text string, max int) string {
	replaced := replacer.Replace(text)
	folded := norm.NFKC.String(replaced)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == ' ' || (r > 32 && r < 127):
			b.WriteRune(r)
		default:
			// Control characters, newlines and anything non-ASCII
			b.WriteRune(' ')
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")

	if max > 3 && len(collapsed) > max {
		return collapsed[:max-3] + "..."
	}
	return collapsed
}
