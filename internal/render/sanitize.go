package render

import "strings"

// The core PDF fonts only cover cp1252; typographic characters LLMs like
// to emit (em-dashes, curly quotes, unicode bullets) would come out as
// black boxes. Map them to ASCII before layout.
var sanitizer = strings.NewReplacer(
	"–", "-", // en-dash
	"—", "-", // em-dash
	"―", "-", // horizontal bar
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"•", "-", // bullet
	"…", "...", // ellipsis
	" ", " ", // non-breaking space
	"​", "", // zero-width space
	"­", "-", // soft hyphen
	"\uFEFF", "", // BOM
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"─", "-", // box drawing horizontal
	"▪", "-", // black small square
	"►", "-", // black right-pointing pointer
	"●", "-", // black circle
)

func sanitizeText(s string) string {
	return sanitizer.Replace(s)
}
