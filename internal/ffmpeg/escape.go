package ffmpeg

import "strings"

// EscapeText escapes untrusted overlay text for embedding inside a quoted
// drawtext argument. Backslash must go first so it does not re-escape the
// other replacements; colon is the filter key/value separator and must never
// reach the engine unescaped.
func EscapeText(raw string) string {
	s := strings.ReplaceAll(raw, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	return s
}
