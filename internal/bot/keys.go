package bot

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// keyNameAllowed strips everything except word characters, spaces, tabs,
// and hyphens from a key display name.
var keyNameAllowed = regexp.MustCompile(`[^\w \t-]`)

// splitKeyInput splits "key [name...]" on the first whitespace run. The
// name part goes through normalizeKeyName.
func splitKeyInput(text string) (key, name string) {
	text = strings.TrimSpace(text)
	cut := strings.IndexFunc(text, unicode.IsSpace)
	if cut < 0 {
		return text, normalizeKeyName("")
	}
	return text[:cut], normalizeKeyName(text[cut:])
}

// normalizeKeyName sanitizes a user-supplied key name. An absent name
// gets a timestamped default; a name that sanitizes away entirely gets a
// fixed fallback.
func normalizeKeyName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "New API Key " + time.Now().Format("2006-01-02 15:04")
	}
	cleaned := strings.TrimSpace(keyNameAllowed.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return "Unnamed Key"
	}
	return cleaned
}
