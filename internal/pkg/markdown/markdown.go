// Package markdown provides escaping for Telegram MarkdownV2 text.
package markdown

import "strings"

// reserved is the set of characters MarkdownV2 treats as markup. Every
// occurrence in dynamic text must be backslash-escaped before the text is
// embedded in a formatted message.
const reserved = `\_*[]()~` + "`" + `>#+-=|{}.!`

var escaper *strings.Replacer

func init() {
	pairs := make([]string, 0, 2*len(reserved))
	for _, r := range reserved {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	escaper = strings.NewReplacer(pairs...)
}

// Escape returns s with every reserved MarkdownV2 character prefixed by a
// backslash. Static text authored by the bot is exempt; everything sourced
// dynamically (filenames, tags, UUIDs, dates) goes through here. Empty
// input yields empty output.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return escaper.Replace(s)
}

// Unescape removes escape markers, reconstructing the original text. Used
// in tests to verify the round-trip property.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte(reserved, s[i+1]) >= 0 {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
