package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/markdown"
)

func TestEscape_ReservedCharacters(t *testing.T) {
	assert.Equal(t, `file\_name\.exe`, markdown.Escape("file_name.exe"))
	assert.Equal(t, `\*bold\*`, markdown.Escape("*bold*"))
	assert.Equal(t, `\[tag\]`, markdown.Escape("[tag]"))
	assert.Equal(t, `a\\b`, markdown.Escape(`a\b`))
	assert.Equal(t, `\~\>\#\+\-\=\|\{\}\!`, markdown.Escape("~>#+-=|{}!"))
}

func TestEscape_PlainTextUntouched(t *testing.T) {
	assert.Equal(t, "hello world", markdown.Escape("hello world"))
	assert.Equal(t, "кириллица", markdown.Escape("кириллица"))
}

func TestEscape_Empty(t *testing.T) {
	assert.Equal(t, "", markdown.Escape(""))
}

func TestEscape_RoundTrip(t *testing.T) {
	inputs := []string{
		"plain text",
		"file_name (1).exe",
		`back\slash`,
		"https://app.any.run/tasks/0cf223f2",
		"12 May 2024, 14:03",
		"tag-with-dash.and.dots!",
		"*_[]()~`>#+-=|{}.!",
	}

	for _, in := range inputs {
		assert.Equal(t, in, markdown.Unescape(markdown.Escape(in)), "round-trip failed for %q", in)
	}
}
