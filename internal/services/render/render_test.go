package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "rfc3339", raw: "2024-03-05T14:30:00Z", want: "05 March 2024, 14:30"},
		{name: "rfc3339 nanos", raw: "2024-03-05T14:30:00.123Z", want: "05 March 2024, 14:30"},
		{name: "no zone", raw: "2024-03-05T14:30:00", want: "05 March 2024, 14:30"},
		{name: "epoch seconds", raw: "1709649000", want: "05 March 2024, 14:30"},
		{name: "empty", raw: "", want: "Unknown date"},
		{name: "garbage", raw: "yesterday", want: "Unknown date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.raw))
		})
	}
}

func TestFormatTaskInfo(t *testing.T) {
	out := FormatTaskInfo(TaskInfo{
		Verdict: "Malicious activity",
		Status:  models.StatusCompleted,
		Date:    "2024-03-05T14:30:00Z",
		Name:    "invoice.exe",
		UUID:    "9d0c8e31-2f5a-4a8e-9c1e-5d1f2a3b4c5d",
		Tags:    []string{"trojan", "evasion"},
	})

	assert.Contains(t, out, "🔴")
	assert.Contains(t, out, "05 March 2024, 14:30")
	assert.Contains(t, out, "`invoice\\.exe`")
	assert.Contains(t, out, "`9d0c8e31\\-2f5a\\-4a8e\\-9c1e\\-5d1f2a3b4c5d`")
	assert.Contains(t, out, "\\[trojan\\], \\[evasion\\]")
	// Finished tasks carry no status line.
	assert.NotContains(t, out, "Status:")
}

func TestFormatTaskInfoInProgress(t *testing.T) {
	out := FormatTaskInfo(TaskInfo{
		Verdict: "No threats detected",
		Status:  models.StatusRunning,
		Date:    "2024-03-05T14:30:00Z",
		Name:    "sample.bin",
		UUID:    "u-1",
	})

	assert.Contains(t, out, "▶️ Status: Running")
	assert.Contains(t, out, "🔵")
}

func TestFormatTaskInfoVerdictFallbacks(t *testing.T) {
	// Unrecognized label falls back to the numeric level.
	out := FormatTaskInfo(TaskInfo{Verdict: "Weird label", VerdictCode: 1, Name: "x", UUID: "u"})
	assert.Contains(t, out, "🟡")

	// Nothing recognized renders the neutral icon, never an error.
	out = FormatTaskInfo(TaskInfo{Verdict: "Weird label", VerdictCode: 42, Name: "x", UUID: "u"})
	assert.Contains(t, out, "⚪")
}

func TestFormatTaskInfoUnknownDate(t *testing.T) {
	out := FormatTaskInfo(TaskInfo{Verdict: "Suspicious activity", Date: "not-a-date", Name: "x", UUID: "u"})
	assert.Contains(t, out, "Unknown date")
}

func TestFormatTaskInfoNoTags(t *testing.T) {
	out := FormatTaskInfo(TaskInfo{Verdict: "No threats detected", Name: "x", UUID: "u"})
	assert.NotContains(t, out, "🏷️")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestHistoryEntryMatchesReportLayout(t *testing.T) {
	entry := models.HistoryEntry{
		UUID: "u-1", Verdict: "Malicious activity",
		Date: "2024-03-05T14:30:00Z", Name: "a.exe", Tags: []string{"t"},
	}
	report := &models.Report{
		UUID: "u-1", Verdict: "Malicious activity", Status: models.StatusCompleted,
		CreatedAt: "2024-03-05T14:30:00Z", MainObjectName: "a.exe", Tags: []string{"t"},
	}

	assert.Equal(t, Report(report), HistoryEntry(entry))
}

func TestAPIKeyLine(t *testing.T) {
	active := &models.APIKey{Name: "Work key", Key: "abcdef0123456789ZYXWVU", IsActive: true}
	assert.Equal(t, "✅ Work key: abcdef...ZYXWVU", APIKeyLine(active))

	spare := &models.APIKey{Name: "Spare", Key: "short"}
	assert.Equal(t, "Spare: short", APIKeyLine(spare))
}

func TestUserLine(t *testing.T) {
	assert.Equal(t, "42", UserLine(&models.User{TelegramID: 42}))
	assert.Equal(t, "42 (admin, banned)", UserLine(&models.User{TelegramID: 42, IsAdmin: true, IsBanned: true}))
}
