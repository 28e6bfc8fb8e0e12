// Package render formats sandbox reports and history rows for chat
// display.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/markdown"
)

// dateLayout is the human-facing date format.
const dateLayout = "02 January 2006, 15:04"

// unknownDate is the placeholder when a date value does not parse.
// Rendering continues; a bad date never fails the whole message.
const unknownDate = "Unknown date"

// TaskInfo carries the fields shown for one analysis, full report and
// history row alike. Both call sites go through FormatTaskInfo so the
// icon and format rules cannot drift apart.
type TaskInfo struct {
	// Verdict is the upstream threat-level label. VerdictCode is the
	// numeric level; it is consulted when the label is not recognized.
	Verdict     string
	VerdictCode int

	Status models.Status

	// Date is the raw creation value: ISO-8601 text or epoch seconds as
	// digits.
	Date string

	Name string
	UUID string
	Tags []string
}

// FormatTaskInfo renders one analysis as a MarkdownV2 text block: verdict
// icon, bold date, monospaced name and UUID, optional status line for
// unfinished tasks, and a bracketed tag list. All dynamic values are
// escaped.
func FormatTaskInfo(info TaskInfo) string {
	verdict := models.ParseVerdict(info.Verdict)
	if verdict == models.VerdictUnknown {
		verdict = models.VerdictFromCode(info.VerdictCode)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s ***%s***\n", verdict.Icon(), markdown.Escape(FormatDate(info.Date)))
	fmt.Fprintf(&b, "📄 `%s`\n", markdown.Escape(info.Name))
	fmt.Fprintf(&b, "🆔 `%s`\n", markdown.Escape(info.UUID))

	if info.Status.InProgress() {
		fmt.Fprintf(&b, "%s Status: %s\n", info.Status.Icon(), markdown.Escape(capitalize(string(info.Status))))
	}

	if len(info.Tags) > 0 {
		escaped := make([]string, 0, len(info.Tags))
		for _, tag := range info.Tags {
			escaped = append(escaped, "\\["+markdown.Escape(tag)+"\\]")
		}
		fmt.Fprintf(&b, "🏷️ %s", strings.Join(escaped, ", "))
	}

	return strings.TrimSpace(b.String())
}

// Report renders a full report document.
func Report(r *models.Report) string {
	return FormatTaskInfo(TaskInfo{
		Verdict:     r.Verdict,
		VerdictCode: r.VerdictCode,
		Status:      r.Status,
		Date:        r.CreatedAt,
		Name:        r.MainObjectName,
		UUID:        r.UUID,
		Tags:        r.Tags,
	})
}

// HistoryEntry renders one row of the history listing. History rows never
// carry a status; the listing only contains finished analyses.
func HistoryEntry(e models.HistoryEntry) string {
	return FormatTaskInfo(TaskInfo{
		Verdict: e.Verdict,
		// History rows carry no numeric level; -1 keeps the code fallback
		// from resolving an unknown label to the zero tier.
		VerdictCode: -1,
		Date:        e.Date,
		Name:        e.Name,
		UUID:        e.UUID,
		Tags:        e.Tags,
	})
}

// FormatDate formats a raw date value: RFC 3339 text or epoch seconds.
// Anything unparsable degrades to the placeholder.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return unknownDate
	}

	if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(epoch, 0).UTC().Format(dateLayout)
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}

	return unknownDate
}

// APIKeyLine renders one stored key for key-management text: active
// marker, display name, masked preview.
func APIKeyLine(key *models.APIKey) string {
	marker := ""
	if key.IsActive {
		marker = "✅ "
	}
	return fmt.Sprintf("%s%s: %s", marker, key.Name, key.Preview())
}

// UserLine renders one user for the admin listing.
func UserLine(u *models.User) string {
	flags := make([]string, 0, 3)
	if u.IsAdmin {
		flags = append(flags, "admin")
	}
	if u.IsBanned {
		flags = append(flags, "banned")
	}
	if u.IsDeleted {
		flags = append(flags, "deleted")
	}

	line := strconv.FormatInt(u.TelegramID, 10)
	if len(flags) > 0 {
		line += " (" + strings.Join(flags, ", ") + ")"
	}
	return line
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
