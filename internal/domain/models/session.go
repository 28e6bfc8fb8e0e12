package models

import (
	"strconv"
	"time"
)

// PendingInput tags the next plain-text message expected from a chat. At
// most one expectation is pending per chat; consuming it clears it no
// matter what the consuming handler does.
type PendingInput string

// Pending input tags.
const (
	PendingNone            PendingInput = ""
	PendingReportUUID      PendingInput = "report_uuid"
	PendingAnalysisURL     PendingInput = "analysis_url"
	PendingNewAPIKey       PendingInput = "new_api_key"
	PendingRenameAPIKey    PendingInput = "rename_api_key"
	PendingAdminUserAction PendingInput = "admin_user_action"
)

// Admin user actions routed through PendingAdminUserAction.
const (
	AdminActionBan    = "ban"
	AdminActionUnban  = "unban"
	AdminActionDelete = "delete"
)

// SessionState is the per-chat mutable state: the single pending-input
// slot, the history paging offset, and the last fetched report. It is
// scoped to one chat, so concurrent chats never share it.
type SessionState struct {
	ChatID  int64        `json:"chatId"`
	Pending PendingInput `json:"pending,omitempty"`

	// RenameKeyID carries the target key ID while PendingRenameAPIKey
	// is set.
	RenameKeyID string `json:"renameKeyId,omitempty"`

	// AdminAction carries the pending moderation action (ban, unban,
	// delete) while PendingAdminUserAction is set.
	AdminAction string `json:"adminAction,omitempty"`

	HistorySkip int     `json:"historySkip"`
	Report      *Report `json:"report,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionKey generates the cache key for a chat session.
func SessionKey(chatID int64) string {
	return "session:" + strconv.FormatInt(chatID, 10)
}
