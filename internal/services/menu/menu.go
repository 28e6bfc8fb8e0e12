// Package menu builds the bot's inline keyboards from a static screen
// table. Building is pure: the same screen and context always produce
// the same keyboard, and nothing here performs I/O.
package menu

import (
	"strconv"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// Screen identifies one keyboard layout.
type Screen string

// Screens.
const (
	ScreenMain         Screen = "main"
	ScreenSandbox      Screen = "sandbox"
	ScreenSettings     Screen = "settings"
	ScreenManageKeys   Screen = "manage_keys"
	ScreenReportDetail Screen = "report_detail"
	ScreenAdminPanel   Screen = "admin_panel"
	ScreenManageUsers  Screen = "manage_users"
	ScreenAccessRights Screen = "access_rights"
	ScreenHistory      Screen = "history"
)

// Exact callback actions the router matches by full string.
const (
	CallbackMainMenu     = "main_menu"
	CallbackSandboxAPI   = "sandbox_api"
	CallbackSettings     = "settings"
	CallbackManageAPIKey = "manage_api_key"

	CallbackRunURLAnalysis  = "run_url_analysis"
	CallbackRunFileAnalysis = "run_file_analysis"
	CallbackGetReportByUUID = "get_report_by_uuid"
	CallbackShowHistory     = "show_history"
	CallbackShowAPILimits   = "show_api_limits"

	CallbackShowHistoryPrevious = "show_history_previous"
	CallbackShowHistoryNext     = "show_history_next"

	CallbackAddAPIKey      = "add_api_key"
	CallbackDeleteAPIKey   = "delete_api_key"
	CallbackRenameAPIKey   = "rename_api_key"
	CallbackActivateAPIKey = "activate_api_key"

	CallbackShowRecordedVideo       = "show_recorded_video"
	CallbackShowCapturedScreenshots = "show_captured_screenshots"

	CallbackAdminPanel        = "admin_panel"
	CallbackManageUsers       = "manage_users"
	CallbackBanUser           = "ban_user"
	CallbackUnbanUser         = "unban_user"
	CallbackDeleteUser        = "delete_user"
	CallbackCheckAccessRights = "check_access_rights"
	CallbackCheckBotGroups    = "check_bot_groups"
)

// Prefix callback actions. The router tries the exact table first, so
// "delete_api_key" never reaches the "delete_" prefix branch.
const (
	PrefixDeleteKey   = "delete_"
	PrefixRenameKey   = "rename_"
	PrefixActivateKey = "activate_"
	PrefixGroupInfo   = "group_info_"
)

// KeyAction selects which per-key picker ScreenManageKeys renders.
type KeyAction string

// Per-key picker actions.
const (
	KeyActionNone     KeyAction = ""
	KeyActionDelete   KeyAction = "delete"
	KeyActionRename   KeyAction = "rename"
	KeyActionActivate KeyAction = "activate"
)

// Group is one required group's standing for the access-rights screen.
type Group struct {
	ID         int64
	Title      string
	Member     bool
	InviteLink string
}

// Context carries the per-chat state keyboards are gated on.
type Context struct {
	IsAdmin bool

	// Report is the chat's cached report; drives the conditional rows of
	// the report-detail screen.
	Report *models.Report

	// Keys populates the per-key picker rows.
	Keys []*models.APIKey

	// KeyAction selects the picker the key rows dispatch to.
	KeyAction KeyAction

	// Groups populates the access-rights screen.
	Groups []Group
}

func btn(text, callback string) telegram.InlineKeyboardButton {
	return telegram.InlineKeyboardButton{Text: text, CallbackData: callback}
}

func back(target string) []telegram.InlineKeyboardButton {
	return []telegram.InlineKeyboardButton{btn("⬅️ Back", target)}
}

// Build returns the keyboard for a screen. Unknown screens produce the
// main menu so a stale callback always lands somewhere valid.
func Build(screen Screen, vctx Context) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton

	switch screen {
	case ScreenSandbox:
		rows = [][]telegram.InlineKeyboardButton{
			{btn("🔗 Analyze URL", CallbackRunURLAnalysis)},
			{btn("📎 Analyze file", CallbackRunFileAnalysis)},
			{btn("📄 Get report by UUID", CallbackGetReportByUUID)},
			{btn("🗂 Analysis history", CallbackShowHistory)},
			{btn("📊 API limits", CallbackShowAPILimits)},
			back(CallbackMainMenu),
		}

	case ScreenSettings:
		rows = [][]telegram.InlineKeyboardButton{
			{btn("🔑 Manage API keys", CallbackManageAPIKey)},
			{btn("🛂 Access rights", CallbackCheckAccessRights)},
		}
		if vctx.IsAdmin {
			rows = append(rows, []telegram.InlineKeyboardButton{btn("🛠 Admin panel", CallbackAdminPanel)})
		}
		rows = append(rows, back(CallbackMainMenu))

	case ScreenManageKeys:
		if vctx.KeyAction == KeyActionNone {
			rows = [][]telegram.InlineKeyboardButton{
				{btn("➕ Add API key", CallbackAddAPIKey)},
				{btn("🗑 Delete API key", CallbackDeleteAPIKey)},
				{btn("✏️ Rename API key", CallbackRenameAPIKey)},
				{btn("✅ Activate API key", CallbackActivateAPIKey)},
				back(CallbackSettings),
			}
			break
		}
		for _, key := range vctx.Keys {
			label := key.Name + ": " + key.Preview()
			if key.IsActive {
				label = "✅ " + label
			}
			rows = append(rows, []telegram.InlineKeyboardButton{
				btn(label, string(vctx.KeyAction)+"_"+key.Key),
			})
		}
		rows = append(rows, back(CallbackManageAPIKey))

	case ScreenReportDetail:
		if r := vctx.Report; r != nil {
			if r.HasVideo() {
				rows = append(rows, []telegram.InlineKeyboardButton{btn("🎬 Recorded video", CallbackShowRecordedVideo)})
			}
			if r.HasScreenshots() {
				rows = append(rows, []telegram.InlineKeyboardButton{btn("🖼 Captured screenshots", CallbackShowCapturedScreenshots)})
			}
			if r.HasSample() {
				rows = append(rows, []telegram.InlineKeyboardButton{{Text: "📦 Download sample", URL: r.SampleURL}})
			}
			if r.HasPCAP() {
				rows = append(rows, []telegram.InlineKeyboardButton{{Text: "🌐 Network capture", URL: r.PCAPURL}})
			}
			if r.PermanentURL != "" {
				rows = append(rows, []telegram.InlineKeyboardButton{{Text: "🔬 Open in sandbox", URL: r.PermanentURL}})
			}
			artifacts := []struct {
				label string
				url   string
			}{
				{"📑 HTML report", r.HTMLReportURL},
				{"🧾 STIX report", r.STIXReportURL},
				{"🗃 MISP report", r.MISPReportURL},
				{"🧬 IOC report", r.IOCReportURL},
			}
			for _, a := range artifacts {
				if a.url != "" {
					rows = append(rows, []telegram.InlineKeyboardButton{{Text: a.label, URL: a.url}})
				}
			}
		}
		rows = append(rows, back(CallbackSandboxAPI))

	case ScreenAdminPanel:
		rows = [][]telegram.InlineKeyboardButton{
			{btn("👥 Manage users", CallbackManageUsers)},
			{btn("👁 Bot group standing", CallbackCheckBotGroups)},
			back(CallbackSettings),
		}

	case ScreenManageUsers:
		rows = [][]telegram.InlineKeyboardButton{
			{btn("🚫 Ban user", CallbackBanUser)},
			{btn("♻️ Unban user", CallbackUnbanUser)},
			{btn("🗑 Delete user", CallbackDeleteUser)},
			back(CallbackAdminPanel),
		}

	case ScreenAccessRights:
		for _, g := range vctx.Groups {
			icon := "❌"
			if g.Member {
				icon = "✅"
			}
			title := g.Title
			if title == "" {
				title = strconv.FormatInt(g.ID, 10)
			}
			button := telegram.InlineKeyboardButton{Text: icon + " " + title}
			if g.InviteLink != "" {
				button.URL = g.InviteLink
			} else {
				button.CallbackData = PrefixGroupInfo + strconv.FormatInt(g.ID, 10)
			}
			rows = append(rows, []telegram.InlineKeyboardButton{button})
		}
		rows = append(rows, back(CallbackSettings))

	case ScreenHistory:
		rows = [][]telegram.InlineKeyboardButton{
			{
				btn("⬅️ Previous", CallbackShowHistoryPrevious),
				btn("Next ➡️", CallbackShowHistoryNext),
			},
			back(CallbackSandboxAPI),
		}

	default: // ScreenMain and anything unrecognized
		rows = [][]telegram.InlineKeyboardButton{
			{btn("🧪 Sandbox API", CallbackSandboxAPI)},
			{btn("⚙️ Settings", CallbackSettings)},
		}
	}

	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}
