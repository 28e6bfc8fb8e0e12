package telegram

// Wire types for the Telegram Bot API. Only the fields the bot consumes
// are declared.

// Update is one inbound event pushed to the webhook.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is an inbound or outbound chat message.
type Message struct {
	MessageID int64     `json:"message_id"`
	From      *User     `json:"from,omitempty"`
	Chat      Chat      `json:"chat"`
	Text      string    `json:"text,omitempty"`
	Document  *Document `json:"document,omitempty"`
}

// User is a Telegram account.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat is a conversation: private chat, group, supergroup, or channel.
type Chat struct {
	ID         int64  `json:"id"`
	Type       string `json:"type,omitempty"`
	Title      string `json:"title,omitempty"`
	Username   string `json:"username,omitempty"`
	InviteLink string `json:"invite_link,omitempty"`
}

// CallbackQuery is a button press on an inline keyboard.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// Document is an attached file.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// File is the download handle resolved from a file ID.
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// ChatMember describes a user's standing in a chat.
type ChatMember struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

// Member statuses that count as belonging to a chat.
const (
	MemberStatusCreator       = "creator"
	MemberStatusAdministrator = "administrator"
	MemberStatusMember        = "member"
)

// IsMember reports whether the status counts as current membership.
func (m *ChatMember) IsMember() bool {
	switch m.Status {
	case MemberStatusCreator, MemberStatusAdministrator, MemberStatusMember:
		return true
	default:
		return false
	}
}

// InlineKeyboardMarkup is an inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is one button. Exactly one of CallbackData or URL
// is set.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InputMediaPhoto is one photo of a media group.
type InputMediaPhoto struct {
	Type    string `json:"type"`
	Media   string `json:"media"`
	Caption string `json:"caption,omitempty"`
}

// ParseModeMarkdownV2 selects Telegram's MarkdownV2 rich-text dialect.
const ParseModeMarkdownV2 = "MarkdownV2"

// SendMessageParams are the parameters for SendMessage.
type SendMessageParams struct {
	ChatID                int64                 `json:"chat_id"`
	Text                  string                `json:"text"`
	ParseMode             string                `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// EditMessageTextParams are the parameters for EditMessageText.
type EditMessageTextParams struct {
	ChatID      int64                 `json:"chat_id"`
	MessageID   int64                 `json:"message_id"`
	Text        string                `json:"text"`
	ParseMode   string                `json:"parse_mode,omitempty"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// SendVideoParams are the parameters for SendVideo.
type SendVideoParams struct {
	ChatID            int64  `json:"chat_id"`
	Video             string `json:"video"`
	Caption           string `json:"caption,omitempty"`
	SupportsStreaming bool   `json:"supports_streaming,omitempty"`
}
