package models

// Verdict is the sandbox risk classification of an analyzed object.
type Verdict int

// Verdict tiers. Anything the upstream sends outside the known labels or
// codes collapses to VerdictUnknown.
const (
	VerdictUnknown Verdict = iota
	VerdictNoThreats
	VerdictSuspicious
	VerdictMalicious
)

// Upstream threat-level labels as returned by the ANY.RUN API.
const (
	labelNoThreats  = "No threats detected"
	labelSuspicious = "Suspicious activity"
	labelMalicious  = "Malicious activity"
)

// ParseVerdict maps an upstream threat-level label to a Verdict.
func ParseVerdict(label string) Verdict {
	switch label {
	case labelNoThreats:
		return VerdictNoThreats
	case labelSuspicious:
		return VerdictSuspicious
	case labelMalicious:
		return VerdictMalicious
	default:
		return VerdictUnknown
	}
}

// VerdictFromCode maps an upstream numeric threat level to a Verdict.
func VerdictFromCode(code int) Verdict {
	switch code {
	case 0:
		return VerdictNoThreats
	case 1:
		return VerdictSuspicious
	case 2:
		return VerdictMalicious
	default:
		return VerdictUnknown
	}
}

// Icon returns the glyph shown for this verdict in rendered messages.
func (v Verdict) Icon() string {
	switch v {
	case VerdictNoThreats:
		return "🔵"
	case VerdictSuspicious:
		return "🟡"
	case VerdictMalicious:
		return "🔴"
	default:
		return "⚪"
	}
}

// String returns the upstream label for the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictNoThreats:
		return labelNoThreats
	case VerdictSuspicious:
		return labelSuspicious
	case VerdictMalicious:
		return labelMalicious
	default:
		return "Unknown"
	}
}

// Status is the lifecycle state of a sandbox task.
type Status string

// Known task statuses.
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Icon returns the glyph shown for this status. Unknown statuses get the
// question-mark glyph rather than an error.
func (s Status) Icon() string {
	switch s {
	case StatusQueued:
		return "⏳"
	case StatusRunning:
		return "▶️"
	case StatusCompleted:
		return "✅"
	case StatusFailed:
		return "❌"
	default:
		return "❓"
	}
}

// InProgress reports whether the task has not finished yet. Only tasks in
// progress get a status line in rendered messages.
func (s Status) InProgress() bool {
	return s == StatusQueued || s == StatusRunning
}

// Report is the projection of an ANY.RUN analysis document that the bot
// reads. It is never persisted; it lives in the session cache only so that
// follow-up actions (video, screenshots) can reuse it without a second
// upstream fetch.
type Report struct {
	UUID        string `json:"uuid"`
	Verdict     string `json:"verdict"`
	VerdictCode int    `json:"verdictCode"`
	Status      Status `json:"status"`

	// CreatedAt is the raw creation value from the upstream document
	// (ISO-8601 string or epoch seconds rendered as digits). Parsing is
	// deferred to the renderer, which degrades to a placeholder.
	CreatedAt string `json:"createdAt"`

	MainObjectName string   `json:"mainObjectName"`
	MainObjectType string   `json:"mainObjectType"`
	Tags           []string `json:"tags,omitempty"`

	PermanentURL   string   `json:"permanentUrl,omitempty"`
	VideoURL       string   `json:"videoUrl,omitempty"`
	ScreenshotURLs []string `json:"screenshotUrls,omitempty"`
	PCAPURL        string   `json:"pcapUrl,omitempty"`

	HTMLReportURL string `json:"htmlReportUrl,omitempty"`
	STIXReportURL string `json:"stixReportUrl,omitempty"`
	MISPReportURL string `json:"mispReportUrl,omitempty"`
	IOCReportURL  string `json:"iocReportUrl,omitempty"`

	SampleURL string `json:"sampleUrl,omitempty"`
	SHA256    string `json:"sha256,omitempty"`
}

// HasVideo reports whether a recorded analysis video is available.
func (r *Report) HasVideo() bool { return r.VideoURL != "" }

// HasScreenshots reports whether captured screenshots are available.
func (r *Report) HasScreenshots() bool { return len(r.ScreenshotURLs) > 0 }

// HasPCAP reports whether a network capture is available for download.
func (r *Report) HasPCAP() bool { return r.PCAPURL != "" }

// HasSample reports whether the analyzed sample itself can be downloaded.
// Only file analyses expose a sample.
func (r *Report) HasSample() bool { return r.MainObjectType == "file" && r.SampleURL != "" }

// HistoryEntry is one abbreviated row of the analysis history listing.
type HistoryEntry struct {
	UUID    string   `json:"uuid"`
	Verdict string   `json:"verdict"`
	Date    string   `json:"date"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags,omitempty"`
}
