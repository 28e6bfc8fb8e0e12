package anyrun

// Wire types for the ANY.RUN REST API. Only the fields the bot projects
// are declared; everything else in the documents is ignored.

// apiError is the error envelope returned on non-2xx responses.
type apiError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// submitResponse is the envelope for analysis submission.
type submitResponse struct {
	Data struct {
		TaskID string `json:"taskid"`
	} `json:"data"`
}

// reportResponse is the envelope for a single analysis document.
type reportResponse struct {
	Data struct {
		Analysis analysisDoc `json:"analysis"`
	} `json:"data"`
}

type analysisDoc struct {
	UUID         string `json:"uuid"`
	Status       string `json:"status"`
	CreationText string `json:"creationText"`
	Creation     int64  `json:"creation"`
	PermanentURL string `json:"permanentUrl"`

	Scores struct {
		Verdict struct {
			ThreatLevelText string `json:"threatLevelText"`
			ThreatLevel     int    `json:"threatLevel"`
		} `json:"verdict"`
	} `json:"scores"`

	Content struct {
		MainObject struct {
			Type         string `json:"type"`
			Filename     string `json:"filename"`
			URL          string `json:"url"`
			PermanentURL string `json:"permanentUrl"`
			Hashes       struct {
				SHA256 string `json:"sha256"`
			} `json:"hashes"`
		} `json:"mainObject"`
		Video struct {
			PermanentURL string `json:"permanentUrl"`
		} `json:"video"`
		Screenshots []struct {
			PermanentURL string `json:"permanentUrl"`
		} `json:"screenshots"`
		PCAP struct {
			Present      bool   `json:"present"`
			PermanentURL string `json:"permanentUrl"`
		} `json:"pcap"`
	} `json:"content"`

	Reports struct {
		HTML string `json:"HTML"`
		STIX string `json:"STIX"`
		MISP string `json:"MISP"`
		IOC  string `json:"IOC"`
	} `json:"reports"`

	Tags []struct {
		Tag string `json:"tag"`
	} `json:"tags"`
}

// historyResponse is the envelope for the analysis history listing. The
// analyses payload is kept raw so that a non-list shape can be reported as
// a data-shape error instead of a silent zero value.
type historyResponse struct {
	Data struct {
		Analyses []historyDoc `json:"analyses"`
	} `json:"data"`
}

type historyDoc struct {
	UUID    string   `json:"uuid"`
	Verdict string   `json:"verdict"`
	Date    string   `json:"date"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
}

// limitsResponse is the envelope for the user limits document.
type limitsResponse struct {
	Data struct {
		Limits struct {
			API struct {
				Month int `json:"month"`
				Day   int `json:"day"`
				Hour  int `json:"hour"`
			} `json:"api"`
		} `json:"limits"`
	} `json:"data"`
}
