// Package anyrun provides the ANY.RUN sandbox API client.
package anyrun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

// DefaultBaseURL is the production ANY.RUN API endpoint.
const DefaultBaseURL = "https://api.any.run/v1"

// API defines the sandbox operations the bot performs. Authentication is a
// static per-request header carrying the caller's API key.
type API interface {
	// SubmitURL submits a URL for analysis and returns the task UUID.
	SubmitURL(ctx context.Context, apiKey, target string) (string, error)

	// SubmitFile submits file content for analysis and returns the task
	// UUID.
	SubmitFile(ctx context.Context, apiKey, filename string, content io.Reader) (string, error)

	// GetReport fetches a single analysis document by UUID.
	GetReport(ctx context.Context, apiKey, uuid string) (*models.Report, error)

	// ListHistory fetches a page of abbreviated analysis summaries.
	ListHistory(ctx context.Context, apiKey string, limit, skip int) ([]models.HistoryEntry, error)

	// GetLimits fetches the caller's API usage limits as display text.
	GetLimits(ctx context.Context, apiKey string) (string, error)
}

// ClientConfig holds the configuration for the ANY.RUN client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements the API interface against the ANY.RUN REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new ANY.RUN API client.
func NewClient(cfg *ClientConfig) *Client {
	baseURL := DefaultBaseURL
	timeout := 30 * time.Second
	var httpClient *http.Client

	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		httpClient = cfg.HTTPClient
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SubmitURL submits a URL for analysis.
func (c *Client) SubmitURL(ctx context.Context, apiKey, target string) (string, error) {
	form := url.Values{}
	form.Set("obj_type", "url")
	form.Set("obj_url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analysis", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result submitResponse
	if err := c.do(req, apiKey, &result); err != nil {
		return "", err
	}
	return result.Data.TaskID, nil
}

// SubmitFile submits file content for analysis via a multipart request.
func (c *Client) SubmitFile(ctx context.Context, apiKey, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("obj_type", "file"); err != nil {
		return "", fmt.Errorf("failed to write form field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analysis", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result submitResponse
	if err := c.do(req, apiKey, &result); err != nil {
		return "", err
	}
	return result.Data.TaskID, nil
}

// GetReport fetches a single analysis document and projects it onto the
// domain model.
func (c *Client) GetReport(ctx context.Context, apiKey, uuid string) (*models.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/analysis/"+uuid, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result reportResponse
	if err := c.do(req, apiKey, &result); err != nil {
		return nil, err
	}

	return projectReport(&result.Data.Analysis), nil
}

// ListHistory fetches a page of analysis summaries.
func (c *Client) ListHistory(ctx context.Context, apiKey string, limit, skip int) ([]models.HistoryEntry, error) {
	endpoint := fmt.Sprintf("%s/analysis?limit=%d&skip=%d", c.baseURL, limit, skip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Decode in two steps so a non-list analyses payload surfaces as a
	// data-shape error, not a silent empty page.
	var envelope struct {
		Data struct {
			Analyses json.RawMessage `json:"analyses"`
		} `json:"data"`
	}
	if err := c.do(req, apiKey, &envelope); err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(envelope.Data.Analyses)
	if len(raw) == 0 || string(raw) == "null" {
		return []models.HistoryEntry{}, nil
	}
	if raw[0] != '[' {
		return nil, domainerrors.NewDataShapeError("Unexpected history format received.", "analyses is not a list")
	}

	var docs []historyDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, domainerrors.NewDataShapeError("Unexpected history format received.", err.Error())
	}

	entries := make([]models.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.HistoryEntry{
			UUID:    d.UUID,
			Verdict: d.Verdict,
			Date:    d.Date,
			Name:    d.Name,
			Tags:    d.Tags,
		})
	}
	return entries, nil
}

// GetLimits fetches the caller's API usage limits and formats them for
// display. A limit of -1 means unlimited.
func (c *Client) GetLimits(ctx context.Context, apiKey string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var result limitsResponse
	if err := c.do(req, apiKey, &result); err != nil {
		return "", err
	}

	api := result.Data.Limits.API
	return fmt.Sprintf("API limits:\nMonth: %s\nDay: %s\nHour: %s",
		formatLimit(api.Month), formatLimit(api.Day), formatLimit(api.Hour)), nil
}

// do executes a request with the API-Key auth header and decodes the
// response. Non-2xx responses and transport failures become upstream
// errors carrying the upstream message when one parses.
func (c *Client) do(req *http.Request, apiKey string, out interface{}) error {
	req.Header.Set("Authorization", "API-Key "+apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainerrors.NewUpstreamError("Sandbox service is unreachable.", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domainerrors.NewUpstreamError("Failed to read sandbox response.", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return domainerrors.NewUpstreamError(apiErr.Message, nil)
		}
		return domainerrors.NewUpstreamError(
			"Sandbox request failed with status "+strconv.Itoa(resp.StatusCode)+".", nil)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domainerrors.NewDataShapeError("Unexpected sandbox response format.", err.Error())
	}
	return nil
}

// projectReport maps the upstream analysis document onto the fixed
// projection the bot renders.
func projectReport(doc *analysisDoc) *models.Report {
	report := &models.Report{
		UUID:           doc.UUID,
		Verdict:        doc.Scores.Verdict.ThreatLevelText,
		VerdictCode:    doc.Scores.Verdict.ThreatLevel,
		Status:         models.Status(doc.Status),
		CreatedAt:      doc.CreationText,
		MainObjectType: doc.Content.MainObject.Type,
		PermanentURL:   doc.PermanentURL,
		VideoURL:       doc.Content.Video.PermanentURL,
		HTMLReportURL:  doc.Reports.HTML,
		STIXReportURL:  doc.Reports.STIX,
		MISPReportURL:  doc.Reports.MISP,
		IOCReportURL:   doc.Reports.IOC,
		SHA256:         doc.Content.MainObject.Hashes.SHA256,
	}

	if report.CreatedAt == "" && doc.Creation > 0 {
		report.CreatedAt = strconv.FormatInt(doc.Creation, 10)
	}

	if doc.Content.MainObject.Type == "file" {
		report.MainObjectName = doc.Content.MainObject.Filename
		report.SampleURL = doc.Content.MainObject.PermanentURL
	} else {
		report.MainObjectName = doc.Content.MainObject.URL
	}
	if report.MainObjectName == "" {
		report.MainObjectName = "Unknown"
	}

	for _, s := range doc.Content.Screenshots {
		if s.PermanentURL != "" {
			report.ScreenshotURLs = append(report.ScreenshotURLs, s.PermanentURL)
		}
	}
	if doc.Content.PCAP.Present {
		report.PCAPURL = doc.Content.PCAP.PermanentURL
	}
	for _, t := range doc.Tags {
		if t.Tag != "" {
			report.Tags = append(report.Tags, t.Tag)
		}
	}

	return report
}

func formatLimit(v int) string {
	if v < 0 {
		return "Unlimited"
	}
	return strconv.Itoa(v)
}
