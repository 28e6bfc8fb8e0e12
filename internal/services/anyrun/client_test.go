package anyrun_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/anyrun"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *anyrun.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return anyrun.NewClient(&anyrun.ClientConfig{BaseURL: srv.URL})
}

func TestSubmitURL_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analysis", r.URL.Path)
		assert.Equal(t, "API-Key secret-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "url", r.PostForm.Get("obj_type"))
		assert.Equal(t, "https://example.com", r.PostForm.Get("obj_url"))

		w.Write([]byte(`{"error":false,"data":{"taskid":"0cf223f2-530e-4a50-b68f-563045268648"}}`))
	})

	taskID, err := client.SubmitURL(context.Background(), "secret-key", "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, "0cf223f2-530e-4a50-b68f-563045268648", taskID)
}

func TestSubmitURL_UpstreamMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":true,"message":"Daily limit exceeded"}`))
	})

	_, err := client.SubmitURL(context.Background(), "secret-key", "https://example.com")

	require.Error(t, err)
	assert.True(t, domainerrors.IsUpstreamError(err))
	domainErr, _ := domainerrors.GetDomainError(err)
	assert.Equal(t, "Daily limit exceeded", domainErr.UserMessage())
}

func TestSubmitFile_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Equal(t, "file", r.MultipartForm.Value["obj_type"][0])

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sample.exe", header.Filename)

		w.Write([]byte(`{"error":false,"data":{"taskid":"task-1"}}`))
	})

	taskID, err := client.SubmitFile(context.Background(), "secret-key", "sample.exe", strings.NewReader("MZ..."))

	require.NoError(t, err)
	assert.Equal(t, "task-1", taskID)
}

func TestGetReport_Projection(t *testing.T) {
	const payload = `{
		"error": false,
		"data": {
			"analysis": {
				"uuid": "9f0a2a1c-1111-2222-3333-444455556666",
				"status": "completed",
				"creationText": "2024-05-12T14:03:00.000Z",
				"permanentUrl": "https://app.any.run/tasks/9f0a2a1c",
				"scores": {"verdict": {"threatLevelText": "Malicious activity", "threatLevel": 2}},
				"content": {
					"mainObject": {
						"type": "file",
						"filename": "invoice.exe",
						"permanentUrl": "https://content.any.run/sample",
						"hashes": {"sha256": "abc123"}
					},
					"video": {"permanentUrl": "https://content.any.run/video.mp4"},
					"screenshots": [
						{"permanentUrl": "https://content.any.run/s1.png"},
						{"permanentUrl": "https://content.any.run/s2.png"}
					],
					"pcap": {"present": true, "permanentUrl": "https://content.any.run/traffic.pcap"}
				},
				"reports": {"HTML": "https://api.any.run/report/html"},
				"tags": [{"tag": "trojan"}, {"tag": "stealer"}]
			}
		}
	}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analysis/9f0a2a1c-1111-2222-3333-444455556666", r.URL.Path)
		w.Write([]byte(payload))
	})

	report, err := client.GetReport(context.Background(), "secret-key", "9f0a2a1c-1111-2222-3333-444455556666")

	require.NoError(t, err)
	assert.Equal(t, "Malicious activity", report.Verdict)
	assert.Equal(t, 2, report.VerdictCode)
	assert.Equal(t, "invoice.exe", report.MainObjectName)
	assert.Equal(t, "file", report.MainObjectType)
	assert.Equal(t, []string{"trojan", "stealer"}, report.Tags)
	assert.True(t, report.HasVideo())
	assert.True(t, report.HasScreenshots())
	assert.Len(t, report.ScreenshotURLs, 2)
	assert.True(t, report.HasPCAP())
	assert.True(t, report.HasSample())
	assert.Equal(t, "abc123", report.SHA256)
	assert.Equal(t, "https://api.any.run/report/html", report.HTMLReportURL)
}

func TestGetReport_URLObjectName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"analysis":{
			"uuid":"u1",
			"content":{"mainObject":{"type":"url","url":"https://evil.example"}}
		}}}`))
	})

	report, err := client.GetReport(context.Background(), "k", "u1")

	require.NoError(t, err)
	assert.Equal(t, "https://evil.example", report.MainObjectName)
	assert.False(t, report.HasSample())
}

func TestListHistory_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("skip"))
		w.Write([]byte(`{"data":{"analyses":[
			{"uuid":"u1","verdict":"No threats detected","date":"2024-05-12T14:03:00.000Z","name":"a.exe","tags":["clean"]},
			{"uuid":"u2","verdict":"Malicious activity","date":"2024-05-11T10:00:00.000Z","name":"b.exe"}
		]}}`))
	})

	entries, err := client.ListHistory(context.Background(), "secret-key", 10, 20)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u1", entries[0].UUID)
	assert.Equal(t, []string{"clean"}, entries[0].Tags)
	assert.Equal(t, "Malicious activity", entries[1].Verdict)
}

func TestListHistory_NotAList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"analyses":{"unexpected":"object"}}}`))
	})

	_, err := client.ListHistory(context.Background(), "secret-key", 10, 0)

	require.Error(t, err)
	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeDataShape, domainErr.Code)
}

func TestListHistory_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"analyses":null}}`))
	})

	entries, err := client.ListHistory(context.Background(), "secret-key", 10, 0)

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetLimits_Formatting(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		w.Write([]byte(`{"data":{"limits":{"api":{"month":-1,"day":100,"hour":10}}}}`))
	})

	text, err := client.GetLimits(context.Background(), "secret-key")

	require.NoError(t, err)
	assert.Equal(t, "API limits:\nMonth: Unlimited\nDay: 100\nHour: 10", text)
}
