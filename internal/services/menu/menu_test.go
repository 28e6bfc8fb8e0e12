package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

func flatten(s Screen, vctx Context) []string {
	markup := Build(s, vctx)
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != "" {
				out = append(out, b.CallbackData)
			} else {
				out = append(out, "url:"+b.URL)
			}
		}
	}
	return out
}

func TestBuildIsPure(t *testing.T) {
	vctx := Context{IsAdmin: true}
	assert.Equal(t, Build(ScreenSettings, vctx), Build(ScreenSettings, vctx))
}

func TestMainScreen(t *testing.T) {
	actions := flatten(ScreenMain, Context{})
	assert.Equal(t, []string{CallbackSandboxAPI, CallbackSettings}, actions)
}

func TestUnknownScreenFallsBackToMain(t *testing.T) {
	assert.Equal(t, Build(ScreenMain, Context{}), Build(Screen("bogus"), Context{}))
}

func TestSettingsAdminGate(t *testing.T) {
	assert.NotContains(t, flatten(ScreenSettings, Context{}), CallbackAdminPanel)
	assert.Contains(t, flatten(ScreenSettings, Context{IsAdmin: true}), CallbackAdminPanel)
}

func TestEveryNonRootScreenHasBack(t *testing.T) {
	screens := []Screen{
		ScreenSandbox, ScreenSettings, ScreenManageKeys, ScreenReportDetail,
		ScreenAdminPanel, ScreenManageUsers, ScreenAccessRights, ScreenHistory,
	}
	targets := map[Screen]string{
		ScreenSandbox:      CallbackMainMenu,
		ScreenSettings:     CallbackMainMenu,
		ScreenManageKeys:   CallbackSettings,
		ScreenReportDetail: CallbackSandboxAPI,
		ScreenAdminPanel:   CallbackSettings,
		ScreenManageUsers:  CallbackAdminPanel,
		ScreenAccessRights: CallbackSettings,
		ScreenHistory:      CallbackSandboxAPI,
	}
	for _, s := range screens {
		markup := Build(s, Context{})
		require.NotEmpty(t, markup.InlineKeyboard, s)
		last := markup.InlineKeyboard[len(markup.InlineKeyboard)-1]
		require.Len(t, last, 1, s)
		assert.Equal(t, targets[s], last[0].CallbackData, s)
	}
}

func TestKeyPickerRows(t *testing.T) {
	keys := []*models.APIKey{
		{Name: "First", Key: "aaaaaa000000zzzzzz", IsActive: true},
		{Name: "Second", Key: "bbbbbb111111yyyyyy"},
	}
	markup := Build(ScreenManageKeys, Context{Keys: keys, KeyAction: KeyActionActivate})

	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "✅ First: aaaaaa...zzzzzz", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "activate_aaaaaa000000zzzzzz", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "Second: bbbbbb...yyyyyy", markup.InlineKeyboard[1][0].Text)
	assert.Equal(t, "delete_bbbbbb111111yyyyyy",
		Build(ScreenManageKeys, Context{Keys: keys[1:], KeyAction: KeyActionDelete}).InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CallbackManageAPIKey, markup.InlineKeyboard[2][0].CallbackData)
}

func TestManageKeysRootScreen(t *testing.T) {
	actions := flatten(ScreenManageKeys, Context{})
	assert.Equal(t, []string{
		CallbackAddAPIKey, CallbackDeleteAPIKey, CallbackRenameAPIKey,
		CallbackActivateAPIKey, CallbackSettings,
	}, actions)
}

func TestReportDetailConditionalRows(t *testing.T) {
	bare := flatten(ScreenReportDetail, Context{Report: &models.Report{}})
	assert.Equal(t, []string{CallbackSandboxAPI}, bare)

	full := &models.Report{
		MainObjectType: "file",
		VideoURL:       "https://content.any.run/video",
		ScreenshotURLs: []string{"https://content.any.run/s1"},
		SampleURL:      "https://content.any.run/sample",
		PCAPURL:        "https://content.any.run/pcap",
		PermanentURL:   "https://app.any.run/tasks/u-1",
		HTMLReportURL:  "https://api.any.run/report/u-1/summary/html",
	}
	actions := flatten(ScreenReportDetail, Context{Report: full})
	assert.Equal(t, []string{
		CallbackShowRecordedVideo,
		CallbackShowCapturedScreenshots,
		"url:https://content.any.run/sample",
		"url:https://content.any.run/pcap",
		"url:https://app.any.run/tasks/u-1",
		"url:https://api.any.run/report/u-1/summary/html",
		CallbackSandboxAPI,
	}, actions)
}

func TestReportDetailSampleRequiresFileObject(t *testing.T) {
	urlReport := &models.Report{MainObjectType: "url", SampleURL: "https://content.any.run/sample"}
	assert.NotContains(t, flatten(ScreenReportDetail, Context{Report: urlReport}), "url:https://content.any.run/sample")
}

func TestAccessRightsRows(t *testing.T) {
	ctx := Context{Groups: []Group{
		{ID: -100, Title: "Analysts", Member: true, InviteLink: "https://t.me/+abc"},
		{ID: -200, Member: false},
	}}
	markup := Build(ScreenAccessRights, ctx)

	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "✅ Analysts", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "https://t.me/+abc", markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, "❌ -200", markup.InlineKeyboard[1][0].Text)
	assert.Equal(t, "group_info_-200", markup.InlineKeyboard[1][0].CallbackData)
}

func TestHistoryScreen(t *testing.T) {
	actions := flatten(ScreenHistory, Context{})
	assert.Equal(t, []string{CallbackShowHistoryPrevious, CallbackShowHistoryNext, CallbackSandboxAPI}, actions)
}
