package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
	rediscache "github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/infrastructure/cache/redis"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/encryption"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/session"
)

func setupService(t *testing.T) (*miniredis.Miniredis, session.Service) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewClient(rediscache.Config{
		Host:       mr.Host(),
		Port:       mr.Port(),
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)

	svc, err := session.NewService(&session.Config{
		CacheClient: client,
		Encryptor:   encryption.NewNoOpEncryptor(),
		TTL:         time.Minute,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, svc
}

func TestNewService_Validation(t *testing.T) {
	svc, err := session.NewService(nil)
	assert.Error(t, err)
	assert.Nil(t, svc)

	svc, err = session.NewService(&session.Config{Encryptor: encryption.NewNoOpEncryptor()})
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestGet_AbsentSession(t *testing.T) {
	_, svc := setupService(t)

	state, err := svc.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestGet_CorruptPayloadDropped(t *testing.T) {
	mr, svc := setupService(t)
	ctx := context.Background()

	// Not valid base64-of-JSON; the entry must be dropped, not surfaced
	// as an error.
	mr.Set(models.SessionKey(42), "!!!corrupt!!!")

	state, err := svc.Get(ctx, 42)

	require.NoError(t, err)
	assert.Nil(t, state)
	assert.False(t, mr.Exists(models.SessionKey(42)))
}

func TestConsumePending_SingleUse(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPending(ctx, 42, models.PendingReportUUID))

	pending, state, err := svc.ConsumePending(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.PendingReportUUID, pending)
	require.NotNil(t, state)

	// Second consume returns none.
	pending, _, err = svc.ConsumePending(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.PendingNone, pending)
}

func TestConsumePending_ClearedBeforeHandlerRuns(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPending(ctx, 42, models.PendingAnalysisURL))

	// The consume itself persists the clear; whatever the caller does
	// with the tag afterwards (including failing) cannot restore it.
	_, _, err := svc.ConsumePending(ctx, 42)
	require.NoError(t, err)

	state, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.PendingNone, state.Pending)
}

func TestSetPending_LastWriteWins(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPending(ctx, 42, models.PendingReportUUID))
	require.NoError(t, svc.SetPending(ctx, 42, models.PendingNewAPIKey))

	pending, _, err := svc.ConsumePending(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.PendingNewAPIKey, pending)
}

func TestSetPendingRename_CarriesTarget(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPendingRename(ctx, 42, "key-id-1"))

	pending, state, err := svc.ConsumePending(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.PendingRenameAPIKey, pending)
	assert.Equal(t, "key-id-1", state.RenameKeyID)

	// Extras are cleared together with the tag.
	after, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, after.RenameKeyID)
}

func TestSetPending_OverwriteClearsExtras(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPendingAdminAction(ctx, 42, models.AdminActionBan))
	require.NoError(t, svc.SetPending(ctx, 42, models.PendingReportUUID))

	pending, state, err := svc.ConsumePending(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.PendingReportUUID, pending)
	assert.Empty(t, state.AdminAction)
}

func TestReportCache_RoundTrip(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	report := &models.Report{
		UUID:     "9f0a2a1c-1111-2222-3333-444455556666",
		Verdict:  "Malicious activity",
		VideoURL: "https://content.any.run/video.mp4",
	}

	require.NoError(t, svc.SetReport(ctx, 42, report))

	cached, err := svc.GetReport(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, report.UUID, cached.UUID)
	assert.True(t, cached.HasVideo())

	// Reports are session-scoped.
	other, err := svc.GetReport(ctx, 43)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSetHistorySkip(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetHistorySkip(ctx, 42, 30))

	state, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 30, state.HistorySkip)
}

func TestDelete(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPending(ctx, 42, models.PendingReportUUID))
	require.NoError(t, svc.Delete(ctx, 42))

	state, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, state)
}
