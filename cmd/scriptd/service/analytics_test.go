package service

import (
	"context"
	"testing"
	"time"

	"github.com/callready/scriptd/cmd/scriptd/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAnalytics(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.CreateScript(ctx, "alice", callScriptInput("First"), false)
	require.NoError(t, err)
	second := callScriptInput("Second")
	second.Status = models.StatusActive
	_, err = svc.CreateScript(ctx, "alice", second, false)
	require.NoError(t, err)
	_, err = svc.CreateScript(ctx, "alice", &models.Script{
		Name:    "Texts",
		Type:    models.TypeSMS,
		Content: models.Content{MainPoints: []string{"hello"}},
	}, false)
	require.NoError(t, err)
	_, err = svc.CreateScript(ctx, "bob", callScriptInput("Other Tenant"), false)
	require.NoError(t, err)

	rate := 0.9
	_, err = svc.UpdateMetrics(ctx, first.ID, models.MetricsPatch{SuccessRate: &rate})
	require.NoError(t, err)

	report, err := svc.GetAnalytics(ctx, "alice", "all")
	require.NoError(t, err)

	assert.Equal(t, "all", report.TimeRange)
	assert.Equal(t, 3, report.TotalScripts, "other owners' scripts are excluded")
	assert.Equal(t, 2, report.ByStatus["draft"])
	assert.Equal(t, 1, report.ByStatus["active"])
	assert.Equal(t, 2, report.ByType["call"])
	assert.Equal(t, 1, report.ByType["sms"])
	assert.InDelta(t, 0.3, report.AverageSuccessRate, 1e-9)
	require.NotEmpty(t, report.TopScripts)
	assert.Equal(t, first.ID, report.TopScripts[0].ID, "leaderboard ordered by success rate")
}

func TestGetAnalytics_DefaultAndInvalidRange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	report, err := svc.GetAnalytics(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "all", report.TimeRange)
	assert.Zero(t, report.TotalScripts)

	_, err = svc.GetAnalytics(ctx, "alice", "14d")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestGetAnalytics_TimeWindow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// Pin the clock far in the past for the first script, then move it back
	// to the present so a 7d window excludes the stale one.
	past := time.Now().UTC().Add(-30 * 24 * time.Hour)
	svc.now = func() time.Time { return past }
	_, err := svc.CreateScript(ctx, "alice", callScriptInput("Stale"), false)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.CreateScript(ctx, "alice", callScriptInput("Fresh"), false)
	require.NoError(t, err)

	report, err := svc.GetAnalytics(ctx, "alice", "7d")
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalScripts)
	assert.Equal(t, "Fresh", report.TopScripts[0].Name)

	full, err := svc.GetAnalytics(ctx, "alice", "all")
	require.NoError(t, err)
	assert.Equal(t, 2, full.TotalScripts)
}

func TestGetAnalytics_TopFive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for i := 0; i < 7; i++ {
		created, err := svc.CreateScript(ctx, "alice", callScriptInput("Ranked"), false)
		require.NoError(t, err)
		rate := float64(i) / 10
		_, err = svc.UpdateMetrics(ctx, created.ID, models.MetricsPatch{SuccessRate: &rate})
		require.NoError(t, err)
	}

	report, err := svc.GetAnalytics(ctx, "alice", "all")
	require.NoError(t, err)
	require.Len(t, report.TopScripts, 5)
	assert.InDelta(t, 0.6, report.TopScripts[0].SuccessRate, 1e-9)
	assert.InDelta(t, 0.2, report.TopScripts[4].SuccessRate, 1e-9)
}

func TestGetAnalytics_CacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateScript(ctx, "alice", callScriptInput("One"), false)
	require.NoError(t, err)

	report, err := svc.GetAnalytics(ctx, "alice", "all")
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalScripts)

	// A second read hits the cache; a write must invalidate it.
	_, err = svc.CreateScript(ctx, "alice", callScriptInput("Two"), false)
	require.NoError(t, err)

	report, err = svc.GetAnalytics(ctx, "alice", "all")
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalScripts)
}
