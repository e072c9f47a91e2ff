package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/callready/scriptd/common/store"
)

// analyticsRanges are the accepted time-range selectors. "all" disables the
// cutoff.
var analyticsRanges = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
	"all": 0,
}

// Analytics aggregates an owner's scripts by status and type, with average
// rates and the top performers by success rate
type Analytics struct {
	TimeRange             string         `json:"time_range"`
	TotalScripts          int            `json:"total_scripts"`
	ByStatus              map[string]int `json:"by_status"`
	ByType                map[string]int `json:"by_type"`
	AverageSuccessRate    float64        `json:"average_success_rate"`
	AverageConversionRate float64        `json:"average_conversion_rate"`
	TopScripts            []TopScript    `json:"top_scripts"`
}

// TopScript is a leaderboard entry
type TopScript struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SuccessRate float64 `json:"success_rate"`
	TotalUses   int     `json:"total_uses"`
}

// GetAnalytics aggregates across the owner's scripts within the time range
// ("7d", "30d", "90d", or "all"; empty means "all"). Results are cached per
// owner and range, invalidated on any write for that owner.
func (s *ScriptService) GetAnalytics(ctx context.Context, owner, timeRange string) (*Analytics, error) {
	if timeRange == "" {
		timeRange = "all"
	}
	window, ok := analyticsRanges[timeRange]
	if !ok {
		return nil, &ValidationError{Errors: []string{fmt.Sprintf("invalid time range: %q", timeRange)}}
	}

	cacheKey := analyticsCacheKey(owner, timeRange)
	if s.cache != nil {
		if data, hit, err := s.cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Analytics
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	scripts, err := s.repo.List(ctx, store.Query{
		Filters: map[string]any{"created_by": owner},
	})
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}

	var cutoff time.Time
	if window > 0 {
		cutoff = s.timestamp().Add(-window)
	}

	result := &Analytics{
		TimeRange: timeRange,
		ByStatus:  map[string]int{},
		ByType:    map[string]int{},
	}

	var successSum, conversionSum float64
	top := make([]TopScript, 0, len(scripts))
	for _, script := range scripts {
		if window > 0 && script.UpdatedAt.Before(cutoff) {
			continue
		}
		result.TotalScripts++
		result.ByStatus[string(script.Status)]++
		result.ByType[string(script.Type)]++
		successSum += script.PerformanceMetrics.SuccessRate
		conversionSum += script.PerformanceMetrics.ConversionRate
		top = append(top, TopScript{
			ID:          script.ID,
			Name:        script.Name,
			SuccessRate: script.PerformanceMetrics.SuccessRate,
			TotalUses:   script.PerformanceMetrics.TotalUses,
		})
	}

	if result.TotalScripts > 0 {
		result.AverageSuccessRate = successSum / float64(result.TotalScripts)
		result.AverageConversionRate = conversionSum / float64(result.TotalScripts)
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].SuccessRate > top[j].SuccessRate
	})
	if len(top) > 5 {
		top = top[:5]
	}
	result.TopScripts = top

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.analyticsTTL); err != nil {
				s.log.Warn("failed to cache analytics", "owner", owner, "error", err)
			}
		}
	}

	return result, nil
}

// invalidateAnalytics drops every cached analytics range for the owner
func (s *ScriptService) invalidateAnalytics(ctx context.Context, owner string) {
	if s.cache == nil {
		return
	}
	for rng := range analyticsRanges {
		if err := s.cache.Delete(ctx, analyticsCacheKey(owner, rng)); err != nil {
			s.log.Warn("failed to invalidate analytics cache", "owner", owner, "range", rng, "error", err)
		}
	}
}

func analyticsCacheKey(owner, timeRange string) string {
	return fmt.Sprintf("analytics:%s:%s", owner, timeRange)
}
