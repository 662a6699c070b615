package analytics

import (
	"fmt"
	"testing"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAnalyticsCharts_Empty(t *testing.T) {
	charts := BuildAnalyticsCharts(nil)
	assert.NotNil(t, charts.ByType)
	assert.NotNil(t, charts.ByHost)
	assert.NotNil(t, charts.OverTime)
	assert.Empty(t, charts.ByType)
	assert.Empty(t, charts.ByHost)
	assert.Empty(t, charts.OverTime)
}

func TestBuildAnalyticsCharts_Scenario(t *testing.T) {
	charts := BuildAnalyticsCharts([]entity.Event{
		{Type: "click", URL: "https://a.com/1", CreatedAt: "2024-05-01T10:00:00Z"},
		{Type: "click", URL: "https://a.com/2", CreatedAt: "2024-05-01T10:01:00Z"},
		{Type: "form_interaction", URL: "https://a.com/2", CreatedAt: "2024-05-01T10:02:00Z"},
		{Type: "click", URL: "https://b.com/", CreatedAt: "2024-05-01T10:03:00Z"},
	})

	assert.Equal(t, []entity.TypeCount{{Type: "click", Count: 3}, {Type: "form_interaction", Count: 1}}, charts.ByType)
	assert.Equal(t, []entity.HostCount{{Host: "a.com", Count: 3}, {Host: "b.com", Count: 1}}, charts.ByHost)
	assert.Equal(t, []entity.DateCount{{Date: "2024-05-01", Count: 4}}, charts.OverTime)
}

func TestBuildAnalyticsCharts_TopHostsAfterSorting(t *testing.T) {
	var events []entity.Event
	// host-00 appears once, host-24 appears 25 times: the top 20 are host-05..host-24.
	for i := 0; i < 25; i++ {
		for j := 0; j <= i; j++ {
			events = append(events, entity.Event{Type: "click", URL: fmt.Sprintf("https://host-%02d.com", i)})
		}
	}

	charts := BuildAnalyticsCharts(events)
	require.Len(t, charts.ByHost, TopHostsLimit)
	assert.Equal(t, entity.HostCount{Host: "host-24.com", Count: 25}, charts.ByHost[0])
	assert.Equal(t, entity.HostCount{Host: "host-05.com", Count: 6}, charts.ByHost[TopHostsLimit-1])

	total := 0
	for _, c := range charts.ByType {
		total += c.Count
	}
	assert.Equal(t, len(events), total)
}

func TestBuildAnalyticsCharts_OverTime(t *testing.T) {
	charts := BuildAnalyticsCharts([]entity.Event{
		{Type: "click", CreatedAt: "2024-05-03T01:00:00Z"},
		{Type: "click", CreatedAt: "2024-05-01T23:59:59Z"},
		{Type: "click", CreatedAt: "2024-05-02T01:30:00+03:00"},
		{Type: "click", CreatedAt: "2024-05-03T22:00:00Z"},
		{Type: "click", CreatedAt: "bogus"},
		{Type: "click"},
	})

	assert.Equal(t, []entity.DateCount{
		{Date: "2024-05-01", Count: 2},
		{Date: "2024-05-03", Count: 2},
	}, charts.OverTime)

	require.Len(t, charts.ByType, 1)
	assert.Equal(t, 6, charts.ByType[0].Count)
	assert.Equal(t, []entity.HostCount{{Host: "unknown", Count: 6}}, charts.ByHost)
}

func TestBuildAnalyticsCharts_Idempotent(t *testing.T) {
	events := []entity.Event{
		{Type: "scroll", URL: "https://x.com", CreatedAt: "2024-05-01T10:00:00Z"},
		{URL: "https://y.com", CreatedAt: "2024-05-02T10:00:00Z"},
	}
	assert.Equal(t, BuildAnalyticsCharts(events), BuildAnalyticsCharts(events))
}
