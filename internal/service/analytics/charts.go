package analytics

import (
	"sort"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/pkg/utils"
)

// TopHostsLimit caps the by_host series.
const TopHostsLimit = 20

// BuildAnalyticsCharts tallies events by type, by host and by UTC day. Events without a
// usable timestamp still count towards by_type and by_host.
func BuildAnalyticsCharts(events []entity.Event) entity.AnalyticsCharts {
	byType := utils.NewCounter()
	byHost := utils.NewCounter()
	byDate := utils.NewCounter()

	for _, e := range events {
		byType.Add(e.EventType())
		byHost.Add(e.Host())
		if t, ok := e.Time(); ok {
			byDate.Add(utils.DateKey(t))
		}
	}

	charts := entity.AnalyticsCharts{
		ByType:   []entity.TypeCount{},
		ByHost:   []entity.HostCount{},
		OverTime: []entity.DateCount{},
	}

	for _, c := range byType.MostCommon(0) {
		charts.ByType = append(charts.ByType, entity.TypeCount{Type: c.Key, Count: c.Count})
	}

	for _, c := range byHost.MostCommon(TopHostsLimit) {
		charts.ByHost = append(charts.ByHost, entity.HostCount{Host: c.Key, Count: c.Count})
	}

	dates := byDate.Keys()
	sort.Strings(dates)
	for _, d := range dates {
		charts.OverTime = append(charts.OverTime, entity.DateCount{Date: d, Count: byDate.Get(d)})
	}

	return charts
}
