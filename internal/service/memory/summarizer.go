package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/pkg/utils"
)

const (
	maxTopPages  = 3
	maxUIContext = 5
)

type hostGroup struct {
	host   string
	events []entity.Event
}

// SummarizeEvents renders one Memory per host present in events. Every memory in the
// batch shares the same window bounds: the earliest and latest parseable timestamps
// across all events. The input slice is not modified.
func SummarizeEvents(events []entity.Event) []entity.Memory {
	if len(events) == 0 {
		return []entity.Memory{}
	}

	start, end, hasWindow := eventWindow(events)
	groups := groupByHost(events)

	memories := make([]entity.Memory, 0, len(groups))
	for _, g := range groups {
		m := entity.Memory{
			URLHost:     g.host,
			SummaryText: renderSummary(g.host, g.events),
		}
		if hasWindow {
			s, e := start, end
			m.WindowStart = &s
			m.WindowEnd = &e
		}
		memories = append(memories, m)
	}

	return memories
}

func eventWindow(events []entity.Event) (start, end time.Time, ok bool) {
	for _, e := range events {
		t, parsed := e.Time()
		if !parsed {
			continue
		}
		if !ok || t.Before(start) {
			start = t
		}
		if !ok || t.After(end) {
			end = t
		}
		ok = true
	}
	return start, end, ok
}

func groupByHost(events []entity.Event) []*hostGroup {
	index := make(map[string]*hostGroup)
	var groups []*hostGroup

	for _, e := range events {
		host := e.Host()
		g, ok := index[host]
		if !ok {
			g = &hostGroup{host: host}
			index[host] = g
			groups = append(groups, g)
		}
		g.events = append(g.events, e)
	}

	return groups
}

func renderSummary(host string, events []entity.Event) string {
	types := utils.NewCounter()
	var titles, uiTexts []string
	seenTitles := make(map[string]bool)
	seenTexts := make(map[string]bool)

	for _, e := range events {
		types.Add(e.EventType())

		if e.Title != "" && !seenTitles[e.Title] {
			seenTitles[e.Title] = true
			titles = append(titles, e.Title)
		}

		txt := strings.TrimSpace(e.TextContent)
		if txt != "" && !seenTexts[txt] {
			seenTexts[txt] = true
			uiTexts = append(uiTexts, txt)
		}
	}

	lines := []string{
		"Domain: " + host,
		"Activity:",
	}
	for _, c := range types.MostCommon(0) {
		lines = append(lines, fmt.Sprintf("- %s: %d", c.Key, c.Count))
	}

	if len(titles) > maxTopPages {
		titles = titles[:maxTopPages]
	}
	if len(titles) > 0 {
		lines = append(lines, "Top pages: "+strings.Join(titles, ", "))
	}

	if len(uiTexts) > maxUIContext {
		uiTexts = uiTexts[:maxUIContext]
	}
	if len(uiTexts) > 0 {
		lines = append(lines, "UI context: "+strings.Join(uiTexts, ", "))
	}

	return strings.Join(lines, "\n")
}
