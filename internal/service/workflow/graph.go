package workflow

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/pkg/utils"
)

const nodeLabelTypes = 3

type transition struct {
	source, target string
}

// BuildWorkflowGraph walks events in chronological order and records one node per host
// and one edge per ordered pair of hosts that followed each other at least once.
// Consecutive events on the same host only add to that host's stats.
func BuildWorkflowGraph(events []entity.Event) entity.WorkflowGraph {
	graph := entity.WorkflowGraph{
		Nodes: []entity.WorkflowNode{},
		Edges: []entity.WorkflowEdge{},
	}
	if len(events) == 0 {
		return graph
	}

	var hosts []string
	stats := make(map[string]*utils.Counter)

	var transitions []transition
	transitionCounts := make(map[transition]int)

	prevHost := ""
	hasPrev := false
	for _, e := range sortChronologically(events) {
		host := e.Host()

		c, ok := stats[host]
		if !ok {
			c = utils.NewCounter()
			stats[host] = c
			hosts = append(hosts, host)
		}
		c.Add(e.EventType())

		if hasPrev && prevHost != host {
			key := transition{source: prevHost, target: host}
			if _, seen := transitionCounts[key]; !seen {
				transitions = append(transitions, key)
			}
			transitionCounts[key]++
		}
		prevHost = host
		hasPrev = true
	}

	for _, host := range hosts {
		graph.Nodes = append(graph.Nodes, entity.WorkflowNode{
			ID:    host,
			Label: nodeLabel(host, stats[host]),
			Host:  host,
			Stats: stats[host].Map(),
		})
	}

	for _, t := range transitions {
		count := transitionCounts[t]
		edge := entity.WorkflowEdge{
			ID:     edgeID(t.source, t.target),
			Source: t.source,
			Target: t.target,
			Count:  count,
		}
		if count > 1 {
			label := strconv.Itoa(count)
			edge.Label = &label
		}
		graph.Edges = append(graph.Edges, edge)
	}

	return graph
}

func edgeID(source, target string) string {
	return source + "->" + target
}

func nodeLabel(host string, stats *utils.Counter) string {
	top := stats.MostCommon(nodeLabelTypes)
	if len(top) == 0 {
		return host
	}

	parts := make([]string, 0, len(top))
	for _, c := range top {
		parts = append(parts, fmt.Sprintf("%s:%d", c.Key, c.Count))
	}
	return fmt.Sprintf("%s (%s)", host, strings.Join(parts, ", "))
}

type timedEvent struct {
	event entity.Event
	at    time.Time
	hasAt bool
}

// sortChronologically returns a sorted copy of events. Events without a usable
// timestamp sort first; equal instants keep their input order.
func sortChronologically(events []entity.Event) []entity.Event {
	timed := make([]timedEvent, len(events))
	for i, e := range events {
		at, ok := e.Time()
		timed[i] = timedEvent{event: e, at: at, hasAt: ok}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		a, b := timed[i], timed[j]
		if a.hasAt != b.hasAt {
			return !a.hasAt
		}
		if !a.hasAt {
			return a.event.CreatedAt < b.event.CreatedAt
		}
		return a.at.Before(b.at)
	})

	sorted := make([]entity.Event, len(timed))
	for i, t := range timed {
		sorted[i] = t.event
	}
	return sorted
}
