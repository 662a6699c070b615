package utils

import "slices"

type Count struct {
	Key   string
	Count int
}

// Counter tallies string keys and remembers the order in which each key was first seen.
// Rankings break ties by that order, so results are deterministic for a given input.
type Counter struct {
	keys   []string
	counts map[string]int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) Add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *Counter) Get(key string) int {
	return c.counts[key]
}

func (c *Counter) Len() int {
	return len(c.keys)
}

// Keys returns the distinct keys in first-seen order.
func (c *Counter) Keys() []string {
	return slices.Clone(c.keys)
}

// Map returns a copy of the raw tallies.
func (c *Counter) Map() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// MostCommon returns up to n entries sorted by descending count. n <= 0 returns all.
func (c *Counter) MostCommon(n int) []Count {
	out := make([]Count, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Count{Key: k, Count: c.counts[k]})
	}

	slices.SortStableFunc(out, func(a, b Count) int {
		return b.Count - a.Count
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
