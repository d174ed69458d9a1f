package flowlog

import "strings"

// PortProtoKey identifies a (destination port, protocol name) combination.
// The protocol name is always stored lowercase.
type PortProtoKey struct {
	Port     string
	Protocol string
}

// TagCount is one row of the tag report.
type TagCount struct {
	Tag   string
	Count int
}

// PortProtoCount is one row of the port/protocol report.
type PortProtoCount struct {
	PortProtoKey
	Count int
}

// TagCounts accumulates occurrences per tag, remembering the order in which
// tags were first seen. Entries are never removed.
type TagCounts struct {
	order  []string
	counts map[string]int
}

func NewTagCounts() *TagCounts {
	return &TagCounts{counts: make(map[string]int)}
}

// Inc adds one occurrence of a tag.
func (c *TagCounts) Inc(tag string) {
	if _, ok := c.counts[tag]; !ok {
		c.order = append(c.order, tag)
	}
	c.counts[tag]++
}

// Get returns the count for a tag, zero when unseen.
func (c *TagCounts) Get(tag string) int {
	return c.counts[tag]
}

// Entries returns the rows in first-seen order.
func (c *TagCounts) Entries() []TagCount {
	out := make([]TagCount, 0, len(c.order))
	for _, tag := range c.order {
		out = append(out, TagCount{Tag: tag, Count: c.counts[tag]})
	}
	return out
}

// Total returns the sum of all tag counts.
func (c *TagCounts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// PortProtocolCounts accumulates occurrences per (port, protocol) pair,
// remembering the order in which pairs were first seen.
type PortProtocolCounts struct {
	order  []PortProtoKey
	counts map[PortProtoKey]int
}

func NewPortProtocolCounts() *PortProtocolCounts {
	return &PortProtocolCounts{counts: make(map[PortProtoKey]int)}
}

// Inc adds one occurrence of a (port, protocol name) pair, lowercasing the
// protocol name.
func (c *PortProtocolCounts) Inc(dstPort, protocolName string) {
	key := PortProtoKey{Port: dstPort, Protocol: strings.ToLower(protocolName)}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Get returns the count for a pair, zero when unseen. The protocol name is
// lowercased the same way Inc does.
func (c *PortProtocolCounts) Get(dstPort, protocolName string) int {
	return c.counts[PortProtoKey{Port: dstPort, Protocol: strings.ToLower(protocolName)}]
}

// Entries returns the rows in first-seen order.
func (c *PortProtocolCounts) Entries() []PortProtoCount {
	out := make([]PortProtoCount, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, PortProtoCount{PortProtoKey: key, Count: c.counts[key]})
	}
	return out
}

// Total returns the sum of all pair counts.
func (c *PortProtocolCounts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Record registers one classified flow record in both tables. Every valid
// record contributes exactly one increment to each.
func Record(tag, dstPort, protocolName string, tags *TagCounts, pairs *PortProtocolCounts) {
	tags.Inc(tag)
	pairs.Inc(dstPort, protocolName)
}
