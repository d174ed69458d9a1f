package flowlog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"flowtally/internal/refdata"
)

// RunStats summarizes what a pipeline run saw. Skipped records leave no
// trace in the count tables; they only show up here.
type RunStats struct {
	RecordsRead  int
	ValidRecords int
	SkippedWidth int
	SkippedEmpty int
	Untagged     int
}

// Result carries both count tables and the run statistics.
type Result struct {
	Tags          *TagCounts
	PortProtocols *PortProtocolCounts
	Stats         RunStats
}

// Pipeline classifies flow records against the two reference tables. It is
// strictly sequential; the tables are read-only for its lifetime.
type Pipeline struct {
	protocols *refdata.ProtocolRegistry
	lookup    *refdata.TagLookup
}

// NewPipeline builds a pipeline over already-loaded reference tables.
func NewPipeline(protocols *refdata.ProtocolRegistry, lookup *refdata.TagLookup) *Pipeline {
	return &Pipeline{protocols: protocols, lookup: lookup}
}

// Run streams the flow-log source at path and aggregates every valid record.
// Records with the wrong field width or blank required fields are skipped
// silently; a read failure mid-source is fatal and yields no result.
func (p *Pipeline) Run(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flow log: %w", err)
	}
	defer f.Close()

	src := newRecordSource(path, f)
	tags := NewTagCounts()
	pairs := NewPortProtocolCounts()
	var stats RunStats

	for {
		fields, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read flow log %s: %w", path, err)
		}
		stats.RecordsRead++

		if len(fields) != RecordFieldCount {
			stats.SkippedWidth++
			continue
		}
		dstPort, protoNumber, ok := ExtractFields(fields)
		if !ok {
			stats.SkippedEmpty++
			continue
		}

		protocolName := p.protocols.Resolve(protoNumber)
		tag := p.lookup.Resolve(dstPort, protocolName)
		if tag == refdata.TagUntagged {
			stats.Untagged++
		}
		Record(tag, dstPort, protocolName, tags, pairs)
		stats.ValidRecords++
	}

	log.Debug().
		Str("source", path).
		Int("read", stats.RecordsRead).
		Int("valid", stats.ValidRecords).
		Int("skipped_width", stats.SkippedWidth).
		Int("skipped_empty", stats.SkippedEmpty).
		Int("untagged", stats.Untagged).
		Msg("flow log processed")

	return &Result{Tags: tags, PortProtocols: pairs, Stats: stats}, nil
}
