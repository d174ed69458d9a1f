package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// TagUntagged is the resolved tag for a (port, protocol) pair with no usable
// rule. Tags are stored and returned lowercase, the sentinel included.
const TagUntagged = "untagged"

const (
	lookupPortColumn     = "dstport"
	lookupProtocolColumn = "protocol"
	lookupTagColumn      = "tag"
)

// TagLookup maps (destination port, protocol name) pairs to classification
// tags. Keys are "{port}:{protocol}" with the port trimmed and the protocol
// lowercased; the same construction applies to queries, so matching is
// case-insensitive on protocol name.
type TagLookup struct {
	tags map[string]string
}

// LoadLookup builds the table from a CSV source with at least the dstport,
// protocol and tag columns. Tags are lowercased on load; for a duplicate
// (dstport, protocol) key the last row wins.
func LoadLookup(r io.Reader) (*TagLookup, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}

	portIdx, err := columnIndex(header, lookupPortColumn)
	if err != nil {
		return nil, err
	}
	protoIdx, err := columnIndex(header, lookupProtocolColumn)
	if err != nil {
		return nil, err
	}
	tagIdx, err := columnIndex(header, lookupTagColumn)
	if err != nil {
		return nil, err
	}

	tags := make(map[string]string)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}
		key := lookupKey(cell(row, portIdx), cell(row, protoIdx))
		tags[key] = strings.ToLower(strings.TrimSpace(cell(row, tagIdx)))
	}
	return &TagLookup{tags: tags}, nil
}

// LoadLookupFile loads the tag table from a file on disk.
func LoadLookupFile(path string) (*TagLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lookup table: %w", err)
	}
	defer f.Close()

	table, err := LoadLookup(f)
	if err != nil {
		return nil, fmt.Errorf("load lookup table %s: %w", path, err)
	}
	return table, nil
}

// Lookup returns the tag for a (port, protocol name) pair. A key that is
// absent and a key stored with an empty tag both report not found.
func (t *TagLookup) Lookup(port, protocolName string) (string, bool) {
	tag, ok := t.tags[lookupKey(port, protocolName)]
	if !ok || tag == "" {
		return "", false
	}
	return tag, true
}

// Resolve returns the matched tag for a (port, protocol name) pair, or
// TagUntagged when no usable rule exists.
func (t *TagLookup) Resolve(port, protocolName string) string {
	if tag, ok := t.Lookup(port, protocolName); ok {
		return tag
	}
	return TagUntagged
}

// Len reports the number of loaded rules, empty-tag rows included.
func (t *TagLookup) Len() int {
	return len(t.tags)
}

func lookupKey(port, protocolName string) string {
	return strings.TrimSpace(port) + ":" + strings.ToLower(strings.TrimSpace(protocolName))
}
