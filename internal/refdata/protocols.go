package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ProtocolUnassigned is the resolved name for a protocol number that has no
// registry entry.
const ProtocolUnassigned = "Unassigned"

const (
	protocolDecimalColumn = "Decimal"
	protocolKeywordColumn = "Keyword"
)

// ProtocolRegistry maps protocol numbers to their registered keyword names.
// Keys are the exact decimal strings found in the source table: no numeric
// normalization happens, so "6" and "06" are distinct keys.
type ProtocolRegistry struct {
	names map[string]string
}

// LoadProtocols builds a registry from a CSV table with at least the Decimal
// and Keyword columns. Empty keywords are stored verbatim; later duplicate
// decimals overwrite earlier ones.
func LoadProtocols(r io.Reader) (*ProtocolRegistry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}

	decIdx, err := columnIndex(header, protocolDecimalColumn)
	if err != nil {
		return nil, err
	}
	keyIdx, err := columnIndex(header, protocolKeywordColumn)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}
		names[cell(row, decIdx)] = cell(row, keyIdx)
	}
	return &ProtocolRegistry{names: names}, nil
}

// LoadProtocolsFile loads the registry from a file on disk.
func LoadProtocolsFile(path string) (*ProtocolRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open protocol table: %w", err)
	}
	defer f.Close()

	reg, err := LoadProtocols(f)
	if err != nil {
		return nil, fmt.Errorf("load protocol table %s: %w", path, err)
	}
	return reg, nil
}

// Lookup returns the registered name for a protocol number and whether the
// number has an entry at all. A registered-but-empty keyword reports found.
func (r *ProtocolRegistry) Lookup(number string) (string, bool) {
	name, ok := r.names[number]
	return name, ok
}

// Resolve returns the registered name for a protocol number, or
// ProtocolUnassigned when the number is unknown.
func (r *ProtocolRegistry) Resolve(number string) string {
	if name, ok := r.names[number]; ok {
		return name
	}
	return ProtocolUnassigned
}

// Len reports the number of registered protocol numbers.
func (r *ProtocolRegistry) Len() int {
	return len(r.names)
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

// cell tolerates rows narrower than the header, treating missing cells as
// empty the way a header-keyed reader would.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
