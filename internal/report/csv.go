// Package report emits the aggregate results of a run: the two CSV count
// reports and, optionally, a prometheus textfile of run statistics.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"flowtally/internal/flowlog"
)

var ErrBadHeader = errors.New("report: unexpected report header")

var (
	tagHeader          = []string{"Tag", "Count"}
	portProtocolHeader = []string{"Port", "Protocol", "Count"}
)

// WriteTagCounts writes the Tag,Count table in first-seen order.
func WriteTagCounts(w io.Writer, tags *flowlog.TagCounts) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tagHeader); err != nil {
		return fmt.Errorf("write tag report: %w", err)
	}
	for _, e := range tags.Entries() {
		if err := cw.Write([]string{e.Tag, strconv.Itoa(e.Count)}); err != nil {
			return fmt.Errorf("write tag report: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write tag report: %w", err)
	}
	return nil
}

// WritePortProtocolCounts writes the Port,Protocol,Count table in first-seen
// order.
func WritePortProtocolCounts(w io.Writer, pairs *flowlog.PortProtocolCounts) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(portProtocolHeader); err != nil {
		return fmt.Errorf("write port/protocol report: %w", err)
	}
	for _, e := range pairs.Entries() {
		if err := cw.Write([]string{e.Port, e.Protocol, strconv.Itoa(e.Count)}); err != nil {
			return fmt.Errorf("write port/protocol report: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write port/protocol report: %w", err)
	}
	return nil
}

// WriteTagCountsFile writes the tag report to a file, truncating any
// previous run's output.
func WriteTagCountsFile(path string, tags *flowlog.TagCounts) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteTagCounts(w, tags)
	})
}

// WritePortProtocolCountsFile writes the port/protocol report to a file.
func WritePortProtocolCountsFile(path string, pairs *flowlog.PortProtocolCounts) error {
	return writeFile(path, func(w io.Writer) error {
		return WritePortProtocolCounts(w, pairs)
	})
}

// ReadTagCounts parses a tag report back into rows, order preserved.
func ReadTagCounts(r io.Reader) ([]flowlog.TagCount, error) {
	rows, err := readReport(r, tagHeader)
	if err != nil {
		return nil, err
	}
	out := make([]flowlog.TagCount, 0, len(rows))
	for _, row := range rows {
		n, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("read tag report: %w", err)
		}
		out = append(out, flowlog.TagCount{Tag: row[0], Count: n})
	}
	return out, nil
}

// ReadPortProtocolCounts parses a port/protocol report back into rows,
// order preserved.
func ReadPortProtocolCounts(r io.Reader) ([]flowlog.PortProtoCount, error) {
	rows, err := readReport(r, portProtocolHeader)
	if err != nil {
		return nil, err
	}
	out := make([]flowlog.PortProtoCount, 0, len(rows))
	for _, row := range rows {
		n, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("read port/protocol report: %w", err)
		}
		out = append(out, flowlog.PortProtoCount{
			PortProtoKey: flowlog.PortProtoKey{Port: row[0], Protocol: row[1]},
			Count:        n,
		})
	}
	return out, nil
}

func readReport(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrBadHeader
	}
	for i, name := range header {
		if rows[0][i] != name {
			return nil, fmt.Errorf("%w: %v", ErrBadHeader, rows[0])
		}
	}
	return rows[1:], nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report %s: %w", path, err)
	}
	return nil
}
