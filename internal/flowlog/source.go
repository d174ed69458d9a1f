package flowlog

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

// recordSource yields one raw record at a time as a field slice, returning
// io.EOF when the input is exhausted.
type recordSource interface {
	Next() ([]string, error)
}

// newRecordSource picks the record format by file extension: .csv sources
// iterate structured rows, everything else iterates whitespace-split lines.
func newRecordSource(path string, r io.Reader) recordSource {
	if strings.HasSuffix(path, ".csv") {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		return &csvSource{reader: cr}
	}
	return &lineSource{scanner: bufio.NewScanner(r)}
}

type csvSource struct {
	reader *csv.Reader
}

func (s *csvSource) Next() ([]string, error) {
	return s.reader.Read()
}

type lineSource struct {
	scanner *bufio.Scanner
}

// Next skips blank lines and splits the next line on whitespace.
func (s *lineSource) Next() ([]string, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		return strings.Fields(line), nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
