package flowlog

import "strings"

// Flow records carry exactly 14 fields; the destination port and protocol
// number sit at fixed positions. There is no version marker in the format,
// so the positions are not configurable.
const (
	RecordFieldCount = 14

	dstPortIndex  = 5
	protocolIndex = 7
)

// ExtractFields pulls the destination port and protocol number out of an
// already-split record. The caller is responsible for the 14-field width
// check; this only rejects records whose required fields are blank after
// trimming.
func ExtractFields(fields []string) (dstPort, protoNumber string, ok bool) {
	if len(fields) <= protocolIndex {
		return "", "", false
	}
	dstPort = strings.TrimSpace(fields[dstPortIndex])
	protoNumber = strings.TrimSpace(fields[protocolIndex])
	if dstPort == "" || protoNumber == "" {
		return "", "", false
	}
	return dstPort, protoNumber, true
}

// ExtractLine splits a raw text record on whitespace and extracts the same
// positional fields.
func ExtractLine(line string) (string, string, bool) {
	return ExtractFields(strings.Fields(line))
}
