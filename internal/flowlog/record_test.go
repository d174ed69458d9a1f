package flowlog

import (
	"testing"

	"flowtally/internal/testutil/testlog"
)

func flowLine(dstPort, protocol string) string {
	return "2 123456789012 eni-0a1b2c3d " +
		"10.0.1.201 198.51.100.2 " + dstPort + " 49153 " + protocol +
		" 25 20000 1620140761 1620140821 ACCEPT OK"
}

func TestExtractLinePositionalFields(t *testing.T) {
	testlog.Start(t)
	dstPort, proto, ok := ExtractLine(flowLine("443", "6"))
	if !ok {
		t.Fatalf("expected valid extraction")
	}
	if dstPort != "443" {
		t.Fatalf("unexpected dstport: %q", dstPort)
	}
	if proto != "6" {
		t.Fatalf("unexpected protocol number: %q", proto)
	}
}

func TestExtractFieldsTrims(t *testing.T) {
	testlog.Start(t)
	fields := make([]string, RecordFieldCount)
	for i := range fields {
		fields[i] = "x"
	}
	fields[5] = " 80 "
	fields[7] = "\t17 "

	dstPort, proto, ok := ExtractFields(fields)
	if !ok {
		t.Fatalf("expected valid extraction")
	}
	if dstPort != "80" || proto != "17" {
		t.Fatalf("fields should be trimmed, got %q/%q", dstPort, proto)
	}
}

func TestExtractFieldsRejectsBlanks(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name    string
		dstPort string
		proto   string
	}{
		{"blank dstport", "   ", "6"},
		{"blank protocol", "80", ""},
		{"both blank", "", ""},
	}
	for _, tc := range cases {
		fields := make([]string, RecordFieldCount)
		for i := range fields {
			fields[i] = "x"
		}
		fields[5] = tc.dstPort
		fields[7] = tc.proto
		if _, _, ok := ExtractFields(fields); ok {
			t.Fatalf("%s: extraction should fail", tc.name)
		}
	}
}

func TestExtractFieldsShortSlice(t *testing.T) {
	testlog.Start(t)
	if _, _, ok := ExtractFields([]string{"a", "b", "c"}); ok {
		t.Fatalf("extraction from a short record should fail")
	}
}
