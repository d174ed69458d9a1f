package flowlog

import (
	"testing"

	"flowtally/internal/testutil/testlog"
)

func TestTagCountsFirstSeenOrder(t *testing.T) {
	testlog.Start(t)
	tags := NewTagCounts()
	tags.Inc("web")
	tags.Inc("dns")
	tags.Inc("web")
	tags.Inc("untagged")
	tags.Inc("web")

	entries := tags.Entries()
	want := []TagCount{{"web", 3}, {"dns", 1}, {"untagged", 1}}
	if len(entries) != len(want) {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	for i, e := range entries {
		if e != want[i] {
			t.Fatalf("entry %d: got %+v want %+v", i, e, want[i])
		}
	}
	if tags.Total() != 5 {
		t.Fatalf("unexpected total: %d", tags.Total())
	}
}

func TestPortProtocolCountsLowercaseProtocol(t *testing.T) {
	testlog.Start(t)
	pairs := NewPortProtocolCounts()
	pairs.Inc("80", "TCP")
	pairs.Inc("80", "tcp")
	pairs.Inc("53", "UDP")

	entries := pairs.Entries()
	if len(entries) != 2 {
		t.Fatalf("case variants should share a key: %+v", entries)
	}
	if entries[0].Port != "80" || entries[0].Protocol != "tcp" || entries[0].Count != 2 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if pairs.Get("53", "udp") != 1 {
		t.Fatalf("unexpected count for 53/udp: %d", pairs.Get("53", "udp"))
	}
	if pairs.Total() != 3 {
		t.Fatalf("unexpected total: %d", pairs.Total())
	}
}

func TestRecordIncrementsBothTables(t *testing.T) {
	testlog.Start(t)
	tags := NewTagCounts()
	pairs := NewPortProtocolCounts()

	Record("web", "80", "TCP", tags, pairs)
	Record("web", "80", "tcp", tags, pairs)

	if tags.Get("web") != 2 {
		t.Fatalf("unexpected tag count: %d", tags.Get("web"))
	}
	if pairs.Get("80", "tcp") != 2 {
		t.Fatalf("unexpected pair count: %d", pairs.Get("80", "tcp"))
	}
	if tags.Total() != pairs.Total() {
		t.Fatalf("table totals diverged: %d vs %d", tags.Total(), pairs.Total())
	}
}
