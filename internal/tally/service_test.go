package tally

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowtally/internal/config"
	"flowtally/internal/report"
	"flowtally/internal/testutil/testlog"
)

func writeFixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func fixtureConfig(t *testing.T) config.RunConfig {
	t.Helper()
	dir := t.TempDir()
	flows := "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 80 49153 6 25 20000 1620140761 1620140821 ACCEPT OK\n" +
		"2 123456789012 eni-0a1b2c3d 10.0.1.202 198.51.100.3 53 49154 17 25 20000 1620140761 1620140821 ACCEPT OK\n" +
		"not a flow record\n" +
		"2 123456789012 eni-0a1b2c3d 10.0.1.203 198.51.100.4 443 49155 6 25 20000 1620140761 1620140821 REJECT OK\n"

	return config.RunConfig{
		ProtocolFile:     writeFixture(t, dir, "protocol_numbers.csv", "Decimal,Keyword\n6,TCP\n17,UDP\n"),
		LookupFile:       writeFixture(t, dir, "lookup_table.csv", "dstport,protocol,tag\n80,tcp,web\n53,udp,dns\n"),
		FlowLogFile:      writeFixture(t, dir, "flow_logs.txt", flows),
		TagCountsFile:    filepath.Join(dir, "tag_counts.csv"),
		PortProtocolFile: filepath.Join(dir, "port_protocol_counts.csv"),
		MetricsFile:      filepath.Join(dir, "flowtally.prom"),
	}
}

func TestServiceRunWritesReports(t *testing.T) {
	testlog.Start(t)
	cfg := fixtureConfig(t)
	if err := NewService(cfg).Run(); err != nil {
		t.Fatalf("run service: %v", err)
	}

	tagFile, err := os.Open(cfg.TagCountsFile)
	if err != nil {
		t.Fatalf("open tag report: %v", err)
	}
	defer tagFile.Close()
	tags, err := report.ReadTagCounts(tagFile)
	if err != nil {
		t.Fatalf("read tag report: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("unexpected tag rows: %+v", tags)
	}
	if tags[0].Tag != "web" || tags[0].Count != 1 {
		t.Fatalf("unexpected first tag row: %+v", tags[0])
	}
	if tags[2].Tag != "untagged" || tags[2].Count != 1 {
		t.Fatalf("unexpected untagged row: %+v", tags[2])
	}

	pairFile, err := os.Open(cfg.PortProtocolFile)
	if err != nil {
		t.Fatalf("open port/protocol report: %v", err)
	}
	defer pairFile.Close()
	pairs, err := report.ReadPortProtocolCounts(pairFile)
	if err != nil {
		t.Fatalf("read port/protocol report: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("unexpected pair rows: %+v", pairs)
	}
	if pairs[0].Port != "80" || pairs[0].Protocol != "tcp" || pairs[0].Count != 1 {
		t.Fatalf("unexpected first pair row: %+v", pairs[0])
	}

	metrics, err := os.ReadFile(cfg.MetricsFile)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	if !strings.Contains(string(metrics), "flowtally_records_valid_total 3") {
		t.Fatalf("unexpected metrics:\n%s", metrics)
	}
}

func TestServiceRunMetricsDisabled(t *testing.T) {
	testlog.Start(t)
	cfg := fixtureConfig(t)
	metricsPath := cfg.MetricsFile
	cfg.MetricsFile = ""
	if err := NewService(cfg).Run(); err != nil {
		t.Fatalf("run service: %v", err)
	}
	if _, err := os.Stat(metricsPath); !os.IsNotExist(err) {
		t.Fatalf("metrics file should not exist when disabled")
	}
}

func TestServiceFatalOnMissingInputs(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name   string
		mutate func(cfg *config.RunConfig)
	}{
		{"missing protocol table", func(cfg *config.RunConfig) { cfg.ProtocolFile = "absent.csv" }},
		{"missing lookup table", func(cfg *config.RunConfig) { cfg.LookupFile = "absent.csv" }},
		{"missing flow log", func(cfg *config.RunConfig) { cfg.FlowLogFile = "absent.txt" }},
	}
	for _, tc := range cases {
		cfg := fixtureConfig(t)
		tc.mutate(&cfg)
		if err := NewService(cfg).Run(); err == nil {
			t.Fatalf("%s: expected fatal error", tc.name)
		}
		// Reference failures abort before any output is produced.
		if tc.name != "missing flow log" {
			if _, err := os.Stat(cfg.TagCountsFile); !os.IsNotExist(err) {
				t.Fatalf("%s: no report should be written", tc.name)
			}
		}
	}
}

func TestServiceFatalOnBadReferenceTable(t *testing.T) {
	testlog.Start(t)
	cfg := fixtureConfig(t)
	cfg.ProtocolFile = writeFixture(t, t.TempDir(), "bad.csv", "Number,Name\n6,TCP\n")
	if err := NewService(cfg).Run(); err == nil {
		t.Fatalf("expected error for table without required columns")
	}
}
