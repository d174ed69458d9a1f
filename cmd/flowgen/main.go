// flowgen writes a coherent fixture set for flowtally: a protocol-number
// reference table, a small tag lookup table, and a synthetic flow log whose
// records match the fixed 14-field schema.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/gopacket/layers"
)

// referenceProtocols drives the generated protocol table; keywords come from
// the gopacket layer names.
var referenceProtocols = []layers.IPProtocol{
	layers.IPProtocolICMPv4,
	layers.IPProtocolIGMP,
	layers.IPProtocolTCP,
	layers.IPProtocolUDP,
	layers.IPProtocolGRE,
	layers.IPProtocolESP,
	layers.IPProtocolAH,
	layers.IPProtocolICMPv6,
	layers.IPProtocolSCTP,
	layers.IPProtocolUDPLite,
}

type tagRule struct {
	port  string
	proto layers.IPProtocol
	tag   string
}

var sampleRules = []tagRule{
	{"25", layers.IPProtocolTCP, "sv_p1"},
	{"443", layers.IPProtocolTCP, "sv_p2"},
	{"110", layers.IPProtocolTCP, "email"},
	{"143", layers.IPProtocolTCP, "email"},
	{"993", layers.IPProtocolTCP, "email"},
	{"80", layers.IPProtocolTCP, "web"},
	{"8080", layers.IPProtocolTCP, "web"},
	{"22", layers.IPProtocolTCP, "ssh"},
	{"53", layers.IPProtocolUDP, "dns"},
}

func main() {
	dir := flag.String("dir", ".", "output directory for the fixture set")
	records := flag.Int("records", 100, "number of flow-log records to generate")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	force := flag.Bool("force", false, "overwrite existing fixture files")
	flag.Parse()

	if err := generate(*dir, *records, *seed, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote fixture set to %s", *dir)
}

func generate(dir string, records int, seed int64, force bool) error {
	if err := writeProtocolTable(filepath.Join(dir, "protocol_numbers.csv"), force); err != nil {
		return err
	}
	if err := writeLookupTable(filepath.Join(dir, "lookup_table.csv"), force); err != nil {
		return err
	}
	return writeFlowLog(filepath.Join(dir, "flow_logs.txt"), records, seed, force)
}

func writeProtocolTable(path string, force bool) error {
	return writeFixture(path, force, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write([]string{"Decimal", "Keyword"}); err != nil {
			return err
		}
		for _, p := range referenceProtocols {
			if err := w.Write([]string{strconv.Itoa(int(p)), strings.ToLower(p.String())}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func writeLookupTable(path string, force bool) error {
	return writeFixture(path, force, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write([]string{"dstport", "protocol", "tag"}); err != nil {
			return err
		}
		for _, r := range sampleRules {
			row := []string{r.port, strings.ToLower(r.proto.String()), r.tag}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func writeFlowLog(path string, records int, seed int64, force bool) error {
	rng := rand.New(rand.NewSource(seed))
	return writeFixture(path, force, func(f *os.File) error {
		for i := 0; i < records; i++ {
			if _, err := fmt.Fprintln(f, flowRecord(rng, i)); err != nil {
				return err
			}
		}
		return nil
	})
}

// flowRecord produces one 14-field record. Around two thirds of the records
// hit a lookup rule; the rest land on arbitrary (port, protocol) pairs so
// the untagged path gets exercised.
func flowRecord(rng *rand.Rand, n int) string {
	var dstPort string
	var proto layers.IPProtocol
	if rng.Intn(3) < 2 {
		rule := sampleRules[rng.Intn(len(sampleRules))]
		dstPort = rule.port
		proto = rule.proto
	} else {
		dstPort = strconv.Itoa(1024 + rng.Intn(64511))
		proto = referenceProtocols[rng.Intn(len(referenceProtocols))]
	}

	start := int64(1620140661) + int64(n)*60
	fields := []string{
		"2",
		"123456789012",
		fmt.Sprintf("eni-%08x", rng.Uint32()),
		fmt.Sprintf("10.0.%d.%d", rng.Intn(4), 1+rng.Intn(250)),
		fmt.Sprintf("198.51.100.%d", 1+rng.Intn(250)),
		dstPort,
		strconv.Itoa(49152 + rng.Intn(16383)),
		strconv.Itoa(int(proto)),
		strconv.Itoa(1 + rng.Intn(500)),
		strconv.Itoa(40 + rng.Intn(100000)),
		strconv.FormatInt(start, 10),
		strconv.FormatInt(start+60, 10),
		pick(rng, "ACCEPT", "REJECT"),
		"OK",
	}
	return strings.Join(fields, " ")
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}

func writeFixture(path string, force bool, write func(*os.File) error) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s (use -force)", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
