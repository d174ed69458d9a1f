package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// RunConfig names every file a single reporting run touches.
type RunConfig struct {
	ProtocolFile     string
	LookupFile       string
	FlowLogFile      string
	TagCountsFile    string
	PortProtocolFile string
	// MetricsFile enables a prometheus textfile dump of run statistics
	// when non-empty.
	MetricsFile string
}

type fileConfig struct {
	ProtocolFile     string `toml:"protocol_file"`
	LookupFile       string `toml:"lookup_file"`
	FlowLogFile      string `toml:"flow_log_file"`
	TagCountsFile    string `toml:"tag_counts_file"`
	PortProtocolFile string `toml:"port_protocol_counts_file"`
	MetricsFile      string `toml:"metrics_file"`
}

// DefaultRunConfig returns the fixed file names the tool uses when no
// configuration file overrides them.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		ProtocolFile:     "protocol_numbers.csv",
		LookupFile:       "lookup_table.csv",
		FlowLogFile:      "flow_logs.txt",
		TagCountsFile:    "tag_counts.csv",
		PortProtocolFile: "port_protocol_counts.csv",
		MetricsFile:      "",
	}
}

// LoadRunConfig reads a TOML run configuration, applying only the keys the
// file actually defines on top of the defaults. Blank values are ignored
// except for metrics_file, where blank keeps metrics disabled.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return RunConfig{}, fmt.Errorf("load run config: %w", err)
	}

	applyPath(meta, "protocol_file", raw.ProtocolFile, &cfg.ProtocolFile)
	applyPath(meta, "lookup_file", raw.LookupFile, &cfg.LookupFile)
	applyPath(meta, "flow_log_file", raw.FlowLogFile, &cfg.FlowLogFile)
	applyPath(meta, "tag_counts_file", raw.TagCountsFile, &cfg.TagCountsFile)
	applyPath(meta, "port_protocol_counts_file", raw.PortProtocolFile, &cfg.PortProtocolFile)

	if meta.IsDefined("metrics_file") {
		cfg.MetricsFile = strings.TrimSpace(raw.MetricsFile)
	}

	return cfg, nil
}

func applyPath(meta toml.MetaData, key, value string, dst *string) {
	if !meta.IsDefined(key) {
		return
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return
	}
	*dst = v
}
