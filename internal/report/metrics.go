package report

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"flowtally/internal/flowlog"
)

// WriteMetrics renders run statistics as prometheus text exposition, the
// format the node_exporter textfile collector ingests. Each run builds its
// own registry; nothing is global.
func WriteMetrics(w io.Writer, stats flowlog.RunStats) error {
	reg := prometheus.NewRegistry()

	read := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowtally",
		Name:      "records_read_total",
		Help:      "Raw flow-log records seen, skipped ones included.",
	})
	valid := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowtally",
		Name:      "records_valid_total",
		Help:      "Flow-log records that contributed to the reports.",
	})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowtally",
		Name:      "records_skipped_total",
		Help:      "Flow-log records dropped before aggregation.",
	}, []string{"reason"})
	untagged := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowtally",
		Name:      "records_untagged_total",
		Help:      "Valid records classified with the fallback tag.",
	})
	reg.MustRegister(read, valid, skipped, untagged)

	read.Add(float64(stats.RecordsRead))
	valid.Add(float64(stats.ValidRecords))
	skipped.WithLabelValues("field_count").Add(float64(stats.SkippedWidth))
	skipped.WithLabelValues("empty_field").Add(float64(stats.SkippedEmpty))
	untagged.Add(float64(stats.Untagged))

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather run metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode run metrics: %w", err)
		}
	}
	return nil
}

// WriteMetricsFile writes the run metrics to a textfile-collector file.
func WriteMetricsFile(path string, stats flowlog.RunStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file %s: %w", path, err)
	}
	if err := WriteMetrics(f, stats); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close metrics file %s: %w", path, err)
	}
	return nil
}
