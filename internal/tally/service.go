// Package tally wires a full reporting run together: reference-data load,
// flow-log pipeline, and report emission.
package tally

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"flowtally/internal/config"
	"flowtally/internal/flowlog"
	"flowtally/internal/refdata"
	"flowtally/internal/report"
)

// Service executes one run over the files named by its configuration.
type Service struct {
	cfg config.RunConfig
}

// NewService builds a run service.
func NewService(cfg config.RunConfig) *Service {
	return &Service{cfg: cfg}
}

// Run loads both reference tables, processes the flow log, and writes the
// reports. Reference or ingest failures abort before any output is written;
// nothing is retried.
func (s *Service) Run() error {
	protocols, err := refdata.LoadProtocolsFile(s.cfg.ProtocolFile)
	if err != nil {
		return err
	}
	lookup, err := refdata.LoadLookupFile(s.cfg.LookupFile)
	if err != nil {
		return err
	}
	log.Debug().
		Int("protocols", protocols.Len()).
		Int("rules", lookup.Len()).
		Msg("reference tables loaded")

	res, err := flowlog.NewPipeline(protocols, lookup).Run(s.cfg.FlowLogFile)
	if err != nil {
		return err
	}

	if err := report.WriteTagCountsFile(s.cfg.TagCountsFile, res.Tags); err != nil {
		return err
	}
	if err := report.WritePortProtocolCountsFile(s.cfg.PortProtocolFile, res.PortProtocols); err != nil {
		return err
	}
	if s.cfg.MetricsFile != "" {
		if err := report.WriteMetricsFile(s.cfg.MetricsFile, res.Stats); err != nil {
			return err
		}
	}

	log.Info().
		Str("flow_log", s.cfg.FlowLogFile).
		Int("valid", res.Stats.ValidRecords).
		Int("skipped", res.Stats.SkippedWidth+res.Stats.SkippedEmpty).
		Int("untagged", res.Stats.Untagged).
		Int("tags", len(res.Tags.Entries())).
		Int("port_protocol_pairs", len(res.PortProtocols.Entries())).
		Msg("run complete")
	return nil
}

// Describe returns a short human-readable summary of the configured run,
// used for startup logging.
func (s *Service) Describe() string {
	return fmt.Sprintf("%s + %s -> %s, %s",
		s.cfg.ProtocolFile, s.cfg.LookupFile, s.cfg.TagCountsFile, s.cfg.PortProtocolFile)
}
