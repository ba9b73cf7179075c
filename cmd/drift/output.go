package main

import (
	"fmt"
	"io"
	"os"

	"drift/internal/config"
	"drift/internal/report"
	"drift/internal/reportfmt"
)

// colorEnabled resolves the merged color setting against the terminal.
func colorEnabled(cfg config.Config) bool {
	return cfg.Output.Color == "on" || (cfg.Output.Color == "auto" && isTerminal(os.Stdout))
}

// prettyOptsFromConfig maps merged configuration onto renderer options.
// Quiet keeps the head lines only: no traces, hints, clusters, or footer.
func prettyOptsFromConfig(cfg config.Config, quiet bool) reportfmt.PrettyOpts {
	return reportfmt.PrettyOpts{
		Color:    colorEnabled(cfg),
		Width:    cfg.Output.Width,
		Max:      cfg.Output.MaxDeviations,
		Traces:   cfg.Output.Traces && !quiet,
		Hints:    cfg.Output.Hints && !quiet,
		Clusters: !quiet,
		Footer:   !quiet,
	}
}

func jsonOptsFromConfig(cfg config.Config) reportfmt.JSONOpts {
	return reportfmt.JSONOpts{
		Max:               cfg.Output.MaxDeviations,
		IncludeTraces:     cfg.Output.Traces,
		IncludeProvenance: true,
	}
}

// renderReport writes one report in the requested format.
func renderReport(out io.Writer, rep *report.Report, format string, cfg config.Config, quiet bool) error {
	switch format {
	case "pretty":
		reportfmt.Pretty(out, rep, prettyOptsFromConfig(cfg, quiet))
		return nil
	case "json":
		return reportfmt.JSON(out, rep, jsonOptsFromConfig(cfg))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// printStageTimings renders the per-stage timing block of a run.
func printStageTimings(out io.Writer, prov report.Provenance) {
	fmt.Fprint(out, prov.Stages.Report(prov.Duration).Summary())
}
