package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drift/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show [flags] <report.drift>",
	Short: "Render a previously saved deviation report",
	Long: `Show loads a report saved by 'drift compile --save' and renders it.
Show is a viewer: it exits 0 even when the report carries deviations.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("format", "", "output format (pretty|json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, err = cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	rep, err := report.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}

	if err := renderReport(os.Stdout, rep, format, cfg, quiet); err != nil {
		return err
	}
	if showTimings {
		printStageTimings(os.Stderr, rep.Provenance())
	}
	return nil
}
