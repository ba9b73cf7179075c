package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drift/internal/codectx"
	"drift/internal/driver"
	"drift/internal/report"
	"drift/internal/reportfmt"
)

// errDeviationsFound distinguishes "the tools drifted" from pipeline
// failure so main can exit 1 for the former and 2 for the latter.
var errDeviationsFound = errors.New("deviations found")

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <capture>...",
	Short: "Compile tool output into a deviation report",
	Long: `Compile reads captured tool output (files, or - for stdin), runs the
deviation pipeline, and renders the sealed report. Multiple captures
compile in parallel and render one report per capture.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("tool", "", "tool that produced the captures (see 'drift tools'; .diff/.patch infer unified-diff)")
	compileCmd.Flags().String("format", "", "output format (pretty|json)")
	compileCmd.Flags().String("save", "", "write the sealed report to this path instead of rendering it")
	compileCmd.Flags().String("context", "", "TOML symbol table backing hint enrichment")
	compileCmd.Flags().String("ui", "auto", "batch progress interface (auto|on|off)")
	compileCmd.Flags().Int("jobs", 0, "max parallel captures (0=auto)")
}

// runCompile executes the "compile" command: it merges configuration,
// reads every capture, compiles them through the pipeline, and renders,
// saves, or logs the outcome. Per-capture failures go to stderr and turn
// into a pipeline failure; deviations in any sealed report surface as
// errDeviationsFound after rendering.
func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Получаем флаги
	toolFlag, err := cmd.Flags().GetString("tool")
	if err != nil {
		return fmt.Errorf("failed to get tool flag: %w", err)
	}
	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, err = cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	savePath, err := cmd.Flags().GetString("save")
	if err != nil {
		return fmt.Errorf("failed to get save flag: %w", err)
	}
	contextPath := cfg.Context.Symbols
	if cmd.Flags().Changed("context") {
		contextPath, err = cmd.Flags().GetString("context")
		if err != nil {
			return fmt.Errorf("failed to get context flag: %w", err)
		}
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	jobs := cfg.Batch.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs, err = cmd.Flags().GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
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

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	if savePath != "" && len(args) != 1 {
		return fmt.Errorf("--save requires exactly one capture")
	}

	inputs, err := collectInputs(args, toolFlag)
	if err != nil {
		return err
	}

	opts := driver.Options{Limits: cfg.IRLimits()}
	if contextPath != "" {
		static, loadErr := codectx.LoadStatic(contextPath)
		if loadErr != nil {
			return loadErr
		}
		opts.Provider = static
	}

	useTUI := shouldUseTUI(uiModeValue) && len(inputs) > 1 && !quiet

	var results []driver.BatchResult
	switch {
	case useTUI:
		results, err = runBatchWithUI(cmd.Context(), "drift compile", inputs, opts, jobs)
	case len(inputs) > 1 && !quiet:
		results, err = runBatchPlain(cmd.Context(), os.Stderr, inputs, opts, jobs)
	default:
		results, err = driver.New(opts).CompileBatch(cmd.Context(), inputs, jobs)
	}
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	failures := 0
	compiled := make([]driver.BatchResult, 0, len(results))
	devsFound := false
	for _, r := range results {
		if r.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Name, r.Err)
			continue
		}
		compiled = append(compiled, r)
		if !r.Report.Empty() {
			devsFound = true
		}
	}

	if savePath != "" {
		if failures == 0 {
			if saveErr := report.Save(savePath, compiled[0].Report); saveErr != nil {
				return fmt.Errorf("failed to save report: %w", saveErr)
			}
			if !quiet {
				fmt.Fprintf(os.Stdout, "saved %s\n", savePath)
			}
		}
	} else if len(results) == 1 && len(compiled) == 1 {
		if err := renderReport(os.Stdout, compiled[0].Report, format, cfg, quiet); err != nil {
			return err
		}
	} else if format == "pretty" {
		for idx, r := range compiled {
			if idx > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", r.Name)
			reportfmt.Pretty(os.Stdout, r.Report, prettyOptsFromConfig(cfg, quiet))
		}
	} else {
		output := make(map[string]reportfmt.ReportOutput, len(compiled))
		for _, r := range compiled {
			output[r.Name] = reportfmt.BuildReportOutput(r.Report, jsonOptsFromConfig(cfg))
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode report output: %w", err)
		}
	}

	if showTimings {
		for _, r := range compiled {
			if len(results) > 1 {
				fmt.Fprintf(os.Stderr, "== %s ==\n", r.Name)
			}
			printStageTimings(os.Stderr, r.Report.Provenance())
		}
	}

	if failures > 0 {
		cmd.SilenceUsage = true
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d captures failed to compile", failures, len(results))
	}
	if devsFound {
		// Отчёт уже напечатан; код выхода 1 сообщает о дрейфе
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDeviationsFound
	}
	return nil
}
