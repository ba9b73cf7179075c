package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drift/internal/driver"
	"drift/internal/reportfmt"
)

var structureCmd = &cobra.Command{
	Use:   "structure [flags] <capture>",
	Short: "Dump the structural tree of a captured tool run",
	Long: `Structure runs the lexing and tree building stages and dumps the
resulting tree. A capture that breaks mid-structure still dumps the part
that parsed; the degradation reason goes to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

func init() {
	structureCmd.Flags().String("tool", "", "tool that produced the capture (see 'drift tools')")
	structureCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runStructure(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	toolFlag, err := cmd.Flags().GetString("tool")
	if err != nil {
		return fmt.Errorf("failed to get tool flag: %w", err)
	}

	name, raw, err := readCapture(args[0])
	if err != nil {
		return err
	}
	tool, err := resolveTool(toolFlag, name)
	if err != nil {
		return err
	}

	res, err := driver.New(driver.Options{}).Structure(tool, name, raw)
	if err != nil {
		return fmt.Errorf("structuring failed: %w", err)
	}

	// Деградация не фатальна: сообщаем и выводим частичное дерево
	if res.Partial != nil {
		fmt.Fprintf(os.Stderr, "partial: %s\n", res.Partial.Reason)
	}

	switch format {
	case "pretty":
		return reportfmt.FormatTreePretty(os.Stdout, res.File, res.Tree)
	case "json":
		return reportfmt.FormatTreeJSON(os.Stdout, res.File, res.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
