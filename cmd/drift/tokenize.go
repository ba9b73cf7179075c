package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drift/internal/driver"
	"drift/internal/reportfmt"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <capture>",
	Short: "Dump the token stream of a captured tool run",
	Long:  `Tokenize runs only the lexing stage and dumps the tokens a front end sees in a capture`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("tool", "", "tool that produced the capture (see 'drift tools')")
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
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

	// Выполняем токенизацию
	res, err := driver.New(driver.Options{}).Tokenize(tool, name, raw)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return reportfmt.FormatTokensPretty(os.Stdout, res.File, res.Tokens)
	case "json":
		return reportfmt.FormatTokensJSON(os.Stdout, res.File, res.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
