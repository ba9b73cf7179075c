package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"drift/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "drift",
	Short: "Deviation compiler for developer tool output",
	Long:  `Drift compiles verbose tool output (test runs, builds, diffs) into a deduplicated, ranked deviation report`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// Exit codes follow diff: 0 when no deviations were found, 1 when the
// report carries deviations, 2 when the pipeline itself failed.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show stage timing information")
	rootCmd.PersistentFlags().Int("max-deviations", 100, "maximum number of deviations to show")
	rootCmd.PersistentFlags().String("config", "", "path to drift.toml (default: nearest manifest walking up)")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errDeviationsFound) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
