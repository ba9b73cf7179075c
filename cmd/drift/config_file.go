package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drift/internal/config"
)

// resolveConfig loads drift.toml for this invocation: an explicit
// --config path wins, otherwise the nearest manifest walking up from the
// working directory, otherwise the built-in defaults. Persistent flags
// the user actually set override the file afterwards, so the chain is
// flags over file over defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()

	explicit, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if explicit != "" {
		cfg, err = config.Load(explicit)
		if err != nil {
			return config.Config{}, err
		}
	} else {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			cwd = "."
		}
		path, found, findErr := config.Find(cwd)
		if findErr != nil {
			return config.Config{}, findErr
		}
		if found {
			cfg, err = config.Load(path)
			if err != nil {
				return config.Config{}, err
			}
		} else {
			cfg = config.Default()
		}
	}

	if flags.Changed("color") {
		cfg.Output.Color, err = flags.GetString("color")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("max-deviations") {
		cfg.Output.MaxDeviations, err = flags.GetInt("max-deviations")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get max-deviations flag: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
