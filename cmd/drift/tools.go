package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drift/internal/driver"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools drift can compile output from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range driver.DefaultRegistry().IDs() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}
