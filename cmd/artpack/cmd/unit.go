package cmd

import (
	"github.com/spf13/cobra"
)

// unitCmd groups the unit related commands, operating on a pulled artifact directory
var unitCmd = &cobra.Command{
	Use:   "unit",
	Short: "Commands to inspect units in a pulled artifact directory",
	Long: `Commands to inspect compiled units in a pulled artifact directory.

These commands only operate on directories produced by "artpack pull" with a
tag: resolution is strictly pinned to the pulled bundle and never falls back
to local build output.`,
}

func init() {
	rootCmd.AddCommand(unitCmd)
}
