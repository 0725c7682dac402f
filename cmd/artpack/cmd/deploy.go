package cmd

import (
	"github.com/spf13/cobra"
)

// deployCmd groups the deployment related commands
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Commands to track deployments of tagged units",
	Long: `Commands to track which compiled unit of which tag was deployed where.

The deployment summary is an append-only record: an entry, once written for a
given chain, tag and unit, is never changed.`,
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
