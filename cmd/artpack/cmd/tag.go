package cmd

import (
	"github.com/spf13/cobra"
)

// tagCmd groups the tag related commands
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Commands to manage tags",
	Long: `Commands to manage tags in a project.

A tag is a human-readable, write-once name for a bundle, analogous to a
"git tag" pointing at a commit.`,
}

func init() {
	rootCmd.AddCommand(tagCmd)
}
