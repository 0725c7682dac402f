package cmd

import (
	"context"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/buildtrace/artpack/pkg/model"
	"github.com/spf13/cobra"
)

func printTagLine(tag model.TagDescriptor) error {
	infoLogger.Printf("%s , %s , %s", tag.Name, tag.Fingerprint, tag.Timestamp.Format(timeFormat))
	return nil
}

// tagListCmd lists the tags in a project
var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Long: `List the tags in a project.

This is analogous to the "git tag --list" command.`,
	Example: `% artpack tag list --project my-protocol
v1.4.0 , 3f7a... , 2026-08-25 10:04:24`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		stores, err := paramsToStores(ctx, artpackFlags)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		tags, err := core.ListTags(ctx, stores, artpackFlags.project)
		if err != nil {
			wrapFatalln("download tag list", err)
			return
		}
		for _, tag := range tags {
			_ = printTagLine(tag)
		}
	},
}

const timeFormat = "2006-01-02 15:04:05"

func init() {
	requireFlags(tagListCmd,
		addProjectFlag(tagListCmd),
	)

	tagCmd.AddCommand(tagListCmd)
}
