package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v2"
)

// tagGetCmd shows the descriptor of one tag
var tagGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a tag",
	Long: `Get the descriptor of a tag in a project.

Prints the tag descriptor as yaml, including the fingerprint of the bundle
the tag points to.`,
	Example: `% artpack tag get --project my-protocol --tag v1.4.0`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		stores, err := paramsToStores(ctx, artpackFlags)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		tag, err := core.ResolveTag(ctx, stores, artpackFlags.project, artpackFlags.tag.Name)
		if err != nil {
			if errors.Is(err, status.ErrTagNotFound) {
				wrapFatalWithCodef(int(unix.ENOENT), "didn't find tag %q in project %q",
					artpackFlags.tag.Name, artpackFlags.project)
				return
			}
			wrapFatalln(fmt.Sprintf("resolve tag %s/%s", artpackFlags.project, artpackFlags.tag.Name), err)
			return
		}
		buf, err := yaml.Marshal(tag)
		if err != nil {
			wrapFatalln("serialize tag descriptor", err)
			return
		}
		infoLogger.Print(string(buf))
	},
}

func init() {
	requireFlags(tagGetCmd,
		addProjectFlag(tagGetCmd),
		addTagFlag(tagGetCmd),
	)

	tagCmd.AddCommand(tagGetCmd)
}
