package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/docker/go-units"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// pushCmd uploads a build directory as an immutable tagged bundle
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a build directory under a tag",
	Long: `Push the compiled units found in a build directory as a bundle, and point
a tag at it.

Tags are write-once. Pushing to an existing tag fails with exit code 2 unless
--force is given. Pushing identical content under a new tag does not upload
anything: the new tag points at the already stored bundle.`,
	Example: `% artpack push --project my-protocol --tag v1.4.0 --path out/`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		stores, err := paramsToStores(ctx, artpackFlags)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		bundle, err := core.LoadBundle(afero.NewOsFs(), artpackFlags.bundle.Path)
		if err != nil {
			wrapFatalln(fmt.Sprintf("load build directory %q", artpackFlags.bundle.Path), err)
			return
		}
		l, _ := cliLogger(artpackFlags)
		res, err := core.Push(ctx, stores, bundle,
			artpackFlags.project, artpackFlags.tag.Name, artpackFlags.bundle.Force,
			core.Logger(l))
		if err != nil {
			if errors.Is(err, status.ErrTagExists) {
				wrapFatalWithCodef(2, "tag %s/%s already exists (use --force to overwrite)",
					artpackFlags.project, artpackFlags.tag.Name)
				return
			}
			wrapFatalln("push bundle", err)
			return
		}
		if res.Deduped {
			infoLogger.Printf("tag %s set to existing bundle %s (no units uploaded)", res.Tag, res.Fingerprint)
			return
		}
		infoLogger.Printf("tag %s set to bundle %s (%d units, %s uploaded)",
			res.Tag, res.Fingerprint, res.UploadedUnits, units.HumanSize(float64(res.UploadedBytes)))
	},
}

func init() {
	requireFlags(pushCmd,
		addProjectFlag(pushCmd),
		addTagFlag(pushCmd),
		addPathFlag(pushCmd),
	)
	addForceFlag(pushCmd)

	rootCmd.AddCommand(pushCmd)
}
