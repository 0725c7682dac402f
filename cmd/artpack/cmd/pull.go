package cmd

import (
	"context"
	"fmt"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// pullCmd downloads the bundle a tag points to
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull the bundle a tag points to",
	Long: `Pull the bundle a tag points to into a destination directory.

The destination is replaced wholesale: after a pull it contains exactly the
units of the bundle, byte for byte, plus a provenance record identifying the
tag and fingerprint it came from. The --tag flag also accepts a raw bundle
fingerprint, in which case the pulled tree is not usable as a frozen artifact
for unit resolution.`,
	Example: `% artpack pull --project my-protocol --tag v1.4.0 --destination artifacts/`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		stores, err := paramsToStores(ctx, artpackFlags)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		l, _ := cliLogger(artpackFlags)
		prov, err := core.Pull(ctx, stores,
			artpackFlags.project, artpackFlags.tag.Name,
			afero.NewOsFs(), artpackFlags.bundle.Destination,
			core.Logger(l))
		if err != nil {
			wrapFatalln(fmt.Sprintf("pull %s/%s", artpackFlags.project, artpackFlags.tag.Name), err)
			return
		}
		infoLogger.Printf("pulled bundle %s (%d units) into %s",
			prov.Fingerprint, len(prov.Entries), artpackFlags.bundle.Destination)
	},
}

func init() {
	requireFlags(pullCmd,
		addProjectFlag(pullCmd),
		addTagFlag(pullCmd),
		addDestinationFlag(pullCmd),
	)

	rootCmd.AddCommand(pullCmd)
}
