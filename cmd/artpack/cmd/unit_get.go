package cmd

import (
	"errors"
	"fmt"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/buildtrace/artpack/pkg/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// unitGetCmd resolves one unit from a pulled artifact directory
var unitGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a unit",
	Long: `Get a compiled unit from a pulled artifact directory, by qualified name.

The unit file content is verified against the digest recorded at pull time
before anything is printed.`,
	Example: `% artpack unit get --destination artifacts/ --name src/Token.sol:Token`,
	Run: func(cmd *cobra.Command, args []string) {
		frozen, err := core.OpenFrozen(afero.NewOsFs(), artpackFlags.bundle.Destination)
		if err != nil {
			wrapFatalln(fmt.Sprintf("open artifact directory %q", artpackFlags.bundle.Destination), err)
			return
		}
		unit, err := frozen.ResolveUnit(artpackFlags.unit.Name)
		if err != nil {
			if errors.Is(err, status.ErrUnitNotFound) {
				wrapFatalWithCodef(int(unix.ENOENT), "didn't find unit %q in bundle %s (tag %s)",
					artpackFlags.unit.Name, frozen.Fingerprint(), frozen.Tag())
				return
			}
			wrapFatalln(fmt.Sprintf("resolve unit %q", artpackFlags.unit.Name), err)
			return
		}
		buf, err := model.MarshalUnit(unit)
		if err != nil {
			wrapFatalln("serialize unit", err)
			return
		}
		infoLogger.Print(string(buf))
	},
}

func init() {
	requireFlags(unitGetCmd,
		addDestinationFlag(unitGetCmd),
		addUnitNameFlag(unitGetCmd),
	)

	unitCmd.AddCommand(unitGetCmd)
}
