package cmd

import (
	"fmt"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// unitListCmd lists the qualified names in a pulled artifact directory
var unitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List units",
	Long:  `List the qualified unit names in a pulled artifact directory.`,
	Example: `% artpack unit list --destination artifacts/
src/Token.sol:Token
src/Vault.sol:Vault`,
	Run: func(cmd *cobra.Command, args []string) {
		frozen, err := core.OpenFrozen(afero.NewOsFs(), artpackFlags.bundle.Destination)
		if err != nil {
			wrapFatalln(fmt.Sprintf("open artifact directory %q", artpackFlags.bundle.Destination), err)
			return
		}
		for _, name := range frozen.QualifiedNames() {
			infoLogger.Println(name)
		}
	},
}

func init() {
	requireFlags(unitListCmd,
		addDestinationFlag(unitListCmd),
	)

	unitCmd.AddCommand(unitListCmd)
}
