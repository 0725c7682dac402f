package cmd

import (
	"fmt"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// deployRecordCmd appends one deployment to the summary file
var deployRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a deployment",
	Long: `Record the address a unit from a pulled artifact directory was deployed at.

The unit must resolve from the pulled bundle, so only frozen, tagged content
can be recorded as deployed. The tag is taken from the artifact's provenance.`,
	Example: `% artpack deploy record --destination artifacts/ --name src/Token.sol:Token \
    --chain-id 1 --address 0x5FbDB2315678afecb367f032d93F642f64180aa3`,
	Run: func(cmd *cobra.Command, args []string) {
		fs := afero.NewOsFs()
		frozen, err := core.OpenFrozen(fs, artpackFlags.bundle.Destination)
		if err != nil {
			wrapFatalln(fmt.Sprintf("open artifact directory %q", artpackFlags.bundle.Destination), err)
			return
		}
		if _, err = frozen.ResolveUnit(artpackFlags.unit.Name); err != nil {
			wrapFatalln(fmt.Sprintf("resolve unit %q", artpackFlags.unit.Name), err)
			return
		}
		err = core.RecordDeployment(fs, artpackFlags.deploy.File,
			artpackFlags.deploy.ChainID, frozen.Tag(),
			artpackFlags.unit.Name, artpackFlags.deploy.Address)
		if err != nil {
			wrapFatalln("record deployment", err)
			return
		}
		infoLogger.Printf("recorded %s@%s deployed at %s on chain %s",
			artpackFlags.unit.Name, frozen.Tag(), artpackFlags.deploy.Address, artpackFlags.deploy.ChainID)
	},
}

func init() {
	requireFlags(deployRecordCmd,
		addDestinationFlag(deployRecordCmd),
		addUnitNameFlag(deployRecordCmd),
		addChainIDFlag(deployRecordCmd),
		addAddressFlag(deployRecordCmd),
	)
	addSummaryFileFlag(deployRecordCmd)

	deployCmd.AddCommand(deployRecordCmd)
}
