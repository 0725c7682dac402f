package cmd

import (
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/spf13/cobra"
)

var configGen = &cobra.Command{
	Use:   "create",
	Short: "Create a config",
	Long:  "Create a config to use for artpack. Config file will be placed in $HOME/.artpack/artpack.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		usr, err := user.Current()
		if usr == nil || err != nil {
			wrapFatalln("could not get home directory for user", err)
			return
		}
		cfg := CLIConfig{
			Backend:    artpackFlags.store.backend,
			Bucket:     artpackFlags.store.bucket,
			BlobBucket: artpackFlags.store.blobBucket,
			Credential: artpackFlags.store.credFile,
			Endpoint:   artpackFlags.store.endpoint,
			Region:     artpackFlags.store.region,
			Project:    artpackFlags.project,
		}
		o, err := yaml.Marshal(cfg)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		_ = os.Mkdir(filepath.Join(usr.HomeDir, ".artpack"), 0777)
		if err = os.WriteFile(filepath.Join(usr.HomeDir, ".artpack", "artpack.yaml"), o, 0666); err != nil {
			wrapFatalln("write config file", err)
			return
		}
	},
}

func init() {
	addProjectFlag(configGen)

	configCmd.AddCommand(configGen)
}
