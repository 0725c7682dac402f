package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "artpack",
	Short: "Artpack versions compiled contract artifacts",
	Long: `Artpack manages immutable, tagged snapshots of compiled contract build output.

A build directory full of compiled units is pushed as a bundle under a
human-readable tag, pulled back verbatim on any machine, and compared
against what a tag points to. Tags are write-once: once a tag exists it
always resolves to the same bundle.

This is analogous to "git tag" for build artifacts rather than sources.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
	addBackendFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("backend", backendLocalFS)
	if os.Getenv("ARTPACK_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("ARTPACK_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.artpack")
		viper.AddConfigPath("/etc/artpack")
		viper.SetConfigName("artpack")
	}

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setArtpackParams(&artpackFlags)
	if config.Credential != "" {
		// prefer the config file over whatever the ambient environment says
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", config.Credential)
	}
}
