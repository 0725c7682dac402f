package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// keep field names aligned with their serialized names for viper
	Backend    string `json:"backend" yaml:"backend"`       // localfs, gcs or s3
	Bucket     string `json:"bucket" yaml:"bucket"`         // metadata bucket (or localfs root dir)
	BlobBucket string `json:"blobBucket" yaml:"blobBucket"` // blob bucket, defaults to the metadata bucket
	Credential string `json:"credential" yaml:"credential"` // credentials file for GCS
	Endpoint   string `json:"endpoint" yaml:"endpoint"`     // endpoint for S3-compatible stores
	Region     string `json:"region" yaml:"region"`         // region for S3-compatible stores
	Project    string `json:"project" yaml:"project"`       // default project scope
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setArtpackParams(flags *flagsT) {
	if flags.store.backend == "" {
		flags.store.backend = c.Backend
	}
	if flags.store.bucket == "" {
		flags.store.bucket = c.Bucket
	}
	if flags.store.blobBucket == "" {
		flags.store.blobBucket = c.BlobBucket
	}
	if flags.store.credFile == "" {
		flags.store.credFile = c.Credential
	}
	if flags.store.endpoint == "" {
		flags.store.endpoint = c.Endpoint
	}
	if flags.store.region == "" {
		flags.store.region = c.Region
	}
	if flags.project == "" {
		flags.project = c.Project
	}
}

// configCmd groups the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the artpack config",
	Long: `Commands to manage the artpack CLI config.

Configuration for artpack is the common set of flags that are needed for most
commands and do not change across runs, analogous to "git config ...".`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
