package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type flagsT struct {
	project string
	bundle  struct {
		Path        string
		Destination string
		Force       bool
	}
	tag struct {
		Name string
	}
	unit struct {
		Name string
	}
	deploy struct {
		File    string
		ChainID string
		Address string
	}
	diff struct {
		exitCode bool
		noColor  bool
	}
	store struct {
		backend    string
		bucket     string
		blobBucket string
		credFile   string
		endpoint   string
		region     string
	}
	root struct {
		logLevel string
	}
}

var artpackFlags = flagsT{}

func addProjectFlag(cmd *cobra.Command) string {
	project := "project"
	cmd.Flags().StringVar(&artpackFlags.project, project, "", "The name of the project the tag belongs to")
	return project
}

func addTagFlag(cmd *cobra.Command) string {
	tag := "tag"
	cmd.Flags().StringVar(&artpackFlags.tag.Name, tag, "", "The name of the tag, or a bundle fingerprint where accepted")
	return tag
}

func addPathFlag(cmd *cobra.Command) string {
	path := "path"
	cmd.Flags().StringVar(&artpackFlags.bundle.Path, path, "", "The path to the build output directory holding the compiled units")
	return path
}

func addDestinationFlag(cmd *cobra.Command) string {
	destination := "destination"
	cmd.Flags().StringVar(&artpackFlags.bundle.Destination, destination, "", "The path to the download dir")
	return destination
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	cmd.Flags().BoolVar(&artpackFlags.bundle.Force, force, false, "Overwrite the tag if it already exists")
	return force
}

func addUnitNameFlag(cmd *cobra.Command) string {
	name := "name"
	cmd.Flags().StringVar(&artpackFlags.unit.Name, name, "", "The qualified unit name, e.g. src/Token.sol:Token")
	return name
}

func addChainIDFlag(cmd *cobra.Command) string {
	chain := "chain-id"
	cmd.Flags().StringVar(&artpackFlags.deploy.ChainID, chain, "", "The chain id the unit was deployed to")
	return chain
}

func addAddressFlag(cmd *cobra.Command) string {
	address := "address"
	cmd.Flags().StringVar(&artpackFlags.deploy.Address, address, "", "The address the unit was deployed at")
	return address
}

func addSummaryFileFlag(cmd *cobra.Command) string {
	file := "file"
	cmd.Flags().StringVar(&artpackFlags.deploy.File, file, "deployments.json", "The path to the deployment summary file")
	return file
}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&artpackFlags.root.logLevel, loglevel, "info", "The logging level (info, debug or none)")
	return loglevel
}

func addBackendFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&artpackFlags.store.backend, "backend", "", "The storage backend (localfs, gcs or s3)")
	cmd.PersistentFlags().StringVar(&artpackFlags.store.bucket, "bucket", "", "The metadata bucket, or root directory for the localfs backend")
	cmd.PersistentFlags().StringVar(&artpackFlags.store.blobBucket, "blob-bucket", "", "The blob bucket, defaults to the metadata bucket")
	cmd.PersistentFlags().StringVar(&artpackFlags.store.credFile, "credentials", "", "The path to the credentials file (gcs backend)")
	cmd.PersistentFlags().StringVar(&artpackFlags.store.endpoint, "endpoint", "", "The endpoint of an S3-compatible store (s3 backend)")
	cmd.PersistentFlags().StringVar(&artpackFlags.store.region, "region", "", "The region of the bucket (s3 backend)")
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		err := cmd.MarkFlagRequired(flag)
		if err != nil {
			err = cmd.MarkPersistentFlagRequired(flag)
		}
		if err != nil {
			wrapFatalln(fmt.Sprintf("error attempting to mark the required flag %q", flag), err)
			return
		}
	}
}
