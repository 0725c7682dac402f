package cmd

import (
	"bytes"

	"github.com/spf13/cobra"
)

// set at build time with -ldflags
var (
	Version   string
	BuildDate string
	GitCommit string
)

// VersionInfo describes the built binary
type VersionInfo struct {
	Version   string `json:"version,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
}

// NewVersionInfo returns the version information stamped at build time
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	}
	if Version != "" {
		ver.Version = Version
	}
	return ver
}

func (v VersionInfo) String() string {
	var buf bytes.Buffer
	buf.WriteString("Version: ")
	buf.WriteString(v.Version)
	buf.WriteString("\n")
	buf.WriteString("Build date: ")
	buf.WriteString(v.BuildDate)
	buf.WriteString("\n")
	buf.WriteString("Commit: ")
	buf.WriteString(v.GitCommit)
	buf.WriteString("\n")
	return buf.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the version of artpack",
	Long:  `Prints the version of artpack as stamped at build time.`,
	Run: func(cmd *cobra.Command, args []string) {
		infoLogger.Print(NewVersionInfo().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
