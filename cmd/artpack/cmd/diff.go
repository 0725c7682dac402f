package cmd

import (
	"context"
	"fmt"

	"github.com/buildtrace/artpack/pkg/core"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// diffCmd compares a local build directory against a tagged bundle
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff a build directory against a tag",
	Long: `Compare the compiled units in a local build directory against the bundle a
tag points to.

Each differing unit is reported on one line: A for units only present in the
tagged bundle, D for units only present locally, M for units whose content
differs. With --exit-code the command exits with status 1 when there are
differences, like "git diff".`,
	Example: `% artpack diff --project my-protocol --tag v1.4.0 --path out/
M src/Token.sol:Token
A src/Vault.sol:Vault`,
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
		report, err := core.Diff(ctx, stores, bundle,
			artpackFlags.project, artpackFlags.tag.Name,
			core.Logger(l))
		if err != nil {
			wrapFatalln(fmt.Sprintf("diff against %s/%s", artpackFlags.project, artpackFlags.tag.Name), err)
			return
		}
		if !report.HasChanges() {
			infoLogger.Printf("no changes (%d units identical to %s)", report.Unchanged, artpackFlags.tag.Name)
			return
		}
		for _, entry := range report.Entries {
			infoLogger.Printf("%s %s", colorize(entry.Type), entry.Name)
		}
		infoLogger.Printf("%d unchanged", report.Unchanged)
		if artpackFlags.diff.exitCode {
			osExit(1)
		}
	},
}

func colorize(t core.DiffEntryType) string {
	if artpackFlags.diff.noColor {
		return t.String()
	}
	switch t {
	case core.DiffEntryTypeAdd:
		return color.GreenString(t.String())
	case core.DiffEntryTypeDel:
		return color.RedString(t.String())
	case core.DiffEntryTypeMod:
		return color.YellowString(t.String())
	}
	return t.String()
}

func init() {
	requireFlags(diffCmd,
		addProjectFlag(diffCmd),
		addTagFlag(diffCmd),
		addPathFlag(diffCmd),
	)
	diffCmd.Flags().BoolVar(&artpackFlags.diff.exitCode, "exit-code", false,
		"Exit with status 1 when there are differences")
	diffCmd.Flags().BoolVar(&artpackFlags.diff.noColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(diffCmd)
}
