package cmd

import (
	"fmt"
	"runtime"
	rdebug "runtime/debug"

	"github.com/spf13/cobra"

	"github.com/Sphmer/vsr/pkg/settings"
)

// cliVersionString builds a human-readable version string for CLI output and
// Cobra's --version flag. Build-time ldflags win; otherwise the module build
// info fills in what it can.
func cliVersionString() string {
	version := settings.VersionInformation.BuildVersion
	commit := settings.VersionInformation.Commit

	if info, ok := rdebug.ReadBuildInfo(); ok {
		if version == "v0.0.0-dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		if commit == "unknown" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					commit = s.Value[:7]
					break
				}
			}
		}
	}

	if commit != "" && commit != "unknown" {
		return fmt.Sprintf("%s %s (%s, go %s)", settings.CliBinaryName, version, commit, runtime.Version())
	}
	return fmt.Sprintf("%s %s (go %s)", settings.CliBinaryName, version, runtime.Version())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print vsr version",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(cliVersionString()) //nolint:forbidigo
		return nil
	},
}
