package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sphmer/vsr/internal/config"
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List saved file configurations",
	Long: `configs lists every file whose display preferences were saved, newest
first. Entries whose file no longer exists are marked; "configs clean"
removes those together with entries whose file content has changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := configsStore()
		if err != nil {
			return err
		}
		saved, err := store.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(saved) == 0 {
			fmt.Fprintln(out, "No saved configurations.")
			return nil
		}
		for _, s := range saved {
			marker := ""
			if _, err := os.Stat(s.FilePath); err != nil {
				marker = "  [missing]"
			}
			fmt.Fprintf(out, "%s  (%s, saved %s)%s\n",
				s.FileName, dataSetCountLabel(len(s.Prefs)), s.CreatedAt.Format("2006-01-02 15:04"), marker)
			fmt.Fprintf(out, "    %s\n", s.FilePath)
		}
		fmt.Fprintf(out, "\n%d saved configuration(s)\n", len(saved))
		return nil
	},
}

var configsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove configurations whose file is missing or has changed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := configsStore()
		if err != nil {
			return err
		}
		removed, err := store.Cleanup()
		if err != nil {
			return err
		}
		unit := "entries"
		if removed == 1 {
			unit = "entry"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale %s.\n", removed, unit)
		return nil
	},
}

// configsStore resolves the preference directory the same way the root
// command does, but without the interactive pipeline around it.
func configsStore() (*config.FileStore, error) {
	appCfg, err := config.LoadAppConfig(resolveConfigPath(configFile))
	if err != nil {
		return nil, err
	}
	return resolveStore(appCfg)
}

func dataSetCountLabel(n int) string {
	if n == 1 {
		return "1 data set"
	}
	return fmt.Sprintf("%d data sets", n)
}

func init() { //nolint:gochecknoinits
	configsCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a TOML config file (default: ~/.config/vsr/config.toml)")
	configsCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "directory for saved preferences (default: ~/.vsr/rep_saved)")
	configsCmd.AddCommand(configsCleanCmd)
}
