package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dailyspend/dailyspend/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "dailyspend",
		Short:   "Bank transaction totals by category or merchant",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "credentials.yaml", "credentials file (YAML or JSON)")
	pf.StringVar(&opts.tokenPath, "token", "access_token.txt", "provider access token file")
	pf.StringVar(&opts.dataDir, "data", ".", "directory for snapshots, imports and logs")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newInitCommand(),
		newReportCommand(opts),
		newYearCommand(opts),
		newYTDCommand(opts),
		newBalanceCommand(opts),
		newHistoryCommand(opts),
		newLinkCommand(opts),
	)

	return rootCmd
}
