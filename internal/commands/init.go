package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dailyspend/dailyspend/internal/config"
	"github.com/dailyspend/dailyspend/internal/gitops"
	"github.com/dailyspend/dailyspend/internal/importer"
)

func newInitCommand() *cobra.Command {
	var useGit bool
	var environment string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a data directory with a credentials template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, environment, useGit)
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "version snapshot files with git")
	cmd.Flags().StringVar(&environment, "environment", "development", "Plaid environment")

	return cmd
}

func runInit(out io.Writer, dir, environment string, useGit bool) error {
	for _, d := range []string{importer.ImportDir, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Never overwrite existing credentials.
	credPath := filepath.Join(dir, "credentials.yaml")
	if _, err := os.Stat(credPath); errors.Is(err, fs.ErrNotExist) {
		cfg := config.Default()
		cfg.Plaid.Environment = environment
		cfg.Git.AutoCommit = useGit
		if err := config.Save(credPath, cfg); err != nil {
			return fmt.Errorf("writing credentials template: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking credentials: %w", err)
	}

	gitignore := "credentials.yaml\ncredentials.json\naccess_token.txt\n.env\nimport/\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if useGit && !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}

	fmt.Fprintf(out, "Initialized dailyspend data directory at %s\n", dir)
	return nil
}
