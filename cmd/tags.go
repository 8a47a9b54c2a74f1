package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cratediff/cratediff/infrastructure/gitrepo"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var tagsCmd = &cobra.Command{
	Use:   "tags [path]",
	Short: "List repository tags sorted by semantic version",
	Long: `List the repository's tags newest first. Useful for picking the
revision references to pass to "cratediff diff --from/--to".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTags,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	repoPath := "."
	if len(args) == 1 {
		repoPath = args[0]
	}

	repo, err := gitrepo.Open(repoPath)
	if err != nil {
		return err
	}

	tags, err := repo.Tags()
	if err != nil {
		return err
	}

	for _, tag := range tags {
		fmt.Fprintln(cmd.OutOrStdout(), tag)
	}
	return nil
}
