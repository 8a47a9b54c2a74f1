package cmd

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cratediff/cratediff/application"
	"github.com/cratediff/cratediff/config"
	"github.com/cratediff/cratediff/domain"
	"github.com/cratediff/cratediff/infrastructure/gitrepo"
	"github.com/cratediff/cratediff/infrastructure/render"
)

// ErrSeverityThreshold signals that the diff succeeded but contained a change
// at or above the --fail-on severity. main maps it to exit code 2.
var ErrSeverityThreshold = errors.New("change severity threshold met")

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	fromRev     string
	toRev       string
	format      string
	minSeverity string
	failOn      string
	noDev       bool
	noBuild     bool
	noTargets   bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Diff Cargo.toml dependencies between two revisions",
	Long: `Compare the dependency declarations of the repository's Cargo.toml at
two revisions and print the changes.

By default the committed manifest at HEAD is compared against the working
copy, which makes the command usable as a pre-commit gate. Both sides can be
pinned to arbitrary commit-ish references with --from and --to.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiff,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	diffCmd.Flags().StringVar(&fromRev, "from", "HEAD",
		"Revision for the \"before\" manifest")
	diffCmd.Flags().StringVar(&toRev, "to", gitrepo.WorkingTree,
		"Revision for the \"after\" manifest (default: working copy)")
	diffCmd.Flags().StringVar(&format, "format", "",
		"Output format: text or json")
	diffCmd.Flags().StringVar(&minSeverity, "min-severity", "",
		"Only report version changes at or above this severity")
	diffCmd.Flags().StringVar(&failOn, "fail-on", "",
		"Exit with code 2 when any change meets this severity")
	diffCmd.Flags().BoolVar(&noDev, "no-dev", false,
		"Skip the dev-dependencies table")
	diffCmd.Flags().BoolVar(&noBuild, "no-build", false,
		"Skip the build-dependencies table")
	diffCmd.Flags().BoolVar(&noTargets, "no-targets", false,
		"Skip target-conditional dependency tables")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	if err := validateFlagSeverities(); err != nil {
		return err
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("format must be %q or %q, got %q", "text", "json", cfg.Format)
	}

	repoPath := "."
	if len(args) == 1 {
		repoPath = args[0]
	}

	svc, err := injectDiffService(repoPath)
	if err != nil {
		return err
	}

	minimum, err := cfg.MinimumSeverity()
	if err != nil {
		return err
	}
	var failThreshold domain.Severity
	if cfg.FailOnSeverity != "" {
		if failThreshold, err = domain.ParseSeverity(cfg.FailOnSeverity); err != nil {
			return err
		}
	}

	report, err := svc.Run(cmd.Context(), application.RunOptions{
		From:                      fromRev,
		To:                        toRev,
		IncludeDevDependencies:    cfg.IncludeDevDependencies,
		IncludeBuildDependencies:  cfg.IncludeBuildDependencies,
		IncludeTargetDependencies: cfg.IncludeTargetDependencies,
		MinimumReportedSeverity:   minimum,
	})
	if err != nil {
		return err
	}

	if renderErr := renderReport(report, cfg.Format); renderErr != nil {
		return renderErr
	}

	if cfg.FailOnSeverity != "" && report.MeetsThreshold(failThreshold) {
		return fmt.Errorf("%w: severity >= %s", ErrSeverityThreshold, failThreshold)
	}
	return nil
}

// loadConfig reads the configured file, or auto-detects one, or falls back to
// defaults when none exists.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		detected, err := config.FindConfigFile()
		if err != nil {
			return config.Default(), nil
		}
		path = detected
	}
	logger.Debugf("using config file: %s", path)
	return config.Load(path)
}

// applyFlagOverrides lets explicitly set flags win over file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("no-dev") {
		cfg.IncludeDevDependencies = !noDev
	}
	if cmd.Flags().Changed("no-build") {
		cfg.IncludeBuildDependencies = !noBuild
	}
	if cmd.Flags().Changed("no-targets") {
		cfg.IncludeTargetDependencies = !noTargets
	}
	if cmd.Flags().Changed("min-severity") {
		cfg.MinimumReportedSeverity = minSeverity
	}
	if cmd.Flags().Changed("fail-on") {
		cfg.FailOnSeverity = failOn
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = format
	}
}

func validateFlagSeverities() error {
	for _, value := range []string{minSeverity, failOn} {
		if value == "" {
			continue
		}
		if _, err := domain.ParseSeverity(value); err != nil {
			return err
		}
	}
	return nil
}

func renderReport(report *domain.Report, format string) error {
	if format == "json" {
		return render.JSON(os.Stdout, report)
	}
	return render.Text(os.Stdout, report)
}
