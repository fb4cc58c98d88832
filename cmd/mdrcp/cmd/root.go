package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/mdrcp/mdrcp/internal/artifact"
	"github.com/mdrcp/mdrcp/internal/config"
	"github.com/mdrcp/mdrcp/internal/logger"
	"github.com/mdrcp/mdrcp/internal/selfupdate"
	"github.com/mdrcp/mdrcp/internal/service/deploy"
	"github.com/mdrcp/mdrcp/internal/version"
)

var (
	// configPath to the per-project defaults YAML file.
	configPath string

	// targetOverride is the explicit destination directory.
	targetOverride string

	// summaryFormat selects the summary rendering: text, json or json-pretty.
	summaryFormat string

	// logLevel sets the diagnostic log level.
	logLevel string

	// quietMode suppresses text output.
	quietMode bool

	// releaseProfile and debugProfile select the build profile.
	releaseProfile bool
	debugProfile   bool

	// tauriMode and noTauriMode override Tauri project detection.
	tauriMode   bool
	noTauriMode bool

	// rootCmd represents the base command for deploying built executables.
	rootCmd = &cobra.Command{
		Use:          "mdrcp [project-dir]",
		Short:        "Copy locally built cargo executables to the deployment directory",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			projectDir := "."
			if len(args) > 0 {
				projectDir = args[0]
			}

			return runDeploy(ctx, cmd, projectDir)
		},
	}

	// finishUpdateCmd is the private helper entry point. The deployment run
	// spawns a temp copy of this binary with exactly this subcommand; it is
	// hidden because users never invoke it by hand.
	finishUpdateCmd = &cobra.Command{
		Use:          selfupdate.FinishCommandName + " <source> <dest>",
		Short:        "Finish a pending self-update (internal)",
		Hidden:       true,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return selfupdate.Finish(ctx, args[0], args[1])
		},
	}
)

// runDeploy merges file defaults with flags, executes the deployment and
// renders the summary. A summary with failed copies turns into a non-zero
// exit through the returned error.
func runDeploy(ctx context.Context, cmd *cobra.Command, projectDir string) error {
	cfg, err := loadDefaults(projectDir)
	if err != nil {
		return err
	}

	applyLogLevel(cmd, cfg)

	options := &deploy.Options{
		ProjectDir:     projectDir,
		TargetOverride: effectiveTarget(cmd, cfg),
		Profile:        effectiveProfile(cfg),
		Tauri:          effectiveTauri(),
	}

	summary, err := deploy.Run(ctx, options)
	if err != nil {
		return err
	}

	if err := renderSummary(os.Stdout, summary, effectiveFormat(cmd, cfg), effectiveQuiet(cmd, cfg)); err != nil {
		return err
	}

	return summary.Err()
}

// loadDefaults reads the optional .mdrcp.yaml from the project directory, or
// from an explicit --config path. A missing default file is fine.
func loadDefaults(projectDir string) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(projectDir, config.DefaultConfigFilename)
	}

	return config.Load(path)
}

// applyLogLevel raises the global log level from the flag or the defaults
// file. Quiet mode silences everything below the error level.
func applyLogLevel(cmd *cobra.Command, cfg *config.Config) {
	if effectiveQuiet(cmd, cfg) {
		logger.SetLevel(zapcore.ErrorLevel)
		return
	}

	level := logLevel
	if !cmd.Flags().Changed("log-level") && cfg != nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}

	if parsed, ok := logger.ParseLogLevel(level); ok {
		logger.SetLevel(parsed)
	}
}

// effectiveTarget prefers the flag, then the defaults file.
func effectiveTarget(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("target") || cfg == nil || cfg.TargetDir == "" {
		return targetOverride
	}

	return cfg.TargetDir
}

// effectiveProfile prefers the profile flags, then the defaults file.
func effectiveProfile(cfg *config.Config) artifact.Profile {
	switch {
	case debugProfile:
		return artifact.ProfileDebug
	case releaseProfile:
		return artifact.ProfileRelease
	}

	if cfg != nil && cfg.Profile != "" {
		if profile, ok := artifact.ParseProfile(cfg.Profile); ok {
			return profile
		}
	}

	return artifact.ProfileRelease
}

// effectiveTauri maps the detection override flags to the service mode.
func effectiveTauri() deploy.TauriOverride {
	switch {
	case tauriMode:
		return deploy.TauriForced
	case noTauriMode:
		return deploy.TauriDisabled
	default:
		return deploy.TauriAuto
	}
}

// effectiveFormat prefers the flag, then the defaults file.
func effectiveFormat(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("summary") || cfg == nil || cfg.Summary == "" {
		return summaryFormat
	}

	return cfg.Summary
}

// effectiveQuiet prefers the flag, then the defaults file.
func effectiveQuiet(cmd *cobra.Command, cfg *config.Config) bool {
	if cmd.Flags().Changed("quiet") || cfg == nil {
		return quietMode
	}

	return quietMode || cfg.Quiet
}

// Execute runs the mdrcp CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(finishUpdateCmd)

	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to defaults file (default .mdrcp.yaml in the project directory)")
	flags.StringVarP(&targetOverride, "target", "t", "", "destination directory (relative paths resolve against the project directory)")
	flags.StringVar(&summaryFormat, "summary", "text", "summary format: text, json or json-pretty")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error or fatal")
	flags.BoolVarP(&quietMode, "quiet", "q", false, "suppress text output")
	flags.BoolVar(&releaseProfile, "release", false, "deploy release artifacts (default)")
	flags.BoolVar(&debugProfile, "debug", false, "deploy debug artifacts")
	flags.BoolVar(&tauriMode, "tauri", false, "treat the project as a Tauri project")
	flags.BoolVar(&noTauriMode, "no-tauri", false, "skip Tauri project detection")

	rootCmd.MarkFlagsMutuallyExclusive("release", "debug")
	rootCmd.MarkFlagsMutuallyExclusive("tauri", "no-tauri")
}
