package tag

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/eymenaizona/build-creater/internal/repos/dependencies"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
	"github.com/eymenaizona/build-creater/internal/summary"
	"github.com/eymenaizona/build-creater/internal/workflow"
)

const (
	commandUseNameConstant          = "tag"
	commandShortDescriptionConstant = "Resolve, record, tag and push the next build version"
	commandLongDescriptionConstant  = "tag processes each repository in order: it acquires a working copy, synchronizes submodules, reverts to --revert or brings the branch in line with the remote, resolves the next unused {prefix}-{major}.{minor}.{build} tag, appends it to the version log, commits, tags and pushes."
	commandExampleConstant          = "build-creater tag -r git@github.com:acme/api.git,~/src/web -M 2 -m 1\nbuild-creater tag -r ~/src/web -R build-2.1.14"

	repositoriesFlagNameConstant       = "repositories"
	repositoriesFlagShorthandConstant  = "r"
	repositoriesFlagUsageConstant      = "Repository URLs or paths, space or comma separated; repeatable"
	versionFileFlagNameConstant        = "version-file"
	versionFileFlagShorthandConstant   = "v"
	versionFileFlagUsageConstant       = "Version log file name at each repository root"
	tagPrefixFlagNameConstant          = "tag-prefix"
	tagPrefixFlagShorthandConstant     = "t"
	tagPrefixFlagUsageConstant         = "Tag prefix"
	majorFlagNameConstant              = "major"
	majorFlagShorthandConstant         = "M"
	majorFlagUsageConstant             = "Major version number"
	minorFlagNameConstant              = "minor"
	minorFlagShorthandConstant         = "m"
	minorFlagUsageConstant             = "Minor version number"
	revertFlagNameConstant             = "revert"
	revertFlagShorthandConstant        = "R"
	revertFlagUsageConstant            = "Tag to revert to instead of creating a new version"
	remoteFlagNameConstant             = "remote"
	remoteFlagUsageConstant            = "Remote to synchronize with and push to"
	primaryBranchFlagNameConstant      = "primary-branch"
	primaryBranchFlagUsageConstant     = "Branch releases are made from"
	fallbackBranchFlagNameConstant     = "fallback-branch"
	fallbackBranchFlagUsageConstant    = "Submodule branch used when the primary branch is absent"
	baseBuildStrategyFlagNameConstant  = "base-build-strategy"
	baseBuildStrategyFlagUsageConstant = "Where the base build number comes from (log or tag)"
	revertBehaviorFlagNameConstant     = "revert-behavior"
	revertBehaviorFlagUsageConstant    = "Action when the revert tag is missing (stop or continue)"
	cascadeFlagNameConstant            = "cascade-submodules"
	cascadeFlagUsageConstant           = "Record, tag and push the same version in each direct submodule"
	forcePushFlagNameConstant          = "force-push"
	forcePushFlagUsageConstant         = "Push with --force-with-lease"
	forceTagFlagNameConstant           = "force-tag"
	forceTagFlagUsageConstant          = "Replace an existing local tag"
	createMissingLogFlagNameConstant   = "create-missing-log"
	createMissingLogFlagUsageConstant  = "Create and commit the version log when it is absent"
	logEntryFormatFlagNameConstant     = "log-entry-format"
	logEntryFormatFlagUsageConstant    = "Version log line format (release, tag or workspace)"
	maxProbeAttemptsFlagNameConstant   = "max-probe-attempts"
	maxProbeAttemptsFlagUsageConstant  = "Maximum candidate tags checked per repository"
	workspaceRootFlagNameConstant      = "workspace-root"
	workspaceRootFlagUsageConstant     = "Directory for clones of remote repositories (default: system temp dir)"
	dryRunFlagNameConstant             = "dry-run"
	dryRunFlagUsageConstant            = "Resolve and report tags without committing, tagging or pushing"
	reportFlagNameConstant             = "report"
	reportFlagUsageConstant            = "Summary format (text, yaml or json)"

	noRepositoriesMessageConstant      = "no repositories provided; use --repositories"
	runUnsuccessfulMessageConstant     = "not every repository succeeded"
	runUnsuccessfulTemplateConstant    = "%d failed, %d skipped: %w"
	summaryRenderErrorTemplateConstant = "failed to render summary: %w"
)

// ErrNoRepositories indicates neither flags, arguments nor configuration named a repository.
var ErrNoRepositories = errors.New(noRepositoriesMessageConstant)

// ErrRunUnsuccessful indicates at least one repository failed or was skipped.
var ErrRunUnsuccessful = errors.New(runUnsuccessfulMessageConstant)

// CommandBuilder assembles the tag command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	GitExecutor                  shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	FileSystem                   afero.Fs
	Clock                        shared.Clock
}

// Build constructs the tag command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flags := command.Flags()
	flags.StringSliceP(repositoriesFlagNameConstant, repositoriesFlagShorthandConstant, nil, repositoriesFlagUsageConstant)
	flags.StringP(versionFileFlagNameConstant, versionFileFlagShorthandConstant, defaults.VersionFile, versionFileFlagUsageConstant)
	flags.StringP(tagPrefixFlagNameConstant, tagPrefixFlagShorthandConstant, defaults.TagPrefix, tagPrefixFlagUsageConstant)
	flags.IntP(majorFlagNameConstant, majorFlagShorthandConstant, defaults.Major, majorFlagUsageConstant)
	flags.IntP(minorFlagNameConstant, minorFlagShorthandConstant, defaults.Minor, minorFlagUsageConstant)
	flags.StringP(revertFlagNameConstant, revertFlagShorthandConstant, "", revertFlagUsageConstant)
	flags.String(remoteFlagNameConstant, defaults.RemoteName, remoteFlagUsageConstant)
	flags.String(primaryBranchFlagNameConstant, defaults.PrimaryBranch, primaryBranchFlagUsageConstant)
	flags.String(fallbackBranchFlagNameConstant, defaults.FallbackBranch, fallbackBranchFlagUsageConstant)
	flags.String(baseBuildStrategyFlagNameConstant, defaults.BaseBuildStrategy, baseBuildStrategyFlagUsageConstant)
	flags.String(revertBehaviorFlagNameConstant, defaults.RevertBehavior, revertBehaviorFlagUsageConstant)
	flags.Bool(cascadeFlagNameConstant, defaults.CascadeSubmodules, cascadeFlagUsageConstant)
	flags.Bool(forcePushFlagNameConstant, defaults.ForcePush, forcePushFlagUsageConstant)
	flags.Bool(forceTagFlagNameConstant, defaults.ForceTag, forceTagFlagUsageConstant)
	flags.Bool(createMissingLogFlagNameConstant, defaults.CreateMissingLog, createMissingLogFlagUsageConstant)
	flags.String(logEntryFormatFlagNameConstant, defaults.LogEntryFormat, logEntryFormatFlagUsageConstant)
	flags.Int(maxProbeAttemptsFlagNameConstant, defaults.MaxProbeAttempts, maxProbeAttemptsFlagUsageConstant)
	flags.String(workspaceRootFlagNameConstant, "", workspaceRootFlagUsageConstant)
	flags.Bool(dryRunFlagNameConstant, defaults.DryRun, dryRunFlagUsageConstant)
	flags.String(reportFlagNameConstant, defaults.Report, reportFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := applyFlagOverrides(command.Flags(), builder.resolveConfiguration())
	configuration.Repositories = append(configuration.Repositories, trimValues(arguments)...)
	configuration = configuration.Sanitize()

	if len(configuration.Repositories) == 0 {
		_ = command.Help()
		return ErrNoRepositories
	}
	if validationError := configuration.Validate(); validationError != nil {
		return validationError
	}
	reportFormat, _ := summary.ParseFormat(configuration.Report)

	logger := resolveLogger(builder.LoggerProvider)
	humanReadable := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadable = builder.HumanReadableLoggingProvider()
	}
	executorLogger := logger
	if humanReadable && builder.ConsoleLoggerProvider != nil {
		if consoleLogger := builder.ConsoleLoggerProvider(); consoleLogger != nil {
			executorLogger = consoleLogger
		}
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, executorLogger, humanReadable)
	if executorError != nil {
		return executorError
	}
	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.RepositoryManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	runner, runnerError := workflow.NewRunner(configuration.WorkflowConfiguration(), workflow.Dependencies{
		Logger:            logger,
		GitExecutor:       gitExecutor,
		RepositoryManager: repositoryManager,
		FileSystem:        dependencies.ResolveFileSystem(builder.FileSystem),
		Clock:             dependencies.ResolveClock(builder.Clock),
		Reporter:          shared.NewWriterReporter(command.OutOrStdout()),
	})
	if runnerError != nil {
		return runnerError
	}

	runSummary, runError := runner.Run(command.Context(), configuration.Repositories)
	if errors.Is(runError, workflow.ErrNoRepositories) {
		_ = command.Help()
		return ErrNoRepositories
	}

	if renderError := summary.Render(command.OutOrStdout(), reportFormat, runSummary); renderError != nil {
		return fmt.Errorf(summaryRenderErrorTemplateConstant, renderError)
	}

	if runError == nil && runSummary.Successful() {
		return nil
	}
	if runError == nil {
		runError = ErrRunUnsuccessful
	}
	return fmt.Errorf(runUnsuccessfulTemplateConstant, runSummary.Failed, runSummary.Skipped, runError)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

// applyFlagOverrides replaces configured values with explicitly set flags.
func applyFlagOverrides(flags *pflag.FlagSet, configuration CommandConfiguration) CommandConfiguration {
	overridden := configuration
	if flags.Changed(repositoriesFlagNameConstant) {
		overridden.Repositories, _ = flags.GetStringSlice(repositoriesFlagNameConstant)
	}
	overrideString(flags, versionFileFlagNameConstant, &overridden.VersionFile)
	overrideString(flags, tagPrefixFlagNameConstant, &overridden.TagPrefix)
	overrideInt(flags, majorFlagNameConstant, &overridden.Major)
	overrideInt(flags, minorFlagNameConstant, &overridden.Minor)
	overrideString(flags, revertFlagNameConstant, &overridden.RevertTag)
	overrideString(flags, remoteFlagNameConstant, &overridden.RemoteName)
	overrideString(flags, primaryBranchFlagNameConstant, &overridden.PrimaryBranch)
	overrideString(flags, fallbackBranchFlagNameConstant, &overridden.FallbackBranch)
	overrideString(flags, baseBuildStrategyFlagNameConstant, &overridden.BaseBuildStrategy)
	overrideString(flags, revertBehaviorFlagNameConstant, &overridden.RevertBehavior)
	overrideBool(flags, cascadeFlagNameConstant, &overridden.CascadeSubmodules)
	overrideBool(flags, forcePushFlagNameConstant, &overridden.ForcePush)
	overrideBool(flags, forceTagFlagNameConstant, &overridden.ForceTag)
	overrideBool(flags, createMissingLogFlagNameConstant, &overridden.CreateMissingLog)
	overrideString(flags, logEntryFormatFlagNameConstant, &overridden.LogEntryFormat)
	overrideInt(flags, maxProbeAttemptsFlagNameConstant, &overridden.MaxProbeAttempts)
	overrideString(flags, workspaceRootFlagNameConstant, &overridden.WorkspaceRoot)
	overrideBool(flags, dryRunFlagNameConstant, &overridden.DryRun)
	overrideString(flags, reportFlagNameConstant, &overridden.Report)
	return overridden
}

func overrideString(flags *pflag.FlagSet, name string, target *string) {
	if !flags.Changed(name) {
		return
	}
	if value, flagError := flags.GetString(name); flagError == nil {
		*target = value
	}
}

func overrideInt(flags *pflag.FlagSet, name string, target *int) {
	if !flags.Changed(name) {
		return
	}
	if value, flagError := flags.GetInt(name); flagError == nil {
		*target = value
	}
}

func overrideBool(flags *pflag.FlagSet, name string, target *bool) {
	if !flags.Changed(name) {
		return
	}
	if value, flagError := flags.GetBool(name); flagError == nil {
		*target = value
	}
}
