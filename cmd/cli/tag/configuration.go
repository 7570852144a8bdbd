package tag

import (
	"strings"

	"github.com/eymenaizona/build-creater/internal/summary"
	"github.com/eymenaizona/build-creater/internal/tags"
	"github.com/eymenaizona/build-creater/internal/versionlog"
	"github.com/eymenaizona/build-creater/internal/workflow"
)

const (
	configurationRepositoriesKeyConstant      = "repositories"
	configurationVersionFileKeyConstant       = "version_file"
	configurationTagPrefixKeyConstant         = "tag_prefix"
	configurationMajorKeyConstant             = "major"
	configurationMinorKeyConstant             = "minor"
	configurationRevertKeyConstant            = "revert"
	configurationRemoteKeyConstant            = "remote"
	configurationPrimaryBranchKeyConstant     = "primary_branch"
	configurationFallbackBranchKeyConstant    = "fallback_branch"
	configurationBaseBuildStrategyKeyConstant = "base_build_strategy"
	configurationRevertBehaviorKeyConstant    = "revert_behavior"
	configurationCascadeKeyConstant           = "cascade_submodules"
	configurationForcePushKeyConstant         = "force_push"
	configurationForceTagKeyConstant          = "force_tag"
	configurationCreateMissingLogKeyConstant  = "create_missing_log"
	configurationLogEntryFormatKeyConstant    = "log_entry_format"
	configurationMaxProbeAttemptsKeyConstant  = "max_probe_attempts"
	configurationWorkspaceRootKeyConstant     = "workspace_root"
	configurationDryRunKeyConstant            = "dry_run"
	configurationReportKeyConstant            = "report"

	defaultVersionFileConstant    = "build_version.txt"
	defaultTagPrefixConstant      = "build"
	defaultMajorConstant          = 1
	defaultMinorConstant          = 0
	defaultRemoteNameConstant     = "origin"
	defaultPrimaryBranchConstant  = "main"
	defaultFallbackBranchConstant = "master"
)

// CommandConfiguration captures the persisted settings of the tag command.
type CommandConfiguration struct {
	Repositories      []string `mapstructure:"repositories"`
	VersionFile       string   `mapstructure:"version_file"`
	TagPrefix         string   `mapstructure:"tag_prefix"`
	Major             int      `mapstructure:"major"`
	Minor             int      `mapstructure:"minor"`
	RevertTag         string   `mapstructure:"revert"`
	RemoteName        string   `mapstructure:"remote"`
	PrimaryBranch     string   `mapstructure:"primary_branch"`
	FallbackBranch    string   `mapstructure:"fallback_branch"`
	BaseBuildStrategy string   `mapstructure:"base_build_strategy"`
	RevertBehavior    string   `mapstructure:"revert_behavior"`
	CascadeSubmodules bool     `mapstructure:"cascade_submodules"`
	ForcePush         bool     `mapstructure:"force_push"`
	ForceTag          bool     `mapstructure:"force_tag"`
	CreateMissingLog  bool     `mapstructure:"create_missing_log"`
	LogEntryFormat    string   `mapstructure:"log_entry_format"`
	MaxProbeAttempts  int      `mapstructure:"max_probe_attempts"`
	WorkspaceRoot     string   `mapstructure:"workspace_root"`
	DryRun            bool     `mapstructure:"dry_run"`
	Report            string   `mapstructure:"report"`
}

// DefaultCommandConfiguration returns the baseline tag command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Repositories:      []string{},
		VersionFile:       defaultVersionFileConstant,
		TagPrefix:         defaultTagPrefixConstant,
		Major:             defaultMajorConstant,
		Minor:             defaultMinorConstant,
		RemoteName:        defaultRemoteNameConstant,
		PrimaryBranch:     defaultPrimaryBranchConstant,
		FallbackBranch:    defaultFallbackBranchConstant,
		BaseBuildStrategy: string(tags.StrategyLog),
		RevertBehavior:    string(workflow.RevertBehaviorStop),
		CreateMissingLog:  true,
		LogEntryFormat:    string(versionlog.FormatRelease),
		MaxProbeAttempts:  tags.DefaultMaxProbeAttemptsConstant,
		Report:            string(summary.FormatText),
	}
}

// DefaultConfigurationValues produces Viper defaults for the tag command under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + "."
	return map[string]any{
		prefix + configurationRepositoriesKeyConstant:      defaults.Repositories,
		prefix + configurationVersionFileKeyConstant:       defaults.VersionFile,
		prefix + configurationTagPrefixKeyConstant:         defaults.TagPrefix,
		prefix + configurationMajorKeyConstant:             defaults.Major,
		prefix + configurationMinorKeyConstant:             defaults.Minor,
		prefix + configurationRevertKeyConstant:            defaults.RevertTag,
		prefix + configurationRemoteKeyConstant:            defaults.RemoteName,
		prefix + configurationPrimaryBranchKeyConstant:     defaults.PrimaryBranch,
		prefix + configurationFallbackBranchKeyConstant:    defaults.FallbackBranch,
		prefix + configurationBaseBuildStrategyKeyConstant: defaults.BaseBuildStrategy,
		prefix + configurationRevertBehaviorKeyConstant:    defaults.RevertBehavior,
		prefix + configurationCascadeKeyConstant:           defaults.CascadeSubmodules,
		prefix + configurationForcePushKeyConstant:         defaults.ForcePush,
		prefix + configurationForceTagKeyConstant:          defaults.ForceTag,
		prefix + configurationCreateMissingLogKeyConstant:  defaults.CreateMissingLog,
		prefix + configurationLogEntryFormatKeyConstant:    defaults.LogEntryFormat,
		prefix + configurationMaxProbeAttemptsKeyConstant:  defaults.MaxProbeAttempts,
		prefix + configurationWorkspaceRootKeyConstant:     defaults.WorkspaceRoot,
		prefix + configurationDryRunKeyConstant:            defaults.DryRun,
		prefix + configurationReportKeyConstant:            defaults.Report,
	}
}

// Sanitize trims values and restores defaults for blank settings.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.Repositories = trimValues(configuration.Repositories)
	sanitized.VersionFile = valueOrDefault(configuration.VersionFile, defaults.VersionFile)
	sanitized.TagPrefix = valueOrDefault(configuration.TagPrefix, defaults.TagPrefix)
	sanitized.RevertTag = strings.TrimSpace(configuration.RevertTag)
	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.PrimaryBranch = valueOrDefault(configuration.PrimaryBranch, defaults.PrimaryBranch)
	sanitized.FallbackBranch = valueOrDefault(configuration.FallbackBranch, defaults.FallbackBranch)
	sanitized.BaseBuildStrategy = strings.ToLower(valueOrDefault(configuration.BaseBuildStrategy, defaults.BaseBuildStrategy))
	sanitized.RevertBehavior = strings.ToLower(valueOrDefault(configuration.RevertBehavior, defaults.RevertBehavior))
	sanitized.LogEntryFormat = strings.ToLower(valueOrDefault(configuration.LogEntryFormat, defaults.LogEntryFormat))
	sanitized.WorkspaceRoot = strings.TrimSpace(configuration.WorkspaceRoot)
	sanitized.Report = strings.ToLower(valueOrDefault(configuration.Report, defaults.Report))
	if sanitized.MaxProbeAttempts <= 0 {
		sanitized.MaxProbeAttempts = defaults.MaxProbeAttempts
	}
	return sanitized
}

// Validate rejects unsupported enum values.
func (configuration CommandConfiguration) Validate() error {
	if _, strategyError := tags.ParseStrategy(configuration.BaseBuildStrategy); strategyError != nil {
		return strategyError
	}
	if _, behaviorError := workflow.ParseRevertBehavior(configuration.RevertBehavior); behaviorError != nil {
		return behaviorError
	}
	if _, formatError := versionlog.ParseFormat(configuration.LogEntryFormat); formatError != nil {
		return formatError
	}
	if _, reportError := summary.ParseFormat(configuration.Report); reportError != nil {
		return reportError
	}
	return nil
}

// WorkflowConfiguration converts the command settings into the workflow run configuration.
func (configuration CommandConfiguration) WorkflowConfiguration() workflow.Configuration {
	return workflow.Configuration{
		VersionFile:         configuration.VersionFile,
		TagPrefix:           configuration.TagPrefix,
		Major:               configuration.Major,
		Minor:               configuration.Minor,
		RevertTag:           configuration.RevertTag,
		RemoteName:          configuration.RemoteName,
		PrimaryBranch:       configuration.PrimaryBranch,
		FallbackBranch:      configuration.FallbackBranch,
		BaseBuildStrategy:   tags.Strategy(configuration.BaseBuildStrategy),
		RevertBehavior:      workflow.RevertBehavior(configuration.RevertBehavior),
		CascadeToSubmodules: configuration.CascadeSubmodules,
		ForcePush:           configuration.ForcePush,
		ForceTag:            configuration.ForceTag,
		CreateMissingLog:    configuration.CreateMissingLog,
		LogEntryFormat:      versionlog.Format(configuration.LogEntryFormat),
		MaxProbeAttempts:    configuration.MaxProbeAttempts,
		WorkspaceRoot:       configuration.WorkspaceRoot,
		DryRun:              configuration.DryRun,
	}
}

func trimValues(raw []string) []string {
	trimmed := make([]string, 0, len(raw))
	for _, candidate := range raw {
		value := strings.TrimSpace(candidate)
		if len(value) == 0 {
			continue
		}
		trimmed = append(trimmed, value)
	}
	return trimmed
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
