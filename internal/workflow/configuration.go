package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eymenaizona/build-creater/internal/repos/shared"
	"github.com/eymenaizona/build-creater/internal/tags"
	"github.com/eymenaizona/build-creater/internal/versionlog"
)

const (
	unsupportedRevertBehaviorTemplateConstant = "unsupported revert behavior %q (expected stop or continue)"
	negativeVersionComponentsMessageConstant  = "major and minor must be non-negative"
	tagPrefixRequiredMessageConstant          = "tag prefix must be provided"
	versionFileRequiredMessageConstant        = "version file must be provided"
)

// RevertBehavior decides what happens when the revert tag does not exist.
type RevertBehavior string

// Supported revert behaviors.
const (
	RevertBehaviorStop     RevertBehavior = RevertBehavior("stop")
	RevertBehaviorContinue RevertBehavior = RevertBehavior("continue")
)

// ParseRevertBehavior validates a configured revert behavior. Empty input selects RevertBehaviorStop.
func ParseRevertBehavior(value string) (RevertBehavior, error) {
	switch RevertBehavior(strings.ToLower(strings.TrimSpace(value))) {
	case RevertBehaviorStop, "":
		return RevertBehaviorStop, nil
	case RevertBehaviorContinue:
		return RevertBehaviorContinue, nil
	default:
		return "", fmt.Errorf(unsupportedRevertBehaviorTemplateConstant, value)
	}
}

// Configuration carries the validated run settings shared by every repository.
type Configuration struct {
	VersionFile         string
	TagPrefix           string
	Major               int
	Minor               int
	RevertTag           string
	RemoteName          string
	PrimaryBranch       string
	FallbackBranch      string
	BaseBuildStrategy   tags.Strategy
	RevertBehavior      RevertBehavior
	CascadeToSubmodules bool
	ForcePush           bool
	ForceTag            bool
	CreateMissingLog    bool
	LogEntryFormat      versionlog.Format
	MaxProbeAttempts    int
	WorkspaceRoot       string
	DryRun              bool
}

// Validate reports configuration values the workflow cannot run with.
func (configuration Configuration) Validate() error {
	if len(strings.TrimSpace(configuration.TagPrefix)) == 0 {
		return errors.New(tagPrefixRequiredMessageConstant)
	}
	if len(strings.TrimSpace(configuration.VersionFile)) == 0 {
		return errors.New(versionFileRequiredMessageConstant)
	}
	if configuration.Major < 0 || configuration.Minor < 0 {
		return errors.New(negativeVersionComponentsMessageConstant)
	}
	if _, strategyError := tags.ParseStrategy(string(configuration.BaseBuildStrategy)); strategyError != nil {
		return strategyError
	}
	if _, behaviorError := ParseRevertBehavior(string(configuration.RevertBehavior)); behaviorError != nil {
		return behaviorError
	}
	if _, formatError := versionlog.ParseFormat(string(configuration.LogEntryFormat)); formatError != nil {
		return formatError
	}
	return nil
}

func (configuration Configuration) withDefaults() Configuration {
	normalized := configuration
	normalized.TagPrefix = strings.TrimSpace(configuration.TagPrefix)
	normalized.VersionFile = strings.TrimSpace(configuration.VersionFile)
	normalized.RevertTag = strings.TrimSpace(configuration.RevertTag)
	normalized.RemoteName = valueOrDefault(configuration.RemoteName, shared.OriginRemoteNameConstant)
	normalized.PrimaryBranch = valueOrDefault(configuration.PrimaryBranch, shared.DefaultPrimaryBranchConstant)
	normalized.FallbackBranch = valueOrDefault(configuration.FallbackBranch, shared.DefaultFallbackBranchConstant)
	if len(normalized.BaseBuildStrategy) == 0 {
		normalized.BaseBuildStrategy = tags.StrategyLog
	}
	if len(normalized.RevertBehavior) == 0 {
		normalized.RevertBehavior = RevertBehaviorStop
	}
	if len(normalized.LogEntryFormat) == 0 {
		normalized.LogEntryFormat = versionlog.FormatRelease
	}
	if normalized.MaxProbeAttempts <= 0 {
		normalized.MaxProbeAttempts = tags.DefaultMaxProbeAttemptsConstant
	}
	return normalized
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
