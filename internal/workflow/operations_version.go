package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/execshell"
	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
	"github.com/eymenaizona/build-creater/internal/summary"
	"github.com/eymenaizona/build-creater/internal/tags"
)

const (
	versionLogMissingMessageConstant     = "version log missing and creation disabled"
	versionLogMissingTemplateConstant    = "%w: %s"
	versionLogInspectTemplateConstant    = "failed to inspect version log: %w"
	versionLogCreateTemplateConstant     = "failed to create version log: %w"
	versionLogReadTemplateConstant       = "failed to read version log: %w"
	tagResolutionTemplateConstant        = "failed to resolve tag: %w"
	tagFetchFailedMessageConstant        = "Fetching tags failed; resolving against local tags"
	versionLogCreatedMessageConstant     = "Created version log"
	versionPlanTemplateConstant          = "PLAN: %s would be tagged %s\n"
	versionPlannedReasonTemplateConstant = "would tag %s"
	fileLogFieldConstant                 = "file"
	gitFetchSubcommandConstant           = "fetch"
	gitTagsFlagConstant                  = "--tags"
)

// ErrVersionLogMissing indicates the version log is absent and may not be created.
var ErrVersionLogMissing = errors.New(versionLogMissingMessageConstant)

// VersionResolveOperation ensures the version log exists and picks the next unused tag.
type VersionResolveOperation struct{}

// Name identifies the stage.
func (operation *VersionResolveOperation) Name() Stage {
	return StageVersionResolving
}

// Execute resolves state.Tag. Dry runs stop here with status planned.
func (operation *VersionResolveOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	configuration := environment.Configuration
	repositoryPath := state.Handle.Path

	if !configuration.DryRun {
		operation.fetchTags(executionContext, environment, state)
	}

	logExists, inspectError := environment.VersionLog.Exists(repositoryPath)
	if inspectError != nil {
		return fmt.Errorf(versionLogInspectTemplateConstant, inspectError)
	}
	if !logExists {
		if !configuration.CreateMissingLog {
			return classifiedError(repoerrors.KindMissingLog, fmt.Errorf(versionLogMissingTemplateConstant, ErrVersionLogMissing, environment.VersionLog.FileName()))
		}
		if !configuration.DryRun {
			if createError := environment.VersionLog.Create(repositoryPath); createError != nil {
				return fmt.Errorf(versionLogCreateTemplateConstant, createError)
			}
			if commitError := environment.Releases.CommitLogCreation(executionContext, repositoryPath); commitError != nil {
				return fmt.Errorf(versionLogCreateTemplateConstant, commitError)
			}
			state.LogCreated = true
			environment.Logger.Info(versionLogCreatedMessageConstant,
				zap.String(repositoryLogFieldConstant, state.Handle.Reference),
				zap.String(fileLogFieldConstant, environment.VersionLog.FileName()),
			)
		}
	}

	logBuild, readError := environment.VersionLog.LastBuild(repositoryPath, configuration.TagPrefix)
	if readError != nil {
		return fmt.Errorf(versionLogReadTemplateConstant, readError)
	}

	resolution, resolveError := environment.Resolver.Resolve(executionContext, repositoryPath, tags.Request{
		Prefix:           configuration.TagPrefix,
		Major:            configuration.Major,
		Minor:            configuration.Minor,
		LogBuild:         logBuild,
		Strategy:         configuration.BaseBuildStrategy,
		MaxProbeAttempts: configuration.MaxProbeAttempts,
	})
	if resolveError != nil {
		if errors.Is(resolveError, tags.ErrTagSpaceExhausted) {
			return classifiedError(repoerrors.KindTagSpaceExhausted, resolveError)
		}
		return fmt.Errorf(tagResolutionTemplateConstant, resolveError)
	}
	state.RecordTag(resolution.Tag)

	if configuration.DryRun {
		environment.Reporter.Printf(versionPlanTemplateConstant, state.Handle.Reference, state.TagName)
		state.Complete(summary.StatusPlanned, fmt.Sprintf(versionPlannedReasonTemplateConstant, state.TagName))
	}
	return nil
}

func (operation *VersionResolveOperation) fetchTags(executionContext context.Context, environment *Environment, state *RepositoryState) {
	if _, fetchError := environment.GitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitFetchSubcommandConstant, gitTagsFlagConstant, environment.Configuration.RemoteName},
		WorkingDirectory:     state.Handle.Path,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	}); fetchError != nil {
		environment.Logger.Warn(tagFetchFailedMessageConstant,
			zap.String(repositoryLogFieldConstant, state.Handle.Reference),
			zap.Error(fetchError),
		)
	}
}
