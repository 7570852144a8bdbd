package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/releases"
	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
	"github.com/eymenaizona/build-creater/internal/summary"
)

const (
	releaseActionConstant              = "release"
	recordVersionErrorTemplateConstant = "record %s: %w"
	cascadeFailedMessageConstant       = "Submodule cascade could not start"
)

// CommitOperation appends the resolved version to the log and commits it.
type CommitOperation struct{}

// Name identifies the stage.
func (operation *CommitOperation) Name() Stage {
	return StageCommitting
}

// Execute records state.Tag.
func (operation *CommitOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	if _, recordError := environment.Releases.RecordVersion(executionContext, state.Handle, state.Tag); recordError != nil {
		return fmt.Errorf(recordVersionErrorTemplateConstant, state.TagName, recordError)
	}
	return nil
}

// TagOperation creates the resolved tag at HEAD.
type TagOperation struct{}

// Name identifies the stage.
func (operation *TagOperation) Name() Stage {
	return StageTagging
}

// Execute creates state.Tag, forcing it when configured.
func (operation *TagOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	return environment.Releases.CreateTag(executionContext, state.Handle.Path, state.TagName, environment.Configuration.ForceTag)
}

// PushOperation publishes the branch and tag, then optionally cascades the release into submodules.
// A parent push failure is fatal for the batch; cascade failures are recorded per submodule.
type PushOperation struct{}

// Name identifies the stage.
func (operation *PushOperation) Name() Stage {
	return StagePushing
}

// Execute pushes and completes the repository with status succeeded.
func (operation *PushOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	configuration := environment.Configuration
	pushError := environment.Releases.Push(executionContext, state.Handle.Path, releases.PushOptions{
		RemoteName: configuration.RemoteName,
		BranchName: state.Handle.Branch,
		TagName:    state.TagName,
		Force:      configuration.ForcePush,
	})

	if configuration.CascadeToSubmodules {
		operation.cascade(executionContext, environment, state)
	}

	if pushError != nil {
		return classifiedError(repoerrors.KindPush, pushError)
	}
	state.Complete(summary.StatusSucceeded, state.Reason)
	return nil
}

func (operation *PushOperation) cascade(executionContext context.Context, environment *Environment, state *RepositoryState) {
	configuration := environment.Configuration
	submoduleReleases, cascadeError := environment.Releases.CascadeToSubmodules(executionContext, state.Handle, releases.Options{
		Tag:        state.Tag,
		RemoteName: configuration.RemoteName,
		ForceTag:   configuration.ForceTag,
		ForcePush:  configuration.ForcePush,
	})
	if cascadeError != nil {
		environment.Logger.Warn(cascadeFailedMessageConstant,
			zap.String(repositoryLogFieldConstant, state.Handle.Reference),
			zap.Error(cascadeError),
		)
		return
	}
	for _, release := range submoduleReleases {
		state.AddSubmoduleOutcomes(summary.SubmoduleOutcome{
			Path:   release.Path,
			Action: releaseActionConstant,
			Status: string(release.Status),
			Branch: release.Branch,
			Reason: release.Reason,
		})
	}
}
