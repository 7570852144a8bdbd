package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
	"github.com/eymenaizona/build-creater/internal/revert"
	"github.com/eymenaizona/build-creater/internal/summary"
)

const (
	revertActionConstant                = "revert"
	revertTargetMissingMessageConstant  = "revert target not found"
	revertTargetMissingTemplateConstant = "%w: %s"
	revertErrorTemplateConstant         = "revert to %s: %w"
	revertSkippedMessageConstant        = "Revert tag not found; continuing with a version bump"
	revertPlanTemplateConstant          = "PLAN: %s would revert to %s\n"
	revertPlannedReasonTemplateConstant = "would revert to %s"
)

// ErrRevertTargetNotFound indicates the configured revert tag does not exist.
var ErrRevertTargetNotFound = errors.New(revertTargetMissingMessageConstant)

// RevertOperation checks the repository out at the configured revert tag.
// A found tag ends processing; a missing tag either fails the repository or falls through, per RevertBehavior.
type RevertOperation struct{}

// Name identifies the stage.
func (operation *RevertOperation) Name() Stage {
	return StageReverting
}

// Execute is a no-op unless a revert tag is configured.
func (operation *RevertOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	tagName := environment.Configuration.RevertTag
	if len(tagName) == 0 {
		return nil
	}

	result, revertError := environment.Reverter.Revert(executionContext, state.Handle, revert.Options{TagName: tagName, DryRun: environment.Configuration.DryRun})
	if revertError != nil {
		return fmt.Errorf(revertErrorTemplateConstant, tagName, revertError)
	}

	if !result.Found {
		if environment.Configuration.RevertBehavior == RevertBehaviorContinue {
			environment.Logger.Info(revertSkippedMessageConstant,
				zap.String(repositoryLogFieldConstant, state.Handle.Reference),
				zap.String(tagLogFieldConstant, tagName),
			)
			return nil
		}
		return classifiedError(repoerrors.KindRevertTargetNotFound, fmt.Errorf(revertTargetMissingTemplateConstant, ErrRevertTargetNotFound, tagName))
	}

	state.TagName = tagName
	if environment.Configuration.DryRun {
		environment.Reporter.Printf(revertPlanTemplateConstant, state.Handle.Reference, tagName)
		state.Complete(summary.StatusPlanned, fmt.Sprintf(revertPlannedReasonTemplateConstant, tagName))
		return nil
	}

	for _, submoduleResult := range result.Submodules {
		state.AddSubmoduleOutcomes(summary.SubmoduleOutcome{
			Path:   submoduleResult.Path,
			Action: revertActionConstant,
			Status: string(submoduleResult.Status),
			Reason: submoduleResult.Reason,
		})
	}
	state.Complete(summary.StatusReverted, "")
	return nil
}
