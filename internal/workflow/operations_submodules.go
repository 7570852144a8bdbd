package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/submodules"
	"github.com/eymenaizona/build-creater/internal/summary"
)

const (
	submoduleSyncActionConstant            = "sync"
	submoduleSyncErrorTemplateConstant     = "submodule synchronization: %w"
	submoduleSyncDryRunSkipMessageConstant = "Dry run; skipping submodule synchronization"
)

// SubmodulesOperation initializes submodules and fast-forwards direct submodules to their remote branches.
type SubmodulesOperation struct{}

// Name identifies the stage.
func (operation *SubmodulesOperation) Name() Stage {
	return StageSubmodulesSyncing
}

// Execute synchronizes submodules. Dry runs skip the stage entirely.
func (operation *SubmodulesOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	if environment.Configuration.DryRun {
		environment.Logger.Debug(submoduleSyncDryRunSkipMessageConstant, zap.String(repositoryLogFieldConstant, state.Handle.Reference))
		return nil
	}

	result, synchronizeError := environment.Submodules.Synchronize(executionContext, submodules.Options{
		RepositoryPath: state.Handle.Path,
		RemoteName:     environment.Configuration.RemoteName,
		PrimaryBranch:  environment.Configuration.PrimaryBranch,
		FallbackBranch: environment.Configuration.FallbackBranch,
	})
	if synchronizeError != nil {
		return fmt.Errorf(submoduleSyncErrorTemplateConstant, synchronizeError)
	}

	for _, submoduleResult := range result.Submodules {
		state.AddSubmoduleOutcomes(summary.SubmoduleOutcome{
			Path:   submoduleResult.Path,
			Action: submoduleSyncActionConstant,
			Status: string(submoduleResult.Status),
			Branch: submoduleResult.Branch,
			Reason: submoduleResult.Reason,
		})
	}
	return nil
}
