package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/branches/cd"
	"github.com/eymenaizona/build-creater/internal/branches/refresh"
	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
)

const (
	detachedHeadMessageConstant         = "detached HEAD and no remote primary branch to release from"
	currentBranchErrorTemplateConstant  = "failed to read current branch: %w"
	remoteBranchErrorTemplateConstant   = "failed to look up %s/%s: %w"
	branchSyncErrorTemplateConstant     = "branch synchronization: %w"
	stashReapplyReasonConstant          = "local changes left in stash after conflicting pop"
	remainingOnBranchMessageConstant    = "Remote primary branch missing; releasing from the current branch"
	branchSyncDryRunSkipMessageConstant = "Dry run; skipping branch synchronization"
)

// ErrDetachedHead indicates there is no branch to commit and push the release on.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// BranchSyncOperation moves the repository onto the remote primary branch and makes it match the remote.
type BranchSyncOperation struct{}

// Name identifies the stage.
func (operation *BranchSyncOperation) Name() Stage {
	return StageBranchSyncing
}

// Execute selects the release branch. Dry runs only read the current branch.
func (operation *BranchSyncOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	configuration := environment.Configuration
	repositoryPath := state.Handle.Path

	currentBranch, branchError := environment.RepositoryManager.GetCurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return fmt.Errorf(currentBranchErrorTemplateConstant, branchError)
	}
	if configuration.DryRun {
		environment.Logger.Debug(branchSyncDryRunSkipMessageConstant, zap.String(repositoryLogFieldConstant, state.Handle.Reference))
		state.Handle.Branch = currentBranch
		return nil
	}

	primaryExists, lookupError := environment.RepositoryManager.RemoteBranchExists(executionContext, repositoryPath, configuration.RemoteName, configuration.PrimaryBranch)
	if lookupError != nil {
		return fmt.Errorf(remoteBranchErrorTemplateConstant, configuration.RemoteName, configuration.PrimaryBranch, lookupError)
	}

	if !primaryExists {
		if len(currentBranch) == 0 {
			return classifiedError(repoerrors.KindBackend, ErrDetachedHead)
		}
		environment.Logger.Info(remainingOnBranchMessageConstant,
			zap.String(repositoryLogFieldConstant, state.Handle.Reference),
			zap.String(branchLogFieldConstant, currentBranch),
		)
		state.Handle.Branch = currentBranch
		return nil
	}

	if currentBranch != configuration.PrimaryBranch {
		if _, changeError := environment.BranchSwitcher.Change(executionContext, cd.Options{
			RepositoryPath:  repositoryPath,
			BranchName:      configuration.PrimaryBranch,
			RemoteName:      configuration.RemoteName,
			CreateIfMissing: true,
		}); changeError != nil {
			return fmt.Errorf(branchSyncErrorTemplateConstant, changeError)
		}
	}

	result, synchronizeError := environment.BranchSynchronizer.Synchronize(executionContext, refresh.Options{
		RepositoryPath: repositoryPath,
		BranchName:     configuration.PrimaryBranch,
		RemoteName:     configuration.RemoteName,
	})
	if synchronizeError != nil {
		return fmt.Errorf(branchSyncErrorTemplateConstant, synchronizeError)
	}
	if result.StashReapplyFailed {
		state.Reason = stashReapplyReasonConstant
	}

	state.Handle.Branch = configuration.PrimaryBranch
	return nil
}
