package workflow

import (
	"context"

	"go.uber.org/zap"

	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
	"github.com/eymenaizona/build-creater/internal/summary"
)

const (
	stageStartedMessageConstant       = "Stage started"
	repositoryFinishedMessageConstant = "Repository finished"
	repositoryAbortedMessageConstant  = "Repository aborted"
	repositoryLogFieldConstant        = "repository"
	pathLogFieldConstant              = "path"
	stageLogFieldConstant             = "stage"
	statusLogFieldConstant            = "status"
	branchLogFieldConstant            = "branch"
	tagLogFieldConstant               = "tag"
	kindLogFieldConstant              = "kind"
	fatalLogFieldConstant             = "fatal"
)

// DefaultOperations returns the stages in execution order.
func DefaultOperations() []Operation {
	return []Operation{
		&AcquireOperation{},
		&SubmodulesOperation{},
		&RevertOperation{},
		&BranchSyncOperation{},
		&VersionResolveOperation{},
		&CommitOperation{},
		&TagOperation{},
		&PushOperation{},
	}
}

// Executor drives a single repository through the workflow operations.
type Executor struct {
	operations  []Operation
	environment *Environment
}

// NewExecutor constructs an Executor instance.
func NewExecutor(operations []Operation, environment *Environment) *Executor {
	return &Executor{operations: append([]Operation{}, operations...), environment: environment}
}

// Execute runs operations in order until one fails or marks the repository complete.
// Failures are returned as repoerrors.OperationError and reflected in the outcome.
func (executor *Executor) Execute(executionContext context.Context, reference string) (summary.RepositoryOutcome, error) {
	logger := executor.environment.Logger
	state := NewRepositoryState(reference)

	for operationIndex := range executor.operations {
		operation := executor.operations[operationIndex]
		if operation == nil {
			continue
		}

		state.Stage = operation.Name()
		logger.Info(stageStartedMessageConstant,
			zap.String(repositoryLogFieldConstant, reference),
			zap.String(stageLogFieldConstant, string(state.Stage)),
		)

		if executeError := operation.Execute(executionContext, executor.environment, state); executeError != nil {
			operationError := attributeError(reference, state.Stage, executeError)
			state.Complete(summary.StatusFailed, failureReason(operationError))
			outcome := state.Outcome()
			outcome.FailureKind = string(operationError.Kind)
			logger.Error(repositoryAbortedMessageConstant,
				zap.String(repositoryLogFieldConstant, reference),
				zap.String(stageLogFieldConstant, string(StageAborted)),
				zap.String(kindLogFieldConstant, string(operationError.Kind)),
				zap.Bool(fatalLogFieldConstant, operationError.Fatal),
				zap.Error(operationError.Cause),
			)
			return outcome, operationError
		}

		if state.Completed {
			break
		}
	}

	if !state.Completed {
		state.Complete(summary.StatusSucceeded, state.Reason)
	}
	if state.Status == summary.StatusSucceeded {
		state.Stage = StageDone
	}
	logger.Info(repositoryFinishedMessageConstant,
		zap.String(repositoryLogFieldConstant, reference),
		zap.String(stageLogFieldConstant, string(state.Stage)),
		zap.String(statusLogFieldConstant, string(state.Status)),
		zap.String(branchLogFieldConstant, state.Handle.Branch),
		zap.String(tagLogFieldConstant, state.TagName),
	)
	return state.Outcome(), nil
}

func failureReason(operationError repoerrors.OperationError) string {
	if operationError.Cause == nil {
		return string(operationError.Kind)
	}
	return operationError.Cause.Error()
}
