package workflow

import (
	"errors"

	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
)

// classifiedError marks cause with a failure kind; the executor fills in repository and stage.
func classifiedError(kind repoerrors.Kind, cause error) error {
	return repoerrors.Wrap("", "", kind, cause)
}

func attributeError(repository string, stage Stage, err error) repoerrors.OperationError {
	var operationError repoerrors.OperationError
	if !errors.As(err, &operationError) {
		operationError = repoerrors.OperationError{Kind: repoerrors.KindBackend, Cause: err}
	}
	if len(operationError.Repository) == 0 {
		operationError.Repository = repository
	}
	if len(operationError.Stage) == 0 {
		operationError.Stage = string(stage)
	}
	return operationError
}
