// Package errors defines the typed failure carried through the per-repository workflow.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a repository failure for reporting and exit-code decisions.
type Kind string

// Failure kinds.
const (
	KindConfiguration        Kind = "configuration"
	KindMissingLog           Kind = "missing_log"
	KindBackend              Kind = "backend"
	KindPush                 Kind = "push"
	KindRevertTargetNotFound Kind = "revert_target_not_found"
	KindTagSpaceExhausted    Kind = "tag_space_exhausted"
)

const (
	operationErrorTemplateConstant             = "%s: %s failed (%s): %v"
	operationErrorWithoutCauseTemplateConstant = "%s: %s failed (%s)"
)

// OperationError records which repository and stage failed, why, and whether the batch must stop.
type OperationError struct {
	Repository string
	Stage      string
	Kind       Kind
	Fatal      bool
	Cause      error
}

// Error describes the failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorWithoutCauseTemplateConstant, operationError.Repository, operationError.Stage, operationError.Kind)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Repository, operationError.Stage, operationError.Kind, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// Wrap builds an OperationError for the given repository and stage.
func Wrap(repository string, stage string, kind Kind, cause error) error {
	return OperationError{Repository: repository, Stage: stage, Kind: kind, Fatal: kind == KindPush, Cause: cause}
}

// KindOf extracts the failure kind, defaulting to KindBackend for untyped errors.
func KindOf(err error) Kind {
	var operationError OperationError
	if errors.As(err, &operationError) {
		return operationError.Kind
	}
	return KindBackend
}

// IsFatal reports whether err must stop the whole batch.
func IsFatal(err error) bool {
	var operationError OperationError
	if errors.As(err, &operationError) {
		return operationError.Fatal
	}
	return false
}
