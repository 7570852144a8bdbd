package workflow

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/branches/cd"
	"github.com/eymenaizona/build-creater/internal/branches/refresh"
	"github.com/eymenaizona/build-creater/internal/releases"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
	"github.com/eymenaizona/build-creater/internal/revert"
	"github.com/eymenaizona/build-creater/internal/submodules"
	"github.com/eymenaizona/build-creater/internal/summary"
	"github.com/eymenaizona/build-creater/internal/tags"
	pathutils "github.com/eymenaizona/build-creater/internal/utils/path"
	"github.com/eymenaizona/build-creater/internal/versioning"
	"github.com/eymenaizona/build-creater/internal/versionlog"
)

// Operation performs one stage of the per-repository workflow.
type Operation interface {
	Name() Stage
	Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error
}

// Environment exposes shared dependencies for workflow operations.
type Environment struct {
	Configuration      Configuration
	GitExecutor        shared.GitExecutor
	RepositoryManager  shared.GitRepositoryManager
	FileSystem         afero.Fs
	HomeExpander       *pathutils.HomeExpander
	Submodules         *submodules.Synchronizer
	Reverter           *revert.Operator
	BranchSwitcher     *cd.Service
	BranchSynchronizer *refresh.Service
	Resolver           *tags.Resolver
	VersionLog         *versionlog.Store
	Releases           *releases.Service
	Reporter           shared.Reporter
	Logger             *zap.Logger
}

// RepositoryState carries one repository through the stages.
type RepositoryState struct {
	Handle     shared.RepositoryHandle
	Stage      Stage
	Status     summary.Status
	Completed  bool
	Tag        versioning.VersionTag
	TagName    string
	Reason     string
	LogCreated bool
	Submodules []summary.SubmoduleOutcome
}

// NewRepositoryState prepares the state for reference.
func NewRepositoryState(reference string) *RepositoryState {
	return &RepositoryState{Handle: shared.RepositoryHandle{Reference: reference}, Stage: StagePending}
}

// Complete ends processing early with the given status.
func (state *RepositoryState) Complete(status summary.Status, reason string) {
	state.Completed = true
	state.Status = status
	state.Reason = reason
}

// RecordTag stores the tag resolved or reverted to.
func (state *RepositoryState) RecordTag(tag versioning.VersionTag) {
	state.Tag = tag
	state.TagName = tag.String()
}

// AddSubmoduleOutcomes appends per-submodule results for the report.
func (state *RepositoryState) AddSubmoduleOutcomes(outcomes ...summary.SubmoduleOutcome) {
	state.Submodules = append(state.Submodules, outcomes...)
}

// Outcome converts the state into a report row.
func (state *RepositoryState) Outcome() summary.RepositoryOutcome {
	return summary.RepositoryOutcome{
		Reference:  state.Handle.Reference,
		Path:       state.Handle.Path,
		Branch:     state.Handle.Branch,
		Stage:      string(state.Stage),
		Status:     state.Status,
		Tag:        state.TagName,
		Reason:     state.Reason,
		Submodules: append([]summary.SubmoduleOutcome(nil), state.Submodules...),
	}
}
