package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/gitrepo"
	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
)

const (
	cloneDirectoryPrefixTemplateConstant  = "build-creater-%s-"
	workspaceDirectoryPermissionsConstant = 0o755
	workspaceCreateErrorTemplateConstant  = "failed to prepare workspace %s: %w"
	cloneDirectoryErrorTemplateConstant   = "failed to allocate clone directory: %w"
	cloneErrorTemplateConstant            = "failed to clone %s: %w"
	absolutePathErrorTemplateConstant     = "failed to resolve %s: %w"
	repositoryCheckErrorTemplateConstant  = "failed to inspect %s: %w"
	notRepositoryMessageConstant          = "not a git working tree"
	notRepositoryTemplateConstant         = "%w: %s"
	repositoryAcquiredMessageConstant     = "Repository acquired"
	temporaryLogFieldConstant             = "temporary"
	gitCloneSubcommandConstant            = "clone"
)

// ErrNotRepository indicates a local reference does not point into a git working tree.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// AcquireOperation clones remote references into a fresh workspace directory and validates local paths.
type AcquireOperation struct{}

// Name identifies the stage.
func (operation *AcquireOperation) Name() Stage {
	return StageAcquiring
}

// Execute populates state.Handle.Path.
func (operation *AcquireOperation) Execute(executionContext context.Context, environment *Environment, state *RepositoryState) error {
	reference := strings.TrimSpace(state.Handle.Reference)
	if gitrepo.IsRemoteReference(reference) {
		if cloneError := operation.clone(executionContext, environment, state, reference); cloneError != nil {
			return cloneError
		}
	} else if openError := operation.open(executionContext, environment, state, reference); openError != nil {
		return openError
	}

	environment.Logger.Info(repositoryAcquiredMessageConstant,
		zap.String(repositoryLogFieldConstant, reference),
		zap.String(pathLogFieldConstant, state.Handle.Path),
		zap.Bool(temporaryLogFieldConstant, state.Handle.Temporary),
	)
	return nil
}

func (operation *AcquireOperation) clone(executionContext context.Context, environment *Environment, state *RepositoryState, reference string) error {
	workspaceRoot := strings.TrimSpace(environment.Configuration.WorkspaceRoot)
	if len(workspaceRoot) == 0 {
		workspaceRoot = os.TempDir()
	}
	if environment.HomeExpander != nil {
		workspaceRoot = environment.HomeExpander.Expand(workspaceRoot)
	}
	if mkdirError := environment.FileSystem.MkdirAll(workspaceRoot, workspaceDirectoryPermissionsConstant); mkdirError != nil {
		return classifiedError(repoerrors.KindConfiguration, fmt.Errorf(workspaceCreateErrorTemplateConstant, workspaceRoot, mkdirError))
	}

	cloneDirectory, directoryError := afero.TempDir(environment.FileSystem, workspaceRoot, fmt.Sprintf(cloneDirectoryPrefixTemplateConstant, gitrepo.RepositoryName(reference)))
	if directoryError != nil {
		return fmt.Errorf(cloneDirectoryErrorTemplateConstant, directoryError)
	}

	if _, cloneError := environment.GitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitCloneSubcommandConstant, reference, cloneDirectory},
		WorkingDirectory:     workspaceRoot,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	}); cloneError != nil {
		return fmt.Errorf(cloneErrorTemplateConstant, reference, cloneError)
	}

	state.Handle.Path = cloneDirectory
	state.Handle.Temporary = true
	return nil
}

func (operation *AcquireOperation) open(executionContext context.Context, environment *Environment, state *RepositoryState, reference string) error {
	expanded := reference
	if environment.HomeExpander != nil {
		expanded = environment.HomeExpander.Expand(reference)
	}
	absolutePath, absoluteError := filepath.Abs(expanded)
	if absoluteError != nil {
		return fmt.Errorf(absolutePathErrorTemplateConstant, reference, absoluteError)
	}

	isRepository, checkError := environment.RepositoryManager.IsRepository(executionContext, absolutePath)
	if checkError != nil {
		return fmt.Errorf(repositoryCheckErrorTemplateConstant, absolutePath, checkError)
	}
	if !isRepository {
		return classifiedError(repoerrors.KindConfiguration, fmt.Errorf(notRepositoryTemplateConstant, ErrNotRepository, absolutePath))
	}

	state.Handle.Path = absolutePath
	return nil
}
