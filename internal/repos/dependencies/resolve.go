// Package dependencies supplies production defaults for collaborators that callers may override in tests.
package dependencies

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/gitrepo"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
	"github.com/eymenaizona/build-creater/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing afero.Fs) afero.Fs {
	if existing != nil {
		return existing
	}
	return afero.NewOsFs()
}

// ResolveClock returns the provided clock or the system clock.
func ResolveClock(existing shared.Clock) shared.Clock {
	if existing != nil {
		return existing
	}
	return shared.SystemClock{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable runs print command lifecycle events to the console instead of structured debug logs.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadable bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var observer execshell.CommandEventObserver
	if humanReadable {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveGitRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveGitRepositoryManager(existing shared.GitRepositoryManager, executor shared.GitExecutor) (shared.GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}
