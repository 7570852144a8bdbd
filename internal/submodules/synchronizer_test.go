package submodules

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
)

const testRepositoryPathConstant = "/workspace/app"

type recordingGitExecutor struct {
	failures map[string]error
	commands []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, details)
	if failure, exists := executor.failures[commandKey(details.WorkingDirectory, details.Arguments...)]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *recordingGitExecutor) keys() []string {
	keys := make([]string, 0, len(executor.commands))
	for _, details := range executor.commands {
		keys = append(keys, commandKey(details.WorkingDirectory, details.Arguments...))
	}
	return keys
}

func commandKey(workingDirectory string, arguments ...string) string {
	return workingDirectory + ": " + strings.Join(arguments, " ")
}

type stubRepositoryManager struct {
	shared.GitRepositoryManager
	submodulePaths []string
	listError      error
	remoteBranches map[string]bool
	probeErrors    map[string]error
}

func (manager stubRepositoryManager) ListSubmodulePaths(context.Context, string) ([]string, error) {
	return manager.submodulePaths, manager.listError
}

func (manager stubRepositoryManager) RemoteBranchExists(_ context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	key := repositoryPath + " " + remoteName + "/" + branchName
	if probeError, exists := manager.probeErrors[key]; exists {
		return false, probeError
	}
	return manager.remoteBranches[key], nil
}

func newFileSystemWithManifest(t *testing.T) afero.Fs {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	require.NoError(t, fileSystem.MkdirAll(testRepositoryPathConstant, 0o755))
	manifest := "[submodule \"libs/core\"]\n\tpath = libs/core\n"
	require.NoError(t, afero.WriteFile(fileSystem, filepath.Join(testRepositoryPathConstant, ".gitmodules"), []byte(manifest), 0o644))
	return fileSystem
}

func TestSynchronizeWithoutManifestIsNoOp(t *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)
	executor := &recordingGitExecutor{}
	synchronizer, creationError := NewSynchronizer(Dependencies{
		FileSystem:        afero.NewMemMapFs(),
		GitExecutor:       executor,
		RepositoryManager: stubRepositoryManager{},
		Logger:            zap.New(observerCore),
	})
	require.NoError(t, creationError)

	result, synchronizeError := synchronizer.Synchronize(context.Background(), Options{RepositoryPath: testRepositoryPathConstant})
	require.NoError(t, synchronizeError)
	require.True(t, result.NoSubmodules)
	require.Empty(t, result.Submodules)
	require.Empty(t, executor.commands)
	require.Equal(t, 1, observedLogs.FilterMessage(noSubmodulesMessageConstant).Len())
}

func TestSynchronizeFastForwardsDirectSubmodules(t *testing.T) {
	corePath := filepath.Join(testRepositoryPathConstant, "libs/core")
	legacyPath := filepath.Join(testRepositoryPathConstant, "libs/legacy")
	orphanPath := filepath.Join(testRepositoryPathConstant, "vendor/orphan")

	executor := &recordingGitExecutor{}
	manager := stubRepositoryManager{
		submodulePaths: []string{"libs/core", "libs/legacy", "vendor/orphan"},
		remoteBranches: map[string]bool{
			corePath + " origin/main":     true,
			legacyPath + " origin/master": true,
		},
	}
	synchronizer, creationError := NewSynchronizer(Dependencies{
		FileSystem:        newFileSystemWithManifest(t),
		GitExecutor:       executor,
		RepositoryManager: manager,
	})
	require.NoError(t, creationError)

	result, synchronizeError := synchronizer.Synchronize(context.Background(), Options{RepositoryPath: testRepositoryPathConstant})
	require.NoError(t, synchronizeError)
	require.False(t, result.NoSubmodules)
	require.Equal(t, []SubmoduleResult{
		{Path: "libs/core", Status: StatusUpdated, Branch: "main"},
		{Path: "libs/legacy", Status: StatusUpdated, Branch: "master"},
		{Path: "vendor/orphan", Status: StatusUntouched},
	}, result.Submodules)

	require.Equal(t, []string{
		commandKey(testRepositoryPathConstant, "submodule", "update", "--init", "--recursive"),
		commandKey(corePath, "fetch", "origin"),
		commandKey(corePath, "checkout", "main"),
		commandKey(corePath, "merge", "--ff-only", "origin/main"),
		commandKey(legacyPath, "fetch", "origin"),
		commandKey(legacyPath, "checkout", "master"),
		commandKey(legacyPath, "merge", "--ff-only", "origin/master"),
		commandKey(orphanPath, "fetch", "origin"),
	}, executor.keys())

	for _, details := range executor.commands {
		require.NotEqual(t, "add", details.Arguments[0])
	}
}

func TestSynchronizeHonorsConfiguredBranchesAndRemote(t *testing.T) {
	corePath := filepath.Join(testRepositoryPathConstant, "libs/core")
	executor := &recordingGitExecutor{}
	manager := stubRepositoryManager{
		submodulePaths: []string{"libs/core"},
		remoteBranches: map[string]bool{corePath + " upstream/trunk": true},
	}
	synchronizer, creationError := NewSynchronizer(Dependencies{FileSystem: newFileSystemWithManifest(t), GitExecutor: executor, RepositoryManager: manager})
	require.NoError(t, creationError)

	result, synchronizeError := synchronizer.Synchronize(context.Background(), Options{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     "upstream",
		PrimaryBranch:  "trunk",
		FallbackBranch: "stable",
	})
	require.NoError(t, synchronizeError)
	require.Equal(t, []SubmoduleResult{{Path: "libs/core", Status: StatusUpdated, Branch: "trunk"}}, result.Submodules)
	require.Contains(t, executor.keys(), commandKey(corePath, "merge", "--ff-only", "upstream/trunk"))
}

func TestSynchronizeReportsSubmoduleFailuresWithoutFailing(t *testing.T) {
	corePath := filepath.Join(testRepositoryPathConstant, "libs/core")
	widgetsPath := filepath.Join(testRepositoryPathConstant, "libs/widgets")
	probePath := filepath.Join(testRepositoryPathConstant, "libs/probe")

	observerCore, observedLogs := observer.New(zapcore.WarnLevel)
	executor := &recordingGitExecutor{failures: map[string]error{
		commandKey(corePath, "fetch", "origin"):                     errors.New("network unreachable"),
		commandKey(widgetsPath, "merge", "--ff-only", "origin/main"): errors.New("not possible to fast-forward"),
	}}
	manager := stubRepositoryManager{
		submodulePaths: []string{"libs/core", "libs/widgets", "libs/probe"},
		remoteBranches: map[string]bool{widgetsPath + " origin/main": true},
		probeErrors:    map[string]error{probePath + " origin/main": errors.New("ls-remote failed")},
	}
	synchronizer, creationError := NewSynchronizer(Dependencies{
		FileSystem:        newFileSystemWithManifest(t),
		GitExecutor:       executor,
		RepositoryManager: manager,
		Logger:            zap.New(observerCore),
	})
	require.NoError(t, creationError)

	result, synchronizeError := synchronizer.Synchronize(context.Background(), Options{RepositoryPath: testRepositoryPathConstant})
	require.NoError(t, synchronizeError)
	require.Len(t, result.Submodules, 3)

	require.Equal(t, StatusFailed, result.Submodules[0].Status)
	require.Contains(t, result.Submodules[0].Reason, "fetch failed")
	require.Equal(t, StatusFailed, result.Submodules[1].Status)
	require.Equal(t, "main", result.Submodules[1].Branch)
	require.Contains(t, result.Submodules[1].Reason, "fast-forward to origin/main failed")
	require.Equal(t, StatusFailed, result.Submodules[2].Status)
	require.Contains(t, result.Submodules[2].Reason, "remote branch lookup failed")
	require.Equal(t, 3, observedLogs.FilterMessage(submoduleFailedMessageConstant).Len())
}

func TestSynchronizeFailsWhenUpdateOrListingFails(t *testing.T) {
	updateFailure := errors.New("update failed")
	listFailure := errors.New("config failed")

	testCases := []struct {
		name          string
		executor      *recordingGitExecutor
		manager       stubRepositoryManager
		expectedCause error
	}{
		{
			name: "UpdateFailure",
			executor: &recordingGitExecutor{failures: map[string]error{
				commandKey(testRepositoryPathConstant, "submodule", "update", "--init", "--recursive"): updateFailure,
			}},
			expectedCause: updateFailure,
		},
		{
			name:          "ListingFailure",
			executor:      &recordingGitExecutor{},
			manager:       stubRepositoryManager{listError: listFailure},
			expectedCause: listFailure,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			synchronizer, creationError := NewSynchronizer(Dependencies{FileSystem: newFileSystemWithManifest(t), GitExecutor: testCase.executor, RepositoryManager: testCase.manager})
			require.NoError(t, creationError)

			_, synchronizeError := synchronizer.Synchronize(context.Background(), Options{RepositoryPath: testRepositoryPathConstant})
			require.ErrorIs(t, synchronizeError, testCase.expectedCause)
		})
	}
}

func TestNewSynchronizerValidatesDependencies(t *testing.T) {
	_, creationError := NewSynchronizer(Dependencies{GitExecutor: &recordingGitExecutor{}, RepositoryManager: stubRepositoryManager{}})
	require.ErrorIs(t, creationError, ErrFileSystemNotConfigured)

	_, creationError = NewSynchronizer(Dependencies{FileSystem: afero.NewMemMapFs(), RepositoryManager: stubRepositoryManager{}})
	require.ErrorIs(t, creationError, ErrGitExecutorNotConfigured)

	_, creationError = NewSynchronizer(Dependencies{FileSystem: afero.NewMemMapFs(), GitExecutor: &recordingGitExecutor{}})
	require.ErrorIs(t, creationError, ErrRepositoryManagerNotConfigured)
}
