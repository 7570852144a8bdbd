package gitrepo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/work/app"
)

type scriptedResponse struct {
	result execshell.ExecutionResult
	err    error
}

type scriptedGitExecutor struct {
	responses        map[string]scriptedResponse
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	response, exists := executor.responses[strings.Join(details.Arguments, " ")]
	if !exists {
		return execshell.ExecutionResult{}, nil
	}
	return response.result, response.err
}

func failedResponse(exitCode int, arguments ...string) scriptedResponse {
	return scriptedResponse{err: execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}},
		Result:  execshell.ExecutionResult{ExitCode: exitCode},
	}}
}

func outputResponse(output string) scriptedResponse {
	return scriptedResponse{result: execshell.ExecutionResult{StandardOutput: output}}
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestRepositoryManagerTagExists(testInstance *testing.T) {
	testCases := []struct {
		name        string
		response    scriptedResponse
		expected    bool
		expectError bool
	}{
		{name: "present", response: outputResponse("4f1c2e\n"), expected: true},
		{name: "absent", response: failedResponse(1), expected: false},
		{name: "not_a_repository", response: failedResponse(128), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
				"rev-parse -q --verify refs/tags/build-1.0.3": testCase.response,
			}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			exists, queryError := manager.TagExists(context.Background(), testRepositoryPathConstant, "build-1.0.3")
			if testCase.expectError {
				require.Error(testInstance, queryError)
				return
			}
			require.NoError(testInstance, queryError)
			require.Equal(testInstance, testCase.expected, exists)
			require.Equal(testInstance, testRepositoryPathConstant, executor.recordedCommands[0].WorkingDirectory)
		})
	}
}

func TestRepositoryManagerQueries(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"status --porcelain":                       outputResponse(" M build_version.txt\n"),
		"rev-parse --abbrev-ref HEAD":              outputResponse("HEAD\n"),
		"ls-remote --heads origin main":            outputResponse("a1b2c3\trefs/heads/main\n"),
		"ls-remote --heads origin master":          outputResponse(""),
		"tag --list build-*":                       outputResponse("build-1.0.0\nbuild-1.0.1\n\n"),
		"log -1 --pretty=%s":                       outputResponse("Fix login redirect\n"),
		"rev-parse --is-inside-work-tree":          outputResponse("true\n"),
		`config --file .gitmodules --get-regexp ^submodule\..*\.path$`: outputResponse("submodule.lib.path lib\nsubmodule.tools.path vendor/tools\n"),
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)
	executionContext := context.Background()

	clean, cleanError := manager.CheckCleanWorktree(executionContext, testRepositoryPathConstant)
	require.NoError(testInstance, cleanError)
	require.False(testInstance, clean)

	branch, branchError := manager.GetCurrentBranch(executionContext, testRepositoryPathConstant)
	require.NoError(testInstance, branchError)
	require.Empty(testInstance, branch)

	mainExists, mainError := manager.RemoteBranchExists(executionContext, testRepositoryPathConstant, "origin", "main")
	require.NoError(testInstance, mainError)
	require.True(testInstance, mainExists)

	masterExists, masterError := manager.RemoteBranchExists(executionContext, testRepositoryPathConstant, "origin", "master")
	require.NoError(testInstance, masterError)
	require.False(testInstance, masterExists)

	tags, tagsError := manager.ListTags(executionContext, testRepositoryPathConstant, "build-*")
	require.NoError(testInstance, tagsError)
	require.Equal(testInstance, []string{"build-1.0.0", "build-1.0.1"}, tags)

	summary, summaryError := manager.LastCommitSummary(executionContext, testRepositoryPathConstant)
	require.NoError(testInstance, summaryError)
	require.Equal(testInstance, "Fix login redirect", summary)

	isRepository, repositoryError := manager.IsRepository(executionContext, testRepositoryPathConstant)
	require.NoError(testInstance, repositoryError)
	require.True(testInstance, isRepository)

	submodulePaths, submoduleError := manager.ListSubmodulePaths(executionContext, testRepositoryPathConstant)
	require.NoError(testInstance, submoduleError)
	require.Equal(testInstance, []string{"lib", "vendor/tools"}, submodulePaths)

	for _, recorded := range executor.recordedCommands {
		if recorded.Arguments[0] == "ls-remote" {
			require.Equal(testInstance, "0", recorded.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
		}
	}
}

func TestRepositoryManagerWrapsExecutionErrors(testInstance *testing.T) {
	executionFailure := errors.New("git not found")
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"status --porcelain": {err: executionFailure},
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	_, queryError := manager.CheckCleanWorktree(context.Background(), testRepositoryPathConstant)
	require.ErrorIs(testInstance, queryError, executionFailure)

	_, pathError := manager.CheckCleanWorktree(context.Background(), " ")
	require.ErrorIs(testInstance, pathError, gitrepo.ErrRepositoryPathRequired)
}

func TestRepositoryManagerIsRepositoryOutsideWorktree(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]scriptedResponse{
		"rev-parse --is-inside-work-tree": failedResponse(128),
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	isRepository, queryError := manager.IsRepository(context.Background(), "/tmp/plain")
	require.NoError(testInstance, queryError)
	require.False(testInstance, isRepository)
}
