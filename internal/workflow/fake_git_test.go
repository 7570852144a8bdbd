package workflow

import (
	"context"
	"strings"

	"github.com/eymenaizona/build-creater/internal/execshell"
)

type fakeRepository struct {
	branch         string
	remoteBranches map[string]bool
	tags           map[string]bool
	dirty          bool
	commitSummary  string
	submodulePaths []string
}

// fakeGit is an in-memory stand-in for both the git executor and the repository manager.
type fakeGit struct {
	repositories map[string]*fakeRepository
	failures     map[string]error
	commands     []execshell.CommandDetails
}

func newFakeGit() *fakeGit {
	return &fakeGit{repositories: map[string]*fakeRepository{}, failures: map[string]error{}}
}

func (git *fakeGit) addRepository(path string, branch string, tags ...string) *fakeRepository {
	repository := &fakeRepository{
		branch:         branch,
		remoteBranches: map[string]bool{"origin/main": true},
		tags:           map[string]bool{},
		commitSummary:  "Initial commit",
	}
	for _, tag := range tags {
		repository.tags[tag] = true
	}
	git.repositories[path] = repository
	return repository
}

func (git *fakeGit) failOn(workingDirectory string, failure error, arguments ...string) {
	git.failures[fakeCommandKey(workingDirectory, arguments...)] = failure
}

func (git *fakeGit) keysFor(workingDirectory string) []string {
	keys := make([]string, 0, len(git.commands))
	for _, details := range git.commands {
		if details.WorkingDirectory == workingDirectory {
			keys = append(keys, strings.Join(details.Arguments, " "))
		}
	}
	return keys
}

func fakeCommandKey(workingDirectory string, arguments ...string) string {
	return workingDirectory + ": " + strings.Join(arguments, " ")
}

func (git *fakeGit) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	git.commands = append(git.commands, details)
	if failure, exists := git.failures[fakeCommandKey(details.WorkingDirectory, details.Arguments...)]; exists {
		return execshell.ExecutionResult{}, failure
	}

	arguments := details.Arguments
	repository := git.repositories[details.WorkingDirectory]
	switch arguments[0] {
	case "clone":
		git.addRepository(arguments[2], "main")
	case "tag":
		if repository != nil {
			repository.tags[arguments[len(arguments)-1]] = true
		}
	case "switch":
		if repository != nil {
			repository.branch = arguments[len(arguments)-1]
			if len(arguments) > 2 {
				repository.branch = arguments[2]
			}
		}
	case "checkout":
		if repository != nil && repository.tags[arguments[1]] {
			repository.branch = ""
		}
	}
	return execshell.ExecutionResult{}, nil
}

func (git *fakeGit) CheckCleanWorktree(_ context.Context, repositoryPath string) (bool, error) {
	return !git.repositories[repositoryPath].dirty, nil
}

func (git *fakeGit) GetCurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	return git.repositories[repositoryPath].branch, nil
}

func (git *fakeGit) RemoteBranchExists(_ context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	return git.repositories[repositoryPath].remoteBranches[remoteName+"/"+branchName], nil
}

func (git *fakeGit) TagExists(_ context.Context, repositoryPath string, tagName string) (bool, error) {
	repository, exists := git.repositories[repositoryPath]
	if !exists {
		return false, nil
	}
	return repository.tags[tagName], nil
}

func (git *fakeGit) ListTags(_ context.Context, repositoryPath string, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var matching []string
	for tag := range git.repositories[repositoryPath].tags {
		if strings.HasPrefix(tag, prefix) {
			matching = append(matching, tag)
		}
	}
	return matching, nil
}

func (git *fakeGit) LastCommitSummary(_ context.Context, repositoryPath string) (string, error) {
	return git.repositories[repositoryPath].commitSummary, nil
}

func (git *fakeGit) IsRepository(_ context.Context, repositoryPath string) (bool, error) {
	_, exists := git.repositories[repositoryPath]
	return exists, nil
}

func (git *fakeGit) ListSubmodulePaths(_ context.Context, repositoryPath string) ([]string, error) {
	return git.repositories[repositoryPath].submodulePaths, nil
}
