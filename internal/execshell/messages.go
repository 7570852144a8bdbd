package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	optionPrefixConstant                    = "-"
)

const (
	gitCloneSubcommandNameConstant     = "clone"
	gitFetchSubcommandNameConstant     = "fetch"
	gitStatusSubcommandNameConstant    = "status"
	gitStashSubcommandNameConstant     = "stash"
	gitResetSubcommandNameConstant     = "reset"
	gitCheckoutSubcommandNameConstant  = "checkout"
	gitSwitchSubcommandNameConstant    = "switch"
	gitMergeSubcommandNameConstant     = "merge"
	gitLSRemoteSubcommandNameConstant  = "ls-remote"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitTagSubcommandNameConstant       = "tag"
	gitPushSubcommandNameConstant      = "push"
	gitAddSubcommandNameConstant       = "add"
	gitCommitSubcommandNameConstant    = "commit"
	gitSubmoduleSubcommandNameConstant = "submodule"
	gitStashPopActionConstant          = "pop"
	gitTagListFlagConstant             = "--list"
	gitVerifyFlagConstant              = "--verify"
	gitAbbrevRefFlagConstant           = "--abbrev-ref"
	gitWorkTreeFlagConstant            = "--is-inside-work-tree"
	gitMessageFlagConstant             = "-m"
	gitCreateBranchFlagConstant        = "-c"
)

const (
	gitCloneStartTemplateConstant             = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant           = "Cloned %s into %s"
	gitCloneFailureTemplateConstant           = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant  = "Unable to clone %s into %s: %s"
	gitFetchStartTemplateConstant             = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant           = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant           = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant  = "Unable to fetch from %s in %s: %s"
	gitFetchAllRemotesLabelConstant           = "all remotes"
	gitStatusStartTemplateConstant            = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant          = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant          = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant = "Unable to review working tree status in %s: %s"
	gitStashStartTemplateConstant             = "Shelving local changes in %s"
	gitStashSuccessTemplateConstant           = "Shelved local changes in %s"
	gitStashFailureTemplateConstant           = "Failed to shelve local changes in %s (exit code %d%s)"
	gitStashPopStartTemplateConstant          = "Reapplying shelved changes in %s"
	gitStashPopSuccessTemplateConstant        = "Reapplied shelved changes in %s"
	gitStashPopFailureTemplateConstant        = "Could not reapply shelved changes in %s (exit code %d%s)"
	gitResetStartTemplateConstant             = "Resetting %s to %s"
	gitResetSuccessTemplateConstant           = "%s now matches %s"
	gitResetFailureTemplateConstant           = "Failed to reset %s to %s (exit code %d%s)"
	gitCheckoutStartTemplateConstant          = "Checking out %s in %s"
	gitCheckoutSuccessTemplateConstant        = "%s now at %s"
	gitCheckoutFailureTemplateConstant        = "Failed to check out %s in %s (exit code %d%s)"
	gitSwitchCreateStartTemplateConstant      = "Creating branch %s in %s"
	gitSwitchCreateSuccessTemplateConstant    = "Created branch %s in %s"
	gitMergeStartTemplateConstant             = "Fast-forwarding %s to %s"
	gitMergeSuccessTemplateConstant           = "Fast-forwarded %s to %s"
	gitMergeFailureTemplateConstant           = "Failed to fast-forward %s to %s (exit code %d%s)"
	gitLSRemoteStartTemplateConstant          = "Querying %s for %s from %s"
	gitLSRemoteSuccessTemplateConstant        = "Queried %s for %s from %s"
	gitLSRemoteFailureTemplateConstant        = "Failed to query %s for %s from %s (exit code %d%s)"
	gitWorkTreeStartTemplateConstant          = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant        = "%s is a Git repository"
	gitWorkTreeFailureTemplateConstant        = "Could not confirm %s is a Git repository (exit code %d%s)"
	gitCurrentBranchStartTemplateConstant     = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant   = "Current branch in %s is %s"
	gitRevisionStartTemplateConstant          = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant        = "%s exists in %s"
	gitRevisionMissingTemplateConstant        = "%s does not exist in %s"
	gitTagListStartTemplateConstant           = "Listing tags in %s"
	gitTagListSuccessTemplateConstant         = "Listed tags in %s"
	gitTagStartTemplateConstant               = "Tagging %s as %s"
	gitTagSuccessTemplateConstant             = "Tagged %s as %s"
	gitTagFailureTemplateConstant             = "Failed to tag %s as %s (exit code %d%s)"
	gitPushStartTemplateConstant              = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant            = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant            = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant   = "Unable to push %s to %s from %s: %s"
	gitAddStartTemplateConstant               = "Staging %s in %s"
	gitAddSuccessTemplateConstant             = "Staged %s in %s"
	gitAddFailureTemplateConstant             = "Failed to stage %s in %s (exit code %d%s)"
	gitCommitStartTemplateConstant            = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant          = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant          = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitSubmoduleStartTemplateConstant         = "Updating submodules in %s"
	gitSubmoduleSuccessTemplateConstant       = "Updated submodules in %s"
	gitSubmoduleFailureTemplateConstant       = "Failed to update submodules in %s (exit code %d%s)"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeGitCloneMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, gitStatusFailureTemplateConstant, gitStatusExecutionFailureTemplateConstant)
	case gitStashSubcommandNameConstant:
		return formatter.describeGitStashMessage(command, result, failure, stage)
	case gitResetSubcommandNameConstant:
		return formatter.describeTargetedMessage(command, result, failure, stage, gitResetStartTemplateConstant, gitResetSuccessTemplateConstant, gitResetFailureTemplateConstant)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	case gitSwitchSubcommandNameConstant:
		return formatter.describeGitSwitchMessage(command, result, failure, stage)
	case gitMergeSubcommandNameConstant:
		return formatter.describeTargetedMessage(command, result, failure, stage, gitMergeStartTemplateConstant, gitMergeSuccessTemplateConstant, gitMergeFailureTemplateConstant)
	case gitLSRemoteSubcommandNameConstant:
		return formatter.describeGitLSRemoteMessage(command, result, failure, stage)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitTagSubcommandNameConstant:
		return formatter.describeGitTagMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitAddMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitSubmoduleSubcommandNameConstant:
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitSubmoduleStartTemplateConstant, gitSubmoduleSuccessTemplateConstant, gitSubmoduleFailureTemplateConstant, emptyStringConstant)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positional := positionalArguments(command.Details.Arguments[1:])
	source := valueOrUnknown(positional, 0)
	destination := valueOrUnknown(positional, 1)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, source, destination)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, source, destination)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, source, destination, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, source, destination, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positional := positionalArguments(command.Details.Arguments[1:])
	remote := gitFetchAllRemotesLabelConstant
	if len(positional) > 0 {
		remote = positional[0]
	}
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitFetchStartTemplateConstant, remote, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitFetchSuccessTemplateConstant, remote, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitFetchFailureTemplateConstant, remote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, remote, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitStashMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if containsArgument(command.Details.Arguments, gitStashPopActionConstant) {
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitStashPopStartTemplateConstant, gitStashPopSuccessTemplateConstant, gitStashPopFailureTemplateConstant, emptyStringConstant)
	}
	return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitStashStartTemplateConstant, gitStashSuccessTemplateConstant, gitStashFailureTemplateConstant, emptyStringConstant)
}

func (formatter CommandMessageFormatter) describeGitCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positional := positionalArguments(command.Details.Arguments[1:])
	target := valueOrUnknown(positional, 0)
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, target, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, target)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, target, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitSwitchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if !containsArgument(command.Details.Arguments, gitCreateBranchFlagConstant) {
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	}
	branch := argumentAfter(command.Details.Arguments, gitCreateBranchFlagConstant)
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitSwitchCreateStartTemplateConstant, branch, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitSwitchCreateSuccessTemplateConstant, branch, workingDirectory)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitLSRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positional := positionalArguments(command.Details.Arguments[1:])
	remote := valueOrUnknown(positional, 0)
	references := fallbackUnknownValueLabelConstant
	if len(positional) > 1 {
		references = strings.Join(positional[1:], commandArgumentsJoinSeparatorConstant)
	}
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitLSRemoteStartTemplateConstant, remote, references, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitLSRemoteSuccessTemplateConstant, remote, references, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitLSRemoteFailureTemplateConstant, remote, references, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch {
	case containsArgument(arguments, gitWorkTreeFlagConstant):
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitWorkTreeStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitWorkTreeSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitWorkTreeFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
	case containsArgument(arguments, gitAbbrevRefFlagConstant):
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, strings.TrimSpace(result.StandardOutput))
		}
	case containsArgument(arguments, gitVerifyFlagConstant):
		reference := argumentAfter(arguments, gitVerifyFlagConstant)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitRevisionMissingTemplateConstant, reference, workingDirectory)
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitTagMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	if containsArgument(command.Details.Arguments, gitTagListFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitTagListStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitTagListSuccessTemplateConstant, workingDirectory)
		default:
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
	}

	tagName := valueOrUnknown(positionalArguments(command.Details.Arguments[1:]), 0)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitTagStartTemplateConstant, workingDirectory, tagName)
	case messageStageSuccess:
		return fmt.Sprintf(gitTagSuccessTemplateConstant, workingDirectory, tagName)
	case messageStageFailure:
		return fmt.Sprintf(gitTagFailureTemplateConstant, workingDirectory, tagName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positional := positionalArguments(command.Details.Arguments[1:])
	remote := valueOrUnknown(positional, 0)
	references := fallbackUnknownValueLabelConstant
	if len(positional) > 1 {
		references = strings.Join(positional[1:], commandArgumentsJoinSeparatorConstant)
	}
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, references, remote, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, references, remote, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, references, remote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, references, remote, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	paths := strings.Join(positionalArguments(command.Details.Arguments[1:]), commandArgumentsJoinSeparatorConstant)
	if len(paths) == 0 {
		paths = fallbackUnknownValueLabelConstant
	}
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, paths, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, paths, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, paths, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	message := argumentAfter(command.Details.Arguments, gitMessageFlagConstant)
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, message)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, message)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, message, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

// describeTargetedMessage formats commands whose last positional argument names the target revision.
func (formatter CommandMessageFormatter) describeTargetedMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string) string {
	positional := positionalArguments(command.Details.Arguments[1:])
	target := fallbackUnknownValueLabelConstant
	if len(positional) > 0 {
		target = positional[len(positional)-1]
	}
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory, target)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory, target)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, target, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeWorkingDirectoryMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		if len(executionFailureTemplate) == 0 {
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
		return fmt.Sprintf(executionFailureTemplate, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	workingDirectorySuffix := emptyStringConstant
	if trimmed := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmed) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmed)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmed := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmed) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmed := strings.TrimSpace(standardError)
	if len(trimmed) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmed)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := strings.TrimSpace(arguments[argumentIndex])
		if len(argument) == 0 {
			continue
		}
		if argument == gitMessageFlagConstant {
			argumentIndex++
			continue
		}
		if strings.HasPrefix(argument, optionPrefixConstant) {
			continue
		}
		positional = append(positional, argument)
	}
	return positional
}

func containsArgument(arguments []string, expected string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == expected {
			return true
		}
	}
	return false
}

func argumentAfter(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag {
			return arguments[argumentIndex+1]
		}
	}
	return fallbackUnknownValueLabelConstant
}

func valueOrUnknown(values []string, index int) string {
	if index < len(values) {
		return values[index]
	}
	return fallbackUnknownValueLabelConstant
}
