package workflow

// Stage names a step of the per-repository state machine.
type Stage string

// Workflow stages in execution order, followed by the terminal stages.
const (
	StagePending           Stage = Stage("Pending")
	StageAcquiring         Stage = Stage("Acquiring")
	StageSubmodulesSyncing Stage = Stage("SubmodulesSyncing")
	StageReverting         Stage = Stage("Reverting")
	StageBranchSyncing     Stage = Stage("BranchSyncing")
	StageVersionResolving  Stage = Stage("VersionResolving")
	StageCommitting        Stage = Stage("Committing")
	StageTagging           Stage = Stage("Tagging")
	StagePushing           Stage = Stage("Pushing")
	StageDone              Stage = Stage("Done")
	StageAborted           Stage = Stage("Aborted")
)
