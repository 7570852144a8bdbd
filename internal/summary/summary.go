// Package summary describes per-repository outcomes of a tagging run and renders them as text, YAML, or JSON.
package summary

// Status is the terminal state of one repository.
type Status string

// Repository statuses.
const (
	StatusSucceeded Status = Status("succeeded")
	StatusReverted  Status = Status("reverted")
	StatusPlanned   Status = Status("planned")
	StatusFailed    Status = Status("failed")
	StatusSkipped   Status = Status("skipped")
)

// Successful reports whether the status counts toward a zero exit code.
func (status Status) Successful() bool {
	switch status {
	case StatusSucceeded, StatusReverted, StatusPlanned:
		return true
	default:
		return false
	}
}

// SubmoduleOutcome records what one stage did to a direct submodule.
type SubmoduleOutcome struct {
	Path   string `yaml:"path" json:"path"`
	Action string `yaml:"action" json:"action"`
	Status string `yaml:"status" json:"status"`
	Branch string `yaml:"branch,omitempty" json:"branch,omitempty"`
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// RepositoryOutcome records the result of processing one repository reference.
type RepositoryOutcome struct {
	Reference   string             `yaml:"reference" json:"reference"`
	Path        string             `yaml:"path,omitempty" json:"path,omitempty"`
	Branch      string             `yaml:"branch,omitempty" json:"branch,omitempty"`
	Stage       string             `yaml:"stage" json:"stage"`
	Status      Status             `yaml:"status" json:"status"`
	Tag         string             `yaml:"tag,omitempty" json:"tag,omitempty"`
	Reason      string             `yaml:"reason,omitempty" json:"reason,omitempty"`
	FailureKind string             `yaml:"failure_kind,omitempty" json:"failure_kind,omitempty"`
	Submodules  []SubmoduleOutcome `yaml:"submodules,omitempty" json:"submodules,omitempty"`
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	Outcomes  []RepositoryOutcome `yaml:"repositories" json:"repositories"`
	Succeeded int                 `yaml:"succeeded" json:"succeeded"`
	Failed    int                 `yaml:"failed" json:"failed"`
	Skipped   int                 `yaml:"skipped" json:"skipped"`
}

// New tallies outcomes into a Summary.
func New(outcomes []RepositoryOutcome) Summary {
	result := Summary{Outcomes: append([]RepositoryOutcome{}, outcomes...)}
	for _, outcome := range outcomes {
		switch {
		case outcome.Status.Successful():
			result.Succeeded++
		case outcome.Status == StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}
	return result
}

// Successful reports whether every repository reached a successful status.
func (summary Summary) Successful() bool {
	return summary.Failed == 0 && summary.Skipped == 0
}
