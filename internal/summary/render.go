package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

const (
	unsupportedFormatTemplateConstant = "unsupported report format %q (expected text, yaml, or json)"
	totalsTemplateConstant            = "%d succeeded, %d failed, %d skipped"
	submoduleLabelTemplateConstant    = "  %s (%s)"
	detailSeparatorConstant           = ": "
	emptyCellConstant                 = "-"
	jsonIndentConstant                = "  "
	yamlIndentConstant                = 2
	tableMaxColumnWidthConstant       = 80
	repositoryHeaderConstant          = "REPOSITORY"
	statusHeaderConstant              = "STATUS"
	stageHeaderConstant               = "STAGE"
	tagHeaderConstant                 = "TAG"
	detailHeaderConstant              = "DETAIL"
)

// Format selects the rendering of a Summary.
type Format string

// Supported report formats.
const (
	FormatText Format = Format("text")
	FormatYAML Format = Format("yaml")
	FormatJSON Format = Format("json")
)

// ParseFormat validates a configured report format.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatText, "":
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, value)
	}
}

// Render writes summary to writer in the requested format.
func Render(writer io.Writer, format Format, summary Summary) error {
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(yamlIndentConstant)
		if encodeError := encoder.Encode(summary); encodeError != nil {
			return encodeError
		}
		return encoder.Close()
	case FormatJSON:
		encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(writer)
		encoder.SetIndent("", jsonIndentConstant)
		return encoder.Encode(summary)
	case FormatText, "":
		_, writeError := fmt.Fprintln(writer, renderTable(summary))
		return writeError
	default:
		return fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}

func renderTable(summary Summary) string {
	table := uitable.New()
	table.MaxColWidth = tableMaxColumnWidthConstant
	table.Wrap = true
	table.AddRow(repositoryHeaderConstant, statusHeaderConstant, stageHeaderConstant, tagHeaderConstant, detailHeaderConstant)

	for _, outcome := range summary.Outcomes {
		table.AddRow(outcome.Reference, string(outcome.Status), valueOrEmptyCell(outcome.Stage), valueOrEmptyCell(outcome.Tag), valueOrEmptyCell(outcomeDetail(outcome)))
		for _, submodule := range outcome.Submodules {
			table.AddRow(fmt.Sprintf(submoduleLabelTemplateConstant, submodule.Path, submodule.Action), submodule.Status, emptyCellConstant, emptyCellConstant, valueOrEmptyCell(submodule.Reason))
		}
	}

	return table.String() + "\n" + fmt.Sprintf(totalsTemplateConstant, summary.Succeeded, summary.Failed, summary.Skipped)
}

func outcomeDetail(outcome RepositoryOutcome) string {
	if len(outcome.FailureKind) == 0 {
		return outcome.Reason
	}
	if len(outcome.Reason) == 0 {
		return outcome.FailureKind
	}
	return outcome.FailureKind + detailSeparatorConstant + outcome.Reason
}

func valueOrEmptyCell(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return emptyCellConstant
	}
	return value
}
