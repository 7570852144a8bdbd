package summary_test

import (
	"bytes"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/eymenaizona/build-creater/internal/summary"
)

func sampleOutcomes() []summary.RepositoryOutcome {
	return []summary.RepositoryOutcome{
		{
			Reference: "/workspace/app",
			Path:      "/workspace/app",
			Branch:    "main",
			Stage:     "Done",
			Status:    summary.StatusSucceeded,
			Tag:       "build-1.0.4",
			Submodules: []summary.SubmoduleOutcome{
				{Path: "libs/core", Action: "release", Status: "released", Branch: "main"},
			},
		},
		{
			Reference:   "git@github.com:acme/api.git",
			Stage:       "Reverting",
			Status:      summary.StatusFailed,
			Reason:      "tag build-0.9.0 not found",
			FailureKind: "revert_target_not_found",
		},
		{Reference: "/workspace/docs", Stage: "Pending", Status: summary.StatusSkipped, Reason: "batch stopped after fatal push failure"},
		{Reference: "/workspace/tools", Stage: "Reverting", Status: summary.StatusReverted, Tag: "build-1.0.2"},
	}
}

func TestNewTalliesStatuses(testInstance *testing.T) {
	result := summary.New(sampleOutcomes())
	require.Equal(testInstance, 2, result.Succeeded)
	require.Equal(testInstance, 1, result.Failed)
	require.Equal(testInstance, 1, result.Skipped)
	require.False(testInstance, result.Successful())

	planned := summary.New([]summary.RepositoryOutcome{{Reference: "a", Status: summary.StatusPlanned}})
	require.True(testInstance, planned.Successful())
}

func TestParseFormat(testInstance *testing.T) {
	testCases := []struct {
		input    string
		expected summary.Format
		valid    bool
	}{
		{input: "", expected: summary.FormatText, valid: true},
		{input: "TEXT", expected: summary.FormatText, valid: true},
		{input: " yaml ", expected: summary.FormatYAML, valid: true},
		{input: "json", expected: summary.FormatJSON, valid: true},
		{input: "xml", valid: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.input, func(subtest *testing.T) {
			format, parseError := summary.ParseFormat(testCase.input)
			if !testCase.valid {
				require.Error(subtest, parseError)
				return
			}
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.expected, format)
		})
	}
}

func TestRenderTextTable(testInstance *testing.T) {
	var buffer bytes.Buffer
	require.NoError(testInstance, summary.Render(&buffer, summary.FormatText, summary.New(sampleOutcomes())))

	output := buffer.String()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	require.Len(testInstance, lines, 7)
	require.True(testInstance, strings.HasPrefix(lines[0], "REPOSITORY"))
	require.Contains(testInstance, lines[1], "build-1.0.4")
	require.Contains(testInstance, lines[2], "libs/core (release)")
	require.Contains(testInstance, lines[3], "revert_target_not_found: tag build-0.9.0 not found")
	require.Equal(testInstance, "2 succeeded, 1 failed, 1 skipped", lines[6])
}

func TestRenderStructuredFormats(testInstance *testing.T) {
	input := summary.New(sampleOutcomes())

	var yamlBuffer bytes.Buffer
	require.NoError(testInstance, summary.Render(&yamlBuffer, summary.FormatYAML, input))
	require.Contains(testInstance, yamlBuffer.String(), "failure_kind: revert_target_not_found")
	var decodedYAML summary.Summary
	require.NoError(testInstance, yaml.Unmarshal(yamlBuffer.Bytes(), &decodedYAML))
	require.Equal(testInstance, input, decodedYAML)

	var jsonBuffer bytes.Buffer
	require.NoError(testInstance, summary.Render(&jsonBuffer, summary.FormatJSON, input))
	var decodedJSON map[string]any
	require.NoError(testInstance, jsoniter.Unmarshal(jsonBuffer.Bytes(), &decodedJSON))
	require.EqualValues(testInstance, 2, decodedJSON["succeeded"])
	require.Len(testInstance, decodedJSON["repositories"], 4)
}

func TestRenderRejectsUnknownFormat(testInstance *testing.T) {
	require.Error(testInstance, summary.Render(&bytes.Buffer{}, summary.Format("xml"), summary.Summary{}))
}
