package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
)

func TestClassifiedErrorAttribution(t *testing.T) {
	cause := errors.New("remote rejected")

	testCases := []struct {
		name          string
		err           error
		expectedKind  repoerrors.Kind
		expectedFatal bool
	}{
		{name: "push_is_fatal", err: classifiedError(repoerrors.KindPush, cause), expectedKind: repoerrors.KindPush, expectedFatal: true},
		{name: "missing_log_continues", err: classifiedError(repoerrors.KindMissingLog, cause), expectedKind: repoerrors.KindMissingLog},
		{name: "untyped_becomes_backend", err: cause, expectedKind: repoerrors.KindBackend},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			attributed := attributeError("/work/app", StagePushing, testCase.err)

			require.Equal(t, "/work/app", attributed.Repository)
			require.Equal(t, string(StagePushing), attributed.Stage)
			require.Equal(t, testCase.expectedKind, attributed.Kind)
			require.Equal(t, testCase.expectedFatal, attributed.Fatal)
			require.ErrorIs(t, attributed, cause)
		})
	}
}

func TestAttributeErrorKeepsExistingAttribution(t *testing.T) {
	original := repoerrors.Wrap("/work/lib", string(StageTagging), repoerrors.KindBackend, errors.New("tag failed"))

	attributed := attributeError("/work/app", StagePushing, original)

	require.Equal(t, "/work/lib", attributed.Repository)
	require.Equal(t, string(StageTagging), attributed.Stage)
}
