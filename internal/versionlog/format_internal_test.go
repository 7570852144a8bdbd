package versionlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixedBuildExpressionCompilesOncePerPrefix(t *testing.T) {
	first := prefixedBuildExpression("rel.v")
	second := prefixedBuildExpression("rel.v")
	other := prefixedBuildExpression("build")

	require.Same(t, first, second)
	require.NotSame(t, first, other)
	require.True(t, first.MatchString("rel.v-1.2.3"))
	require.False(t, first.MatchString("relXv-1.2.3"))
}
