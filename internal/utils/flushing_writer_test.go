package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eymenaizona/build-creater/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriter(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriterSize(&destination, 4096)

	writer := utils.NewFlushingWriter(bufferedWriter)
	bytesWritten, writeError := writer.Write([]byte("Tagged /repo as build-1.0.0\n"))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 28, bytesWritten)
	require.Equal(testInstance, "Tagged /repo as build-1.0.0\n", destination.String())
}

func TestNewFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	writer := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, writer, utils.NewFlushingWriter(writer))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
