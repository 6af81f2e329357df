package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedFileWriter_Write(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "test.log")

	writer, err := NewBufferedFileWriter(logPath, WithFlushInterval(0))
	require.NoError(t, err)
	defer func() { _ = writer.Close() }()

	testData := "hello, buffered world\n"
	n, err := writer.Write([]byte(testData))
	require.NoError(t, err)
	assert.Equal(t, len(testData), n)
	assert.Positive(t, writer.Buffered())

	require.NoError(t, writer.Flush())
	assert.Equal(t, 0, writer.Buffered())

	content, err := os.ReadFile(logPath) //nolint:gosec // test file path from t.TempDir()
	require.NoError(t, err)
	assert.Equal(t, testData, string(content))
}

func TestBufferedFileWriter_AutoFlush(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "autoflush.log")

	writer, err := NewBufferedFileWriter(logPath, WithFlushInterval(20*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = writer.Close() }()

	_, err = writer.Write([]byte("auto-flush\n"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		content, err := os.ReadFile(logPath) //nolint:gosec // test file path from t.TempDir()
		return err == nil && string(content) == "auto-flush\n"
	}, time.Second, 10*time.Millisecond)
}

func TestBufferedFileWriter_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "close.log")

	writer, err := NewBufferedFileWriter(logPath)
	require.NoError(t, err)

	_, err = writer.Write([]byte("before close\n"))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())

	_, err = writer.Write([]byte("after close\n"))
	require.Error(t, err)

	content, err := os.ReadFile(logPath) //nolint:gosec // test file path from t.TempDir()
	require.NoError(t, err)
	assert.Equal(t, "before close\n", string(content))
}

func TestBufferedFileWriter_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "concurrent.log")

	writer, err := NewBufferedFileWriter(logPath, WithBufferSize(64))
	require.NoError(t, err)

	const goroutines, lines = 8, 50
	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Go(func() {
			for i := range lines {
				_, _ = fmt.Fprintf(writer, "g%d-line%d\n", g, i)
			}
		})
	}
	wg.Wait()
	require.NoError(t, writer.Close())

	content, err := os.ReadFile(logPath) //nolint:gosec // test file path from t.TempDir()
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(content)), "\n"), goroutines*lines)
}

func TestNewBufferedFileWriter_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewBufferedFileWriter(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	require.Error(t, err)
}
