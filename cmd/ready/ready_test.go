package ready

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picturedesk/picturedesk/internal/conf"
)

func TestReadyCreatesSentinel(t *testing.T) {
	settings := &conf.Settings{}
	settings.Host.Sentinel = filepath.Join(t.TempDir(), "run", "picturedesk.ready")

	cmd := Command(settings)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(settings.Host.Sentinel)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))
	assert.Contains(t, out.String(), settings.Host.Sentinel)
}

func TestReadyWithoutSentinel(t *testing.T) {
	cmd := Command(&conf.Settings{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)
	assert.Error(t, cmd.Execute())
}
