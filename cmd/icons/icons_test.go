package icons

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picturedesk/picturedesk/internal/conf"
	"github.com/picturedesk/picturedesk/internal/icons"
)

func TestIconsListsDefaultSet(t *testing.T) {
	cmd := Command(&conf.Settings{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, len(icons.DefaultSet()))
	assert.Contains(t, out.String(), icons.SolidPrefix+":")
}

func TestIconsIncludesPackFlag(t *testing.T) {
	pack := filepath.Join(t.TempDir(), "brands.yaml")
	require.NoError(t, os.WriteFile(pack, []byte("prefix: fab\nicons:\n  - name: github\n    codepoint: f09b\n"), 0o600))

	cmd := Command(&conf.Settings{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--pack", pack})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "fab:github")
	assert.Contains(t, out.String(), "f09b")
}

func TestIconsBadPack(t *testing.T) {
	pack := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(pack, []byte("prefix: fab\nunknown: true\n"), 0o600))

	cmd := Command(&conf.Settings{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--pack", pack})
	assert.Error(t, cmd.Execute())
}
