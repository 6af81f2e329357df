package icons

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picturedesk/picturedesk/internal/errors"
)

func TestDefaultSet(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.AddAll(DefaultSet()...))

	assert.Equal(t, 22, r.Len())
	def, ok := r.Lookup("fas:camera")
	require.True(t, ok)
	assert.Equal(t, "f030", def.Codepoint)
	assert.Equal(t, "fas:birthday-cake", r.Keys()[0])
}

func TestIdenticalAddIsNoop(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	def := Definition{Prefix: "fas", Name: "star", Codepoint: "f005"}

	require.NoError(t, r.Add(def))
	require.NoError(t, r.Add(def))
	assert.Equal(t, 1, r.Len())
}

func TestConflictingAddFails(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Add(Definition{Prefix: "fas", Name: "star", Codepoint: "f005"}))

	err := r.Add(Definition{Prefix: "fas", Name: "star", Codepoint: "f006"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))

	def, _ := r.Lookup("fas:star")
	assert.Equal(t, "f005", def.Codepoint)
}

func TestAddAfterSealFails(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	def := Definition{Prefix: "fas", Name: "star", Codepoint: "f005"}
	require.NoError(t, r.Add(def))
	r.Seal()
	r.Seal()

	assert.True(t, r.Sealed())
	err := r.Add(def)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryState))
}

func TestInvalidDefinitions(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, def := range []Definition{
		{Prefix: "", Name: "x", Codepoint: "f000"},
		{Prefix: "a:b", Name: "x", Codepoint: "f000"},
		{Prefix: "fas", Name: "", Codepoint: "f000"},
		{Prefix: "fas", Name: "x", Codepoint: "zz"},
		{Prefix: "fas", Name: "x", Codepoint: ""},
	} {
		err := r.Add(def)
		require.Error(t, err, "%+v", def)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	}
	assert.Equal(t, 0, r.Len())
}

func TestConcurrentAdds(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			assert.NoError(t, r.AddAll(DefaultSet()...))
		})
	}
	wg.Wait()
	assert.Equal(t, len(DefaultSet()), r.Len())
}

func TestDecodePack(t *testing.T) {
	t.Parallel()

	p, err := DecodePack(strings.NewReader(`
prefix: far
icons:
  - name: heart
    codepoint: f004
  - prefix: fab
    name: github
    codepoint: f09b
`))
	require.NoError(t, err)

	defs := p.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "far:heart", defs[0].Key())
	assert.Equal(t, "fab:github", defs[1].Key())

	_, err = DecodePack(strings.NewReader("prefix: far\nunknown: 1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestLoadPacks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "regular.yaml")
	require.NoError(t, os.WriteFile(good, []byte("prefix: far\nicons:\n  - name: heart\n    codepoint: f004\n"), 0o600))
	clash := filepath.Join(dir, "clash.yaml")
	require.NoError(t, os.WriteFile(clash, []byte("prefix: fas\nicons:\n  - name: camera\n    codepoint: ffff\n"), 0o600))

	r := NewRegistry()
	require.NoError(t, r.AddAll(DefaultSet()...))

	n, err := LoadPacks(r, good)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, ok := r.Lookup("far:heart")
	assert.True(t, ok)

	_, err = LoadPacks(r, clash)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))

	_, err = LoadPacks(r, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}
