package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDenylistIsPopulated(t *testing.T) {
	domains := DefaultDenylistDomains()
	assert.NotEmpty(t, domains)
	assert.Contains(t, domains, "1password.com")
}

func TestDenylistBlocksSubdomains(t *testing.T) {
	d := NewDenylist([]string{"Example.com", ".secret.org", "", "example.com"})

	assert.Equal(t, []string{"example.com", "secret.org"}, d.Domains())
	assert.True(t, d.Blocks("example.com"))
	assert.True(t, d.Blocks("www.example.com"))
	assert.True(t, d.Blocks("a.b.secret.org"))
	assert.False(t, d.Blocks("notexample.com"))
	assert.False(t, d.Blocks("example.com.evil.net"))
	assert.False(t, d.Blocks(""))
}

func TestNilDenylistBlocksNothing(t *testing.T) {
	var d *Denylist
	assert.False(t, d.Blocks("chase.com"))
}

func TestLoadDenylistEmptyPathUsesDefaults(t *testing.T) {
	d, err := LoadDenylist("")
	require.NoError(t, err)
	assert.True(t, d.Blocks("secure.chase.com"))
}

func TestLoadDenylistFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "denylist.yaml")

	content := `
domains:
  - "internal.corp"
include_default: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	d, err := LoadDenylist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"internal.corp"}, d.Domains())
	assert.False(t, d.Blocks("chase.com"))
}

func TestLoadDenylistMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "denylist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domains: [internal.corp]\n"), 0644))

	d, err := LoadDenylist(path)
	require.NoError(t, err)
	assert.True(t, d.Blocks("wiki.internal.corp"))
	assert.True(t, d.Blocks("chase.com"))
}

func TestLoadDenylistErrors(t *testing.T) {
	_, err := LoadDenylist(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domains: [unclosed\n"), 0644))
	_, err = LoadDenylist(path)
	assert.Error(t, err)
}
