package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name"`
	Brands  []string `json:"brands"`
	Enabled bool     `json:"enabled"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "sample.json", `{"name":"two_level","brands":["Apple","Google"]}`)

	var out sample
	require.NoError(t, LoadFile(path, map[string]interface{}{"enabled": true}, &out))
	assert.Equal(t, "two_level", out.Name)
	assert.Equal(t, []string{"Apple", "Google"}, out.Brands)
	assert.True(t, out.Enabled)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "sample.yaml", "name: multi_signal\nbrands:\n  - Samsung\nenabled: false\n")

	var out sample
	require.NoError(t, LoadFile(path, map[string]interface{}{"enabled": true}, &out))
	assert.Equal(t, "multi_signal", out.Name)
	assert.Equal(t, []string{"Samsung"}, out.Brands)
	assert.False(t, out.Enabled)
}

func TestLoadFileErrors(t *testing.T) {
	var out sample
	assert.Error(t, LoadFile(writeFile(t, "sample.toml", "name = 'x'"), nil, &out))
	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.json"), nil, &out))
	assert.Error(t, LoadFile(writeFile(t, "broken.json", "{"), nil, &out))
}
