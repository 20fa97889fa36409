package caller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDNC_EmptyPath(t *testing.T) {
	numbers, err := LoadDNC("")
	require.NoError(t, err)
	assert.Nil(t, numbers)
}

func TestLoadDNC_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnc.yaml")
	content := "numbers:\n  - \"(555) 999-0000\"\n  - \"+1 555 888 7777\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	numbers, err := LoadDNC(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"(555) 999-0000", "+1 555 888 7777"}, numbers)
}

func TestLoadDNC_MissingFile(t *testing.T) {
	_, err := LoadDNC(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dnc file")
}

func TestLoadDNC_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0o644))

	_, err := LoadDNC(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse dnc file")
}
