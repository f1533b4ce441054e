package iofs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	for range 2 {
		require.NoError(t, EnsureDirs(tmpDir))
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "gnvern"),
		filepath.Join(tmpDir, ".cache", "gnvern"),
		filepath.Join(tmpDir, ".local", "share", "gnvern", "logs"),
	}
	for _, d := range dirs {
		info, err := os.Stat(d)
		require.NoError(t, err, d)
		assert.True(t, info.IsDir(), d)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), d)
	}
}

func TestTouchDirError(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := touchDir(filepath.Join(file, "sub"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
}

func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "gnvern", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	custom := "store:\n  type: sqlite\n"
	require.NoError(t, os.WriteFile(configPath, []byte(custom), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))

	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(content),
		"existing config file is not overwritten")
}

func TestConfigYAML(t *testing.T) {
	for _, s := range []string{
		"database:", "store:", "resolver:", "log:", "chunk_size: 2000",
		"lookup_genera: true", "timeout: 60",
	} {
		assert.Contains(t, ConfigYAML, s)
	}
}

func TestReadNamesFrom(t *testing.T) {
	in := "Panthera tigris\n\n  Bubo bubo  \nPuma concolor\tFelidae\n\xffBad\n"
	res, err := ReadNamesFrom(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res, 4)
	assert.Equal(t, "Panthera tigris", res[0])
	assert.Equal(t, "Bubo bubo", res[1])
	assert.Equal(t, "Puma concolor", res[2])
	assert.True(t, strings.HasSuffix(res[3], "Bad"))
}

func TestReadNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("Panthera tigris\nPanthera leo\n"), 0644))

	res, err := ReadNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Panthera tigris", "Panthera leo"}, res)

	_, err = ReadNames(filepath.Join(t.TempDir(), "none.txt"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReadNamesError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, os.ErrNotExist)
}

func TestLanguages(t *testing.T) {
	res, err := Languages()
	require.NoError(t, err)
	assert.Equal(t, "English", res["en"])
	assert.Equal(t, "Chinese (中文)", res["zh"])
	for _, l := range []string{"de", "es", "pt", "fr"} {
		assert.NotEmpty(t, res[l], l)
	}
}
