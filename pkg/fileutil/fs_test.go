package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/dir", ReadWriteExecuteUserReadExecuteOthers))
	require.NoError(t, afero.WriteFile(fs, "/work/compose.yml", []byte("a: 1\n"), ReadWriteUserReadOthers))

	exists, err := FileExists(fs, "/work/compose.yml")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = FileExists(fs, "/work/missing.yml")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = FileExists(fs, "/work/dir")
	require.NoError(t, err)
	assert.False(t, exists, "directories are not files")
}

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates file and parent directories", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		target := filepath.Join("/out", "nested", "compose.migrated.yml")

		require.NoError(t, WriteFileAtomic(fs, target, []byte("services: {}\n"), ReadWriteUserReadOthers))

		data, err := afero.ReadFile(fs, target)
		require.NoError(t, err)
		assert.Equal(t, "services: {}\n", string(data))

		info, err := fs.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(ReadWriteUserReadOthers), info.Mode().Perm())

		entries, err := afero.ReadDir(fs, filepath.Dir(target))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary file should be renamed away")
	})

	t.Run("replaces existing file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/out.yml", []byte("old"), ReadWriteUserReadOthers))

		require.NoError(t, WriteFileAtomic(fs, "/out.yml", []byte("new"), ReadWriteUserReadOthers))

		data, err := afero.ReadFile(fs, "/out.yml")
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("failure leaves existing file untouched", func(t *testing.T) {
		base := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(base, "/out.yml", []byte("keep me"), ReadWriteUserReadOthers))
		fs := afero.NewReadOnlyFs(base)

		err := WriteFileAtomic(fs, "/out.yml", []byte("replacement"), ReadWriteUserReadOthers)
		require.Error(t, err)

		data, readErr := afero.ReadFile(base, "/out.yml")
		require.NoError(t, readErr)
		assert.Equal(t, "keep me", string(data))
	})
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "docker-compose.yml", want: "docker-compose.migrated.yml"},
		{path: "/srv/app/compose.prod.yaml", want: "/srv/app/compose.prod.migrated.yaml"},
		{path: "compose", want: "compose.migrated"},
		{path: ".env", want: ".env.migrated"},
		{path: "..yml", want: "..yml.migrated"},
		{path: "dir.d/compose", want: "dir.d/compose.migrated"},
		{path: "stack/.compose.yml", want: "stack/.compose.migrated.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivedPath(tt.path, ".migrated"))
		})
	}
}
