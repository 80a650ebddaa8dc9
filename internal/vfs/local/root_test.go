package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// newTestRoot creates the following structure below a temporary root:
//
//	index.html
//	dir/file.txt
//	link: symlink to index.html
//	dir_link: symlink to dir
//	escape_link: symlink to a file outside of the root
//	escape_dir_link: symlink to a directory outside of the root
func newTestRoot(t *testing.T) (*Root, string) {
	t.Helper()

	outside := tmpDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret"), []byte("secret"), 0644))

	rootPath := tmpDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(rootPath, "index.html"), []byte("<h1>hi</h1>"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(rootPath, "dir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(rootPath, "dir", "file.txt"), []byte("text"), 0644))
	require.NoError(t, os.Symlink("index.html", filepath.Join(rootPath, "link")))
	require.NoError(t, os.Symlink("dir", filepath.Join(rootPath, "dir_link")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret"), filepath.Join(rootPath, "escape_link")))
	require.NoError(t, os.Symlink(outside, filepath.Join(rootPath, "escape_dir_link")))

	rootVFS, err := localVFS.Root(context.Background(), rootPath)
	require.NoError(t, err)

	return rootVFS.(*Root), rootPath
}

func TestJoin(t *testing.T) {
	root, rootPath := newTestRoot(t)

	tests := map[string]struct {
		name                string
		expectedFullPath    string
		expectedInvalidPath bool
	}{
		"a valid name": {
			name:             "dir/file.txt",
			expectedFullPath: filepath.Join(rootPath, "dir", "file.txt"),
		},
		"the root itself": {
			name:             "",
			expectedFullPath: rootPath,
		},
		"a leading slash": {
			name:             "/dir/file.txt",
			expectedFullPath: filepath.Join(rootPath, "dir", "file.txt"),
		},
		"a parent segment staying inside": {
			name:             "dir/../index.html",
			expectedFullPath: filepath.Join(rootPath, "index.html"),
		},
		"a name outside of the root": {
			name:                "dir/../../secret",
			expectedInvalidPath: true,
		},
		"a sibling sharing the root prefix": {
			name:                "../" + filepath.Base(rootPath) + "-other/file",
			expectedInvalidPath: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			fullPath, err := root.join(test.name)

			if test.expectedInvalidPath {
				require.IsType(t, &InvalidPathError{}, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedFullPath, fullPath)
		})
	}
}

func TestContain(t *testing.T) {
	root, rootPath := newTestRoot(t)

	name, err := root.contain(rootPath)
	require.NoError(t, err)
	require.Equal(t, ".", name)

	name, err = root.contain(filepath.Join(rootPath, "dir", "file.txt"))
	require.NoError(t, err)
	require.Equal(t, "dir/file.txt", name)

	_, err = root.contain(rootPath + "-other")
	require.EqualError(t, err, fmt.Sprintf("%q is outside of %q", rootPath+"-other", rootPath))
}

func TestEvalSymlinks(t *testing.T) {
	root, _ := newTestRoot(t)
	ctx := context.Background()

	tests := map[string]struct {
		path                string
		expectedName        string
		expectedInvalidPath bool
		expectedIsNotExist  bool
	}{
		"a regular file": {
			path:         "index.html",
			expectedName: "index.html",
		},
		"a symlink inside of the root": {
			path:         "link",
			expectedName: "index.html",
		},
		"a file below a symlinked directory": {
			path:         "dir_link/file.txt",
			expectedName: "dir/file.txt",
		},
		"the root": {
			path:         "",
			expectedName: ".",
		},
		"a symlink escaping the root": {
			path:                "escape_link",
			expectedInvalidPath: true,
		},
		"a file below a directory symlink escaping the root": {
			path:                "escape_dir_link/secret",
			expectedInvalidPath: true,
		},
		"a missing file": {
			path:               "missing.html",
			expectedIsNotExist: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			target, err := root.EvalSymlinks(ctx, test.path)

			switch {
			case test.expectedInvalidPath:
				var invalidPath *InvalidPathError
				require.True(t, errors.As(err, &invalidPath), "expected InvalidPathError, got %v", err)
			case test.expectedIsNotExist:
				require.True(t, errors.Is(err, fs.ErrNotExist), "expected not exist, got %v", err)
			default:
				require.NoError(t, err)
				require.Equal(t, test.expectedName, target)
			}
		})
	}
}

func TestLstat(t *testing.T) {
	root, _ := newTestRoot(t)
	ctx := context.Background()

	fi, err := root.Lstat(ctx, "link")
	require.NoError(t, err)
	require.Equal(t, fs.ModeSymlink, fi.Mode()&fs.ModeSymlink)

	fi, err = root.Lstat(ctx, "dir")
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	_, err = root.Lstat(ctx, "../outside")
	require.IsType(t, &InvalidPathError{}, err)
}

func TestOpen(t *testing.T) {
	root, _ := newTestRoot(t)
	ctx := context.Background()

	t.Run("a regular file", func(t *testing.T) {
		f, err := root.Open(ctx, "index.html")
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, "<h1>hi</h1>", string(data))

		fi, err := f.Stat()
		require.NoError(t, err)
		require.Equal(t, int64(len(data)), fi.Size())
	})

	t.Run("a symlink is not followed", func(t *testing.T) {
		_, err := root.Open(ctx, "link")
		require.True(t, errors.Is(err, unix.ELOOP), "expected ELOOP, got %v", err)
	})

	t.Run("a path outside of the root", func(t *testing.T) {
		_, err := root.Open(ctx, "../secret")
		require.IsType(t, &InvalidPathError{}, err)
	})
}
