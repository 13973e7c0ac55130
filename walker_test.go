package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree lays out files under root from a path->content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func walkedPaths(files []FileNode) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func TestWalkTreeOrderedAndClassified(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":      "print(1)\n",
		"README.md":    "# hi\n",
		"pkg/util.py":  "x = 1\n",
		"pkg/data.txt": "data\n",
	})

	files, err := walkTree(root, WalkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "main.py", "pkg/data.txt", "pkg/util.py"}, walkedPaths(files))
	byPath := map[string]FileNode{}
	for _, f := range files {
		byPath[f.Path] = f
	}
	assert.Equal(t, "python", byPath["main.py"].Language)
	assert.Equal(t, "markdown", byPath["README.md"].Language)
	assert.Equal(t, "text", byPath["pkg/data.txt"].Language)
	assert.Equal(t, []byte("print(1)\n"), byPath["main.py"].Content)
}

func TestWalkTreeAppliesIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.go":           "package main\n",
		"debug.log":         "noise\n",
		"keep.log":          "wanted\n",
		"target/out.txt":    "build artifact\n",
		"a/target/deep.txt": "nested artifact\n",
	})

	rules := newIgnoreRuleSet("target/", "*.log", "!keep.log")
	files, err := walkTree(root, WalkOptions{Ignore: rules})
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.go", "keep.log"}, walkedPaths(files))
}

func TestWalkTreeSkipsHiddenByDefault(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"visible.txt":     "a\n",
		".hidden.txt":     "b\n",
		".hiddendir/x.go": "package x\n",
	})

	files, err := walkTree(root, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"visible.txt"}, walkedPaths(files))

	files, err = walkTree(root, WalkOptions{ShowHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden.txt", ".hiddendir/x.go", "visible.txt"}, walkedPaths(files))
}

func TestWalkTreeMaxSize(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.txt": "ok\n",
		"large.txt": "0123456789012345678901234567890123456789\n",
	})

	files, err := walkTree(root, WalkOptions{MaxSizeBytes: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.txt"}, walkedPaths(files))
}

func TestWalkTreeLanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":  "print(1)\n",
		"util.go":  "package main\n",
		"notes.md": "# notes\n",
	})

	files, err := walkTree(root, WalkOptions{Language: "python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, walkedPaths(files))
}

func TestWalkTreeBreaksSymlinkCycles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"dir/file.txt": "x\n"})
	// dir/loop -> dir creates a traversal cycle.
	require.NoError(t, os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dir", "loop")))

	files, err := walkTree(root, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/file.txt"}, walkedPaths(files))
}

func TestWalkTreeMissingRoot(t *testing.T) {
	_, err := walkTree(filepath.Join(t.TempDir(), "nope"), WalkOptions{})
	assert.Error(t, err)
}

func TestWalkTreeRootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x\n"})
	_, err := walkTree(filepath.Join(root, "f.txt"), WalkOptions{})
	assert.Error(t, err)
}
