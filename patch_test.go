package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBlocksWritesFiles(t *testing.T) {
	root := t.TempDir()
	blocks := []CodeBlock{
		{Path: "main.go", Content: "package main"},
		{Path: "deep/nested/dir/x.txt", Content: "x"},
	}

	report := applyBlocks(blocks, root, PolicyOverwrite)

	assert.Empty(t, report.Failed)
	assert.Equal(t, []string{"main.go", "deep/nested/dir/x.txt"}, report.Written)

	got, err := os.ReadFile(filepath.Join(root, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(got))

	got, err = os.ReadFile(filepath.Join(root, "deep", "nested", "dir", "x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(got))
}

func TestApplyBlocksEmptyBlockMakesEmptyFile(t *testing.T) {
	root := t.TempDir()
	report := applyBlocks([]CodeBlock{{Path: "empty.txt", Content: ""}}, root, PolicyOverwrite)

	require.Empty(t, report.Failed)
	got, err := os.ReadFile(filepath.Join(root, "empty.txt"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyBlocksLastWriteWins(t *testing.T) {
	root := t.TempDir()
	blocks := []CodeBlock{
		{Path: "a.txt", Content: "first"},
		{Path: "a.txt", Content: "second"},
	}

	report := applyBlocks(blocks, root, PolicyOverwrite)
	assert.Len(t, report.Written, 2)

	got, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(got))
}

func TestApplyBlocksRejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	blocks := []CodeBlock{
		{Path: "../outside.txt", Content: "nope"},
		{Path: "/etc/passwd", Content: "nope"},
		{Path: "a/../../outside.txt", Content: "nope"},
		{Path: "", Content: "nope"},
		{Path: "inside.txt", Content: "yes"},
	}

	report := applyBlocks(blocks, root, PolicyOverwrite)

	assert.Equal(t, []string{"inside.txt"}, report.Written)
	require.Len(t, report.Failed, 4)
	_, err := os.Stat(filepath.Join(root, "..", "outside.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestApplyBlocksBackupPolicy(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("old\n"), 0o644))

	report := applyBlocks([]CodeBlock{{Path: "a.txt", Content: "new"}}, root, PolicyBackup)
	require.Empty(t, report.Failed)

	got, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(got))

	backup, err := os.ReadFile(filepath.Join(root, "a.txt"+backupSuffix))
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(backup))
}

func TestApplyBlocksBackupOnlyForExistingFiles(t *testing.T) {
	root := t.TempDir()
	report := applyBlocks([]CodeBlock{{Path: "fresh.txt", Content: "x"}}, root, PolicyBackup)
	require.Empty(t, report.Failed)

	_, err := os.Stat(filepath.Join(root, "fresh.txt"+backupSuffix))
	assert.True(t, os.IsNotExist(err))
}

func TestApplyBlocksDryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	report := applyBlocks([]CodeBlock{
		{Path: "a.txt", Content: "x"},
		{Path: "../escape.txt", Content: "x"},
	}, root, PolicyDryRun)

	assert.True(t, report.DryRun)
	assert.Equal(t, []string{"a.txt"}, report.Written)
	assert.Len(t, report.Failed, 1)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// A generated document fed back through the parser and patcher must
// reproduce the source tree, up to trailing-newline normalization.
func TestGenerateInjectRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"README.md":        "# Project\n\nIntro.\n",
		"main.py":          "print(\"Hello, world!\")\n",
		"pkg/util.py":      "def helper():\n    return 42\n",
		"pkg/sub/deep.txt": "deep content\n",
		"notes.md":         "fenced sample:\n```\ncode\n```\ndone\n",
		"empty.txt":        "",
	})

	files, err := walkTree(src, WalkOptions{})
	require.NoError(t, err)
	doc := renderDocument(files, SerializeOptions{RootName: "proj", Registry: newLanguageRegistry()})

	blocks, warnings, err := parseBlocks(strings.NewReader(doc), defaultFence)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, blocks, len(files))

	dst := t.TempDir()
	report := applyBlocks(blocks, dst, PolicyOverwrite)
	require.Empty(t, report.Failed)

	for _, f := range files {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(f.Path)))
		require.NoError(t, err, f.Path)
		want := strings.TrimRight(string(f.Content), "\n")
		if want != "" {
			want += "\n"
		}
		assert.Equal(t, want, string(got), f.Path)
	}
}
