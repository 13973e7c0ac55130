package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// WalkOptions configures a generate walk over a directory tree.
type WalkOptions struct {
	Ignore       *IgnoreRuleSet
	Registry     *LanguageRegistry
	Language     string // keep only files of this language when non-empty
	ShowHidden   bool
	MaxSizeBytes int64 // 0 means no limit
}

// walkTree traverses root depth-first and returns the surviving files as
// FileNodes in canonical lexicographic path order. Unreadable entries are
// reported to stderr and skipped; the walk itself only fails if the root
// cannot be read. Symlinked directories are followed, with cycles broken
// by a visited-identity set of resolved paths.
func walkTree(root string, opts WalkOptions) ([]FileNode, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	if opts.Registry == nil {
		opts.Registry = newLanguageRegistry()
	}
	if opts.Ignore == nil {
		opts.Ignore = newIgnoreRuleSet(defaultExcludes...)
	}

	visited := make(map[string]bool)
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		visited[resolved] = true
	}

	var files []FileNode
	walkDir(absRoot, "", opts, visited, &files)

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func walkDir(dir, rel string, opts WalkOptions, visited map[string]bool, files *[]FileNode) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read directory %s: %v\n", dir, err)
		return
	}

	// os.ReadDir already sorts by name, which keeps traversal
	// deterministic across runs and platforms.
	for _, entry := range entries {
		name := entry.Name()
		entryRel := path.Join(rel, name)
		entryPath := filepath.Join(dir, name)

		if !opts.ShowHidden && isHidden(name) {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(entryPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not resolve symlink %s: %v\n", entryPath, err)
				continue
			}
			isDir = target.IsDir()
		}

		if opts.Ignore.Match(entryRel, isDir) {
			continue
		}

		if isDir {
			resolved, err := filepath.EvalSymlinks(entryPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not resolve directory %s: %v\n", entryPath, err)
				continue
			}
			if visited[resolved] {
				continue
			}
			visited[resolved] = true
			walkDir(entryPath, entryRel, opts, visited, files)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not stat %s: %v\n", entryPath, err)
			continue
		}
		if opts.MaxSizeBytes > 0 && info.Size() > opts.MaxSizeBytes {
			continue
		}

		content, err := os.ReadFile(entryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read file %s: %v\n", entryPath, err)
			continue
		}

		profile := opts.Registry.ProfileForFile(entryRel, content)
		if opts.Language != "" && !profileMatchesLanguage(profile, opts.Language) {
			continue
		}

		*files = append(*files, FileNode{
			Path:     entryRel,
			AbsPath:  entryPath,
			Size:     info.Size(),
			Mode:     info.Mode(),
			Content:  content,
			Language: profile.Tag,
		})
	}
}

func profileMatchesLanguage(profile *LanguageProfile, language string) bool {
	lower := strings.ToLower(language)
	return profile.Tag == lower || strings.ToLower(profile.Name) == lower
}

// isHidden reports whether a base name is a dotfile. "." and ".." are
// never considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return len(name) > 0 && name[0] == '.'
}
