package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// GenerateOptions carries the flag-level knobs that sit outside a named
// configuration.
type GenerateOptions struct {
	ShowHidden   bool
	MaxSizeBytes int64
	Interactive  bool
	LinkDepth    int // follow same-origin links this deep for web inputs
}

// generateDocument runs the full generate pipeline for one configuration:
// resolve the input (local directory, git URL or web URL), walk it, and
// render the prompt document. The returned nodes are the files that made
// it into the document, in document order.
func generateDocument(cfg Config, registry *LanguageRegistry, opts GenerateOptions) (string, []FileNode, error) {
	cfg.applyDefaults()

	input := cfg.Path
	if isWebURL(input) {
		files, err := fetchWebPages(input, opts.LinkDepth)
		if err != nil {
			return "", nil, fmt.Errorf("error fetching %s: %w", input, err)
		}
		rootName := "web"
		if len(files) > 0 {
			rootName = files[0].Path
		}
		doc := renderDocument(files, SerializeOptions{
			RootName: rootName,
			Fence:    cfg.Delimiter,
			Prompts:  cfg.Prompts,
			Registry: registry,
		})
		return doc, files, nil
	}

	root := input
	if isGitURL(input) {
		tempDir, err := cloneGitRepo(input)
		if err != nil {
			return "", nil, err
		}
		defer os.RemoveAll(tempDir)
		root = tempDir
	}

	rules := newIgnoreRuleSet(defaultExcludes...)
	rules.Add(cfg.Output)
	if cfg.Language != "" {
		if _, ok := registry.ProfileForTag(cfg.Language); !ok {
			fmt.Fprintf(os.Stderr, "Warning: unknown language %q; no files will match\n", cfg.Language)
		}
		rules.Add(defaultIgnoreForLanguage(cfg.Language)...)
	}
	if cfg.gitignoreEnabled() {
		rules.AddFile(filepath.Join(root, ".gitignore"))
	}
	rules.AddFile(filepath.Join(root, prmptIgnoreFile))
	rules.Add(cfg.Ignore...)

	files, err := walkTree(root, WalkOptions{
		Ignore:       rules,
		Registry:     registry,
		Language:     cfg.Language,
		ShowHidden:   opts.ShowHidden,
		MaxSizeBytes: opts.MaxSizeBytes,
	})
	if err != nil {
		return "", nil, err
	}

	if opts.Interactive {
		files, err = pickFiles(files)
		if err != nil {
			return "", nil, err
		}
		if files == nil {
			return "", nil, nil // selection aborted
		}
	}

	mode := ModeFull
	if cfg.DocsCommentsOnly {
		mode = ModeDocsOnly
	}

	doc := renderDocument(files, SerializeOptions{
		RootName:       rootNameFor(input),
		Fence:          cfg.Delimiter,
		Mode:           mode,
		DocsIgnore:     cfg.DocsIgnore,
		DisplayOutputs: cfg.DisplayOutputs,
		Prompts:        cfg.Prompts,
		Registry:       registry,
	})
	return doc, files, nil
}

// rootNameFor picks the tree-preamble heading: the original input's base
// name, resolving "." to the current directory's name. Cloned repos keep
// the URL-derived name rather than the temp dir's.
func rootNameFor(input string) string {
	if isGitURL(input) {
		return repoNameFromURL(input)
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return filepath.Base(input)
	}
	return filepath.Base(abs)
}

// summarize aggregates the numbers reported after a generate run.
func summarize(files []FileNode, tokens int) Summary {
	s := Summary{TotalTokens: tokens}
	for _, f := range files {
		s.TotalFiles++
		s.TotalSize += f.Size
	}
	return s
}
