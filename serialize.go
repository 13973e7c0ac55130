package main

import (
	"path"
	"sort"
	"strings"
)

// defaultFence is the fence token used when none is configured.
const defaultFence = "```"

// SerializeOptions configures how a walk result is rendered into a
// prompt document.
type SerializeOptions struct {
	RootName       string
	Fence          string
	Mode           string   // ModeFull or ModeDocsOnly
	DocsIgnore     []string // glob patterns exempt from docs-only extraction
	DisplayOutputs bool     // include notebook cell outputs
	Prompts        []string // prompt lines prepended to the document
	Registry       *LanguageRegistry
}

// renderDocument produces the full prompt document for an ordered list of
// file nodes: optional prompt lines, an indented directory-tree preamble,
// then one fenced block per file. The function is pure; identical inputs
// always yield identical text and nothing is written to disk.
func renderDocument(files []FileNode, opts SerializeOptions) string {
	if opts.Fence == "" {
		opts.Fence = defaultFence
	}
	if opts.Registry == nil {
		opts.Registry = newLanguageRegistry()
	}

	var sb strings.Builder

	for _, prompt := range opts.Prompts {
		sb.WriteString(prompt)
		sb.WriteString("\n")
	}
	if len(opts.Prompts) > 0 {
		sb.WriteString("\n")
	}

	// Render blocks first so the tree preamble lists exactly the files
	// the document contains; docs-only mode can drop files entirely.
	var blocks []string
	var included []FileNode
	for _, file := range files {
		block, ok := renderBlock(file, opts)
		if !ok {
			continue
		}
		blocks = append(blocks, block)
		included = append(included, file)
	}

	rootName := opts.RootName
	if rootName == "" {
		rootName = "."
	}
	sb.WriteString(rootName)
	sb.WriteString("\n")
	sb.WriteString(renderTree(included))
	sb.WriteString("\n")

	for _, block := range blocks {
		sb.WriteString(block)
	}

	return sb.String()
}

// renderBlock renders a single file as a path line plus a fenced block.
// Returns ok=false when the block should be omitted entirely, e.g. a
// docs-only file with nothing to extract.
func renderBlock(file FileNode, opts SerializeOptions) (string, bool) {
	content := file.Content

	if strings.HasSuffix(file.Path, ".ipynb") {
		if rendered, ok := renderNotebook(content, opts.DisplayOutputs); ok {
			content = []byte(rendered)
		}
	} else if opts.Mode == ModeDocsOnly && !matchesAnyGlob(file.Path, opts.DocsIgnore) {
		profile := opts.Registry.ProfileForFile(file.Path, content)
		content = extractDocs(content, profile)
		if len(strings.TrimSpace(string(content))) == 0 {
			return "", false
		}
	}

	body := strings.TrimRight(string(content), "\n")
	fence := chooseFence(opts.Fence, body)

	var sb strings.Builder
	sb.WriteString(file.Path)
	sb.WriteString("\n")
	sb.WriteString(fence)
	if file.Language != "" {
		sb.WriteString(file.Language)
	}
	sb.WriteString("\n")
	if body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n\n")
	return sb.String(), true
}

// chooseFence returns a fence token that no content line equals,
// lengthening the configured token one marker at a time until the block
// can be framed unambiguously. Lines are compared trimmed, matching how
// the parser recognizes a closing fence.
func chooseFence(token, body string) string {
	if token == "" {
		token = defaultFence
	}
	fence := token
	unit := token[len(token)-1:]
	for {
		collides := false
		for _, line := range strings.Split(body, "\n") {
			if strings.TrimSpace(line) == fence {
				collides = true
				break
			}
		}
		if !collides {
			return fence
		}
		fence += unit
	}
}

// matchesAnyGlob reports whether relPath matches any of the patterns,
// checking the full relative path and the base name. Invalid patterns
// never match.
func matchesAnyGlob(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pattern, path.Base(relPath)); err == nil && ok {
			return true
		}
	}
	return false
}

// treeNode is one entry in the directory-tree preamble.
type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
	index    map[string]*treeNode
}

// renderTree draws the indented tree listing for the given files, using
// the same box-drawing connectors as the block output of a directory
// listing.
func renderTree(files []FileNode) string {
	root := &treeNode{isDir: true, index: make(map[string]*treeNode)}
	for _, file := range files {
		insertTreePath(root, strings.Split(file.Path, "/"))
	}
	sortTreeChildren(root)

	var sb strings.Builder
	printTreeNode(&sb, root.children, "")
	return sb.String()
}

func insertTreePath(node *treeNode, segments []string) {
	if len(segments) == 0 {
		return
	}
	name := segments[0]
	child, ok := node.index[name]
	if !ok {
		child = &treeNode{name: name, isDir: len(segments) > 1, index: make(map[string]*treeNode)}
		node.index[name] = child
		node.children = append(node.children, child)
	}
	if len(segments) > 1 {
		child.isDir = true
		insertTreePath(child, segments[1:])
	}
}

func sortTreeChildren(node *treeNode) {
	sort.Slice(node.children, func(i, j int) bool {
		return node.children[i].name < node.children[j].name
	})
	for _, child := range node.children {
		sortTreeChildren(child)
	}
}

func printTreeNode(sb *strings.Builder, children []*treeNode, prefix string) {
	for i, node := range children {
		connector := "├── "
		newPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			newPrefix = prefix + "    "
		}

		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(node.name)
		sb.WriteString("\n")

		if node.isDir && len(node.children) > 0 {
			printTreeNode(sb, node.children, newPrefix)
		}
	}
}
