package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// defaultExcludes are always-on ignore rules: version control metadata,
// common build output and the tool's own files.
var defaultExcludes = []string{
	".git/",
	".hg/",
	".svn/",
	"node_modules/",
	"__pycache__/",
	".DS_Store",
	"prmpt.yaml",
	".prmptignore",
}

// prmptIgnoreFile is a repo-local ignore file read in gitignore syntax,
// applied on top of .gitignore.
const prmptIgnoreFile = ".prmptignore"

// IgnoreRuleSet decides whether a relative path is excluded from a walk.
// Rules use gitignore conventions: `*`/`**` globs, trailing `/` restricts
// a rule to directories, a leading `!` re-includes a previously matched
// path, and the last matching rule wins. Rule order is therefore part of
// the set's meaning: defaults first, then ignore-file rules, then
// explicit patterns.
type IgnoreRuleSet struct {
	patterns []string
	matcher  gitignore.IgnoreMatcher
}

func newIgnoreRuleSet(patterns ...string) *IgnoreRuleSet {
	rs := &IgnoreRuleSet{}
	rs.Add(patterns...)
	return rs
}

// Add appends patterns to the rule set. Later patterns take precedence
// over earlier ones for paths matched by both.
func (rs *IgnoreRuleSet) Add(patterns ...string) {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		rs.patterns = append(rs.patterns, p)
	}
	rs.matcher = gitignore.NewGitIgnoreFromReader(".", strings.NewReader(strings.Join(rs.patterns, "\n")))
}

// AddFile appends the rules found in an ignore file, if it exists.
// A missing file is not an error; an unreadable one is reported and
// skipped.
func (rs *IgnoreRuleSet) AddFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: could not read ignore file %s: %v\n", path, err)
		}
		return
	}
	rs.Add(strings.Split(string(data), "\n")...)
}

// Match reports whether relPath is excluded. relPath must be
// slash-separated and relative to the walk root.
func (rs *IgnoreRuleSet) Match(relPath string, isDir bool) bool {
	if rs.matcher == nil || relPath == "" || relPath == "." {
		return false
	}
	return rs.matcher.Match(filepath.FromSlash(relPath), isDir)
}

// Patterns returns a copy of the rules in evaluation order.
func (rs *IgnoreRuleSet) Patterns() []string {
	out := make([]string, len(rs.patterns))
	copy(out, rs.patterns)
	return out
}

// defaultIgnoreForLanguage returns extra ignore rules that make sense for
// a repository in the given language, keyed by fence tag or name.
func defaultIgnoreForLanguage(language string) []string {
	switch strings.ToLower(language) {
	case "python":
		return []string{
			"*.pyc", "*.pyo", "*.pyd", ".Python",
			"build/", "develop-eggs/", "dist/", "eggs/", ".eggs/",
			"wheels/", "*.egg-info/", "*.egg", "MANIFEST",
			".env", ".venv", "env/", "venv/", "ENV/",
			".pytest_cache/", ".mypy_cache/", ".coverage", "htmlcov/",
		}
	case "javascript", "typescript":
		return []string{
			"node_modules/", "npm-debug.log*", "yarn-debug.log*",
			"yarn-error.log*", "dist/", "build/", ".DS_Store",
		}
	case "rust":
		return []string{"target/", "Cargo.lock"}
	case "go":
		return []string{"vendor/", "*.test"}
	default:
		return nil
	}
}
