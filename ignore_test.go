package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIgnoreSimpleGlob(t *testing.T) {
	rules := newIgnoreRuleSet("*.log")

	assert.True(t, rules.Match("debug.log", false))
	assert.True(t, rules.Match("sub/dir/trace.log", false))
	assert.False(t, rules.Match("main.go", false))
}

func TestIgnoreNegationLastMatchWins(t *testing.T) {
	rules := newIgnoreRuleSet("*.log", "!keep.log")

	assert.True(t, rules.Match("debug.log", false))
	assert.False(t, rules.Match("keep.log", false))
}

func TestIgnoreDirectoryOnlyPattern(t *testing.T) {
	rules := newIgnoreRuleSet("target/")

	assert.True(t, rules.Match("target", true))
	assert.True(t, rules.Match("sub/target", true))
	assert.False(t, rules.Match("target", false)) // plain file named target survives
}

func TestIgnoreRootedPattern(t *testing.T) {
	rules := newIgnoreRuleSet("/build")

	assert.True(t, rules.Match("build", true))
	assert.False(t, rules.Match("sub/build", true))
}

func TestIgnoreAddOrderMatters(t *testing.T) {
	rules := newIgnoreRuleSet("docs/*.md")
	rules.Add("!docs/README.md")

	assert.True(t, rules.Match("docs/notes.md", false))
	assert.False(t, rules.Match("docs/README.md", false))
}

func TestIgnoreSkipsBlankAndCommentPatterns(t *testing.T) {
	rules := newIgnoreRuleSet("", "# just a comment", "*.tmp")

	assert.Equal(t, []string{"*.tmp"}, rules.Patterns())
	assert.True(t, rules.Match("x.tmp", false))
}

func TestDefaultIgnoreForLanguage(t *testing.T) {
	assert.Contains(t, defaultIgnoreForLanguage("python"), "*.pyc")
	assert.Contains(t, defaultIgnoreForLanguage("Rust"), "target/")
	assert.Empty(t, defaultIgnoreForLanguage("cobol"))
}
