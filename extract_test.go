package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPythonModuleDocstring(t *testing.T) {
	src := `"""Utilities for parsing.

Long description.
"""

x = 1
`
	spans := extractPythonDocs([]byte(src))
	require.NotEmpty(t, spans)
	assert.Equal(t, "\"\"\"Utilities for parsing.\n\nLong description.\n\"\"\"", spans[0])
}

func TestExtractPythonDefsWithDocstrings(t *testing.T) {
	src := `import os


def parse(path):
    """Parse a file.

    Returns a tree.
    """
    return os.stat(path)


class Walker:
    """Walks trees."""

    def step(self):
        '''Advance once.'''
        pass

    def silent(self):
        return 1
`
	spans := extractPythonDocs([]byte(src))
	require.Len(t, spans, 4)

	assert.Contains(t, spans[0], "def parse(path):")
	assert.Contains(t, spans[0], "Parse a file.")
	assert.Contains(t, spans[1], "class Walker:")
	assert.Contains(t, spans[1], `"""Walks trees."""`)
	assert.Contains(t, spans[2], "def step(self):")
	assert.Contains(t, spans[2], "'''Advance once.'''")
	// Signature still captured when no docstring follows.
	assert.Equal(t, "    def silent(self):", spans[3])
}

func TestExtractPythonDecoratorsBelongToDef(t *testing.T) {
	src := `@app.route("/")
@cached
def index():
    """Front page."""
    return render()
`
	spans := extractPythonDocs([]byte(src))
	require.Len(t, spans, 1)
	assert.Equal(t, "@app.route(\"/\")\n@cached\ndef index():\n    \"\"\"Front page.\"\"\"", spans[0])
}

func TestExtractPythonMultiLineHeader(t *testing.T) {
	src := `def configure(
    host,
    port,
):
    """Set up the client."""
    pass
`
	spans := extractPythonDocs([]byte(src))
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0], "port,")
	assert.Contains(t, spans[0], `"""Set up the client."""`)
}

func TestExtractPythonUnterminatedDocstringDropped(t *testing.T) {
	src := "def broken():\n    \"\"\"never closed\n    pass\n"
	spans := extractPythonDocs([]byte(src))
	require.Len(t, spans, 1)
	assert.Equal(t, "def broken():", spans[0])
}

func TestExtractCommentSpansLineRuns(t *testing.T) {
	profile := &LanguageProfile{LineComment: "//", BlockOpen: "/*", BlockClose: "*/"}
	src := `// Package widget renders widgets.
// It is small.

func main() {}

/* Block note
   spanning lines */
var x = 1
`
	spans := extractCommentSpans([]byte(src), profile)
	require.Len(t, spans, 2)
	assert.Equal(t, "// Package widget renders widgets.\n// It is small.", spans[0])
	assert.Equal(t, "/* Block note\n   spanning lines */", spans[1])
}

func TestExtractCommentSpansUnterminatedBlock(t *testing.T) {
	profile := &LanguageProfile{LineComment: "//", BlockOpen: "/*", BlockClose: "*/"}
	src := "// kept\n/* never closed\nmore\n"
	spans := extractCommentSpans([]byte(src), profile)
	require.Len(t, spans, 1)
	assert.Equal(t, "// kept", spans[0])
}

func TestExtractDocsUnknownLanguagePassthrough(t *testing.T) {
	profile := &LanguageProfile{Name: "Text", Tag: "text"}
	content := []byte("anything at all\n")
	assert.Equal(t, content, extractDocs(content, profile))
}

func TestExtractDocsUsesProfileExtractor(t *testing.T) {
	reg := newLanguageRegistry()
	p := reg.ProfileForFile("m.py", nil)
	out := extractDocs([]byte("\"\"\"Doc.\"\"\"\nx = 1\n"), p)
	assert.Equal(t, `"""Doc."""`, string(out))
}

func TestRenderNotebookMalformedJSON(t *testing.T) {
	_, ok := renderNotebook([]byte("not json"), false)
	assert.False(t, ok)
}

func TestRenderNotebookStringSource(t *testing.T) {
	// Some writers emit source as a single string instead of a list.
	nb := `{"cells":[{"cell_type":"code","source":"x = 1\nprint(x)\n"}]}`
	out, ok := renderNotebook([]byte(nb), false)
	require.True(t, ok)
	assert.Contains(t, out, "// Cell #0 (code)\nx = 1\nprint(x)")
}
