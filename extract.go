package main

import (
	"strings"
)

// Extraction mode for a generate run.
const (
	ModeFull     = "full"
	ModeDocsOnly = "docs"
)

// extractDocs projects content down to its documentation spans using the
// profile's extractor. It is a best-effort lexical scan, never an error:
// profiles without an extractor fall back to a generic comment scan when
// they declare comment grammar, and to a passthrough otherwise.
func extractDocs(content []byte, profile *LanguageProfile) []byte {
	var spans []string
	switch {
	case profile.Extract != nil:
		spans = profile.Extract(content)
	case profile.LineComment != "" || profile.BlockOpen != "":
		spans = extractCommentSpans(content, profile)
	default:
		return content
	}
	return []byte(strings.Join(spans, "\n\n"))
}

// extractCommentSpans collects top-level comment runs in source order:
// the top-of-file comment, line-comment runs starting at column zero, and
// block comments opening at column zero. An unterminated block comment
// yields no span for that region.
func extractCommentSpans(content []byte, profile *LanguageProfile) []string {
	lines := strings.Split(string(content), "\n")
	var spans []string
	var run []string

	flush := func() {
		if len(run) > 0 {
			spans = append(spans, strings.Join(run, "\n"))
			run = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if profile.LineComment != "" && strings.HasPrefix(line, profile.LineComment) {
			run = append(run, strings.TrimRight(line, " \t"))
			continue
		}

		if profile.BlockOpen != "" && strings.HasPrefix(strings.TrimRight(line, " \t"), profile.BlockOpen) {
			flush()
			end := -1
			for j := i; j < len(lines); j++ {
				if strings.Contains(lines[j], profile.BlockClose) {
					end = j
					break
				}
			}
			if end == -1 {
				// Unterminated block comment: skip the region.
				break
			}
			spans = append(spans, strings.Join(lines[i:end+1], "\n"))
			i = end
			continue
		}

		flush()
	}
	flush()

	return spans
}

// extractPythonDocs performs a lexical scan of Python source, returning
// the module docstring followed by each def/class signature (with its
// decorators) and its docstring, preserving indentation so nesting stays
// readable. Malformed input degrades to fewer spans, never an error.
func extractPythonDocs(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	var spans []string

	if doc, _ := pythonModuleDocstring(lines); doc != "" {
		spans = append(spans, doc)
	}

	for i := 0; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		if !isPythonDefLine(stripped) {
			continue
		}

		var span []string

		// Decorators directly above the definition belong to it.
		indent := leadingWhitespace(lines[i])
		for j := i - 1; j >= 0; j-- {
			trimmed := strings.TrimSpace(lines[j])
			if strings.HasPrefix(trimmed, "@") && leadingWhitespace(lines[j]) == indent {
				span = append([]string{lines[j]}, span...)
				continue
			}
			break
		}

		// The header may span multiple lines; take lines until one
		// ends with ":" (ignoring trailing comments is not worth the
		// complexity for a heuristic scan).
		headerEnd := i
		for headerEnd < len(lines) {
			if strings.HasSuffix(strings.TrimRight(lines[headerEnd], " \t"), ":") {
				break
			}
			headerEnd++
			if headerEnd-i > 20 {
				headerEnd = i
				break
			}
		}
		if headerEnd >= len(lines) {
			headerEnd = i
		}
		span = append(span, lines[i:headerEnd+1]...)

		if doc, _ := pythonDocstringAfter(lines, headerEnd+1); doc != "" {
			span = append(span, doc)
		}

		spans = append(spans, strings.Join(span, "\n"))
		i = headerEnd
	}

	return spans
}

func isPythonDefLine(stripped string) bool {
	return strings.HasPrefix(stripped, "def ") ||
		strings.HasPrefix(stripped, "async def ") ||
		strings.HasPrefix(stripped, "class ")
}

// pythonModuleDocstring returns the docstring opening the file, if the
// first statement is a string literal.
func pythonModuleDocstring(lines []string) (string, int) {
	for i := 0; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		if strings.HasPrefix(stripped, `"""`) || strings.HasPrefix(stripped, "'''") {
			return pythonDocstringAfter(lines, i)
		}
		return "", i
	}
	return "", len(lines)
}

// pythonDocstringAfter captures a triple-quoted string starting at the
// first non-blank line at or after start. An unmatched delimiter returns
// no docstring.
func pythonDocstringAfter(lines []string, start int) (string, int) {
	for i := start; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		if stripped == "" {
			continue
		}

		var quote string
		switch {
		case strings.HasPrefix(stripped, `"""`):
			quote = `"""`
		case strings.HasPrefix(stripped, "'''"):
			quote = "'''"
		default:
			return "", i
		}

		// Single-line docstring: """text""" on one line.
		rest := stripped[len(quote):]
		if strings.Contains(rest, quote) {
			return lines[i], i
		}

		for j := i + 1; j < len(lines); j++ {
			if strings.Contains(lines[j], quote) {
				return strings.Join(lines[i:j+1], "\n"), j
			}
		}
		return "", len(lines) // unterminated, drop the region
	}
	return "", len(lines)
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
