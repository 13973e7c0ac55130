package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parser states for recovering code blocks from model output.
type parserState int

const (
	stateSeekingPath parserState = iota
	stateInBlock
)

// blockParser is a two-state machine over a line stream. Between blocks
// it hunts for a path line; inside a block it accumulates content until a
// line matching the recorded opening fence closes it. Narrative prose and
// malformed framing never abort the parse.
type blockParser struct {
	fenceHint string
	fenceUnit byte

	state       parserState
	lineNo      int
	pendingPath string
	openFence   string
	openLang    string
	openLine    int
	content     []string

	blocks   []CodeBlock
	warnings []ParseWarning
}

// parseBlocks reads arbitrary text and returns the code blocks found in
// input order, along with non-fatal warnings for dropped malformed
// framing. fenceHint is the expected fence token; longer runs of the same
// marker are accepted, as produced by collision-avoiding serializers.
func parseBlocks(r io.Reader, fenceHint string) ([]CodeBlock, []ParseWarning, error) {
	if fenceHint == "" {
		fenceHint = defaultFence
	}
	p := &blockParser{
		fenceHint: fenceHint,
		fenceUnit: fenceHint[len(fenceHint)-1],
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		p.lineNo++
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return p.blocks, p.warnings, fmt.Errorf("error reading input: %w", err)
	}

	if p.state == stateInBlock {
		p.warn(p.openLine, "input ended inside an unterminated code block; block dropped")
	}

	return p.blocks, p.warnings, nil
}

func (p *blockParser) feed(line string) {
	switch p.state {
	case stateSeekingPath:
		if token, rest, ok := p.openingFence(line); ok {
			p.openBlock(token, rest)
			return
		}
		if path, ok := pathCandidate(line); ok {
			p.pendingPath = path
		}
	case stateInBlock:
		if strings.TrimSpace(line) == p.openFence {
			p.closeBlock()
			return
		}
		p.content = append(p.content, line)
	}
}

// openingFence reports whether line opens a fenced block, returning the
// exact token (which may be longer than the hint) and the text following
// it.
func (p *blockParser) openingFence(line string) (token, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, p.fenceHint) {
		return "", "", false
	}
	n := len(p.fenceHint)
	for n < len(trimmed) && trimmed[n] == p.fenceUnit {
		n++
	}
	return trimmed[:n], strings.TrimSpace(trimmed[n:]), true
}

func (p *blockParser) openBlock(token, rest string) {
	p.openFence = token
	p.openLang = ""
	p.openLine = p.lineNo
	p.content = p.content[:0]
	p.state = stateInBlock

	// The fence suffix is normally a language tag, but model output in
	// the tool's own legacy format may carry the target path there,
	// either alone or after the tag.
	if rest != "" {
		fields := strings.Fields(rest)
		if len(fields) == 1 {
			if looksLikePath(fields[0]) {
				p.pendingPath = fields[0]
			} else {
				p.openLang = fields[0]
			}
		} else {
			p.openLang = fields[0]
			if last := fields[len(fields)-1]; looksLikePath(last) {
				p.pendingPath = last
			}
		}
	}
}

func (p *blockParser) closeBlock() {
	defer func() {
		p.state = stateSeekingPath
		p.pendingPath = ""
	}()

	if p.pendingPath == "" {
		p.warn(p.openLine, "code block closed without a preceding file path; block dropped")
		return
	}

	p.blocks = append(p.blocks, CodeBlock{
		Path:     p.pendingPath,
		Language: p.openLang,
		Content:  strings.Join(p.content, "\n"),
		Fence:    p.openFence,
	})
}

func (p *blockParser) warn(line int, message string) {
	p.warnings = append(p.warnings, ParseWarning{Line: line, Message: message})
}

// pathCandidate extracts a file path from a line between blocks. It
// accepts the serializer's bare path lines plus the inline-code framings
// models tend to add: `path`, **`path`** and ### `path`. Prose lines and
// plain headings are ignored.
func pathCandidate(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(trimmed, "### `") && strings.HasSuffix(trimmed, "`"):
		return trimmed[5 : len(trimmed)-1], len(trimmed) > 6
	case strings.HasPrefix(trimmed, "**`") && strings.HasSuffix(trimmed, "`**"):
		return trimmed[3 : len(trimmed)-3], len(trimmed) > 6
	case strings.HasPrefix(trimmed, "`") && strings.HasSuffix(trimmed, "`") && len(trimmed) > 2:
		return trimmed[1 : len(trimmed)-1], true
	}

	if strings.HasPrefix(trimmed, "#") || strings.ContainsAny(trimmed, " \t") {
		return "", false
	}
	return trimmed, true
}

// looksLikePath distinguishes a path from a language tag on a fence
// line: paths carry a separator or an extension dot.
func looksLikePath(s string) bool {
	return strings.ContainsAny(s, "/.")
}
