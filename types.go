package main

import "io/fs"

// FileNode holds a single file discovered during a generate walk.
// The path is always relative to the walk root and slash-separated.
type FileNode struct {
	Path     string
	AbsPath  string
	Size     int64
	Mode     fs.FileMode
	Content  []byte // Loaded by the walker; web nodes carry fetched content directly
	Language string // Fence tag from the language registry, e.g. "python"
}

// CodeBlock is one fenced block, either about to be rendered (generate)
// or recovered from model output (inject).
type CodeBlock struct {
	Path     string
	Language string
	Content  string
	Fence    string // The exact fence token used for this block
}

// ParseWarning records a non-fatal problem encountered while parsing
// model output, such as an orphan fence or an unterminated block.
type ParseWarning struct {
	Line    int
	Message string
}

// PatchFailure describes a single block that could not be applied.
type PatchFailure struct {
	Path   string
	Reason string
}

// PatchReport summarizes an inject run. Written holds paths in the order
// they were applied; Failed collects per-block errors that did not abort
// the run.
type PatchReport struct {
	Written []string
	Failed  []PatchFailure
	DryRun  bool
}

// Summary holds aggregate numbers reported after a generate run.
type Summary struct {
	TotalFiles  int
	TotalSize   int64
	TotalTokens int
}
