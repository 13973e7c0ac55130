package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WritePolicy controls how the patcher treats existing files.
type WritePolicy int

const (
	PolicyOverwrite WritePolicy = iota
	PolicyBackup                // rename an existing file to <name>.bak first
	PolicyDryRun                // report what would be written, touch nothing
)

// backupSuffix is appended to a pre-existing file's name before it is
// replaced under PolicyBackup.
const backupSuffix = ".bak"

// applyBlocks writes recovered code blocks under root, strictly in block
// order so that a later block for the same path wins. Per-block failures
// (escaping paths, I/O errors) are collected in the report instead of
// aborting the run.
func applyBlocks(blocks []CodeBlock, root string, policy WritePolicy) PatchReport {
	report := PatchReport{DryRun: policy == PolicyDryRun}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		for _, block := range blocks {
			report.Failed = append(report.Failed, PatchFailure{
				Path:   block.Path,
				Reason: fmt.Sprintf("cannot resolve target root %s: %v", root, err),
			})
		}
		return report
	}

	for _, block := range blocks {
		target, err := resolveTarget(absRoot, block.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rejecting block for %q: %v\n", block.Path, err)
			report.Failed = append(report.Failed, PatchFailure{Path: block.Path, Reason: err.Error()})
			continue
		}

		if policy == PolicyDryRun {
			report.Written = append(report.Written, block.Path)
			continue
		}

		if err := writeBlock(target, block.Content, policy); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write %s: %v\n", block.Path, err)
			report.Failed = append(report.Failed, PatchFailure{Path: block.Path, Reason: err.Error()})
			continue
		}
		report.Written = append(report.Written, block.Path)
	}

	return report
}

// resolveTarget maps a block path onto the filesystem below absRoot,
// rejecting absolute paths and any path that escapes the root through
// parent-directory traversal.
func resolveTarget(absRoot, blockPath string) (string, error) {
	if blockPath == "" {
		return "", fmt.Errorf("empty target path")
	}
	if filepath.IsAbs(blockPath) || strings.HasPrefix(blockPath, "/") {
		return "", fmt.Errorf("absolute target path not allowed")
	}

	clean := filepath.Clean(filepath.FromSlash(blockPath))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("target path escapes the repository root")
	}

	target := filepath.Join(absRoot, clean)
	rel, err := filepath.Rel(absRoot, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("target path escapes the repository root")
	}
	return target, nil
}

// writeBlock writes content to target through a temporary file in the
// same directory followed by a rename, so a failed write never leaves a
// half-written file behind.
func writeBlock(target, content string, policy WritePolicy) error {
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	if policy == PolicyBackup {
		if _, err := os.Stat(target); err == nil {
			if err := os.Rename(target, target+backupSuffix); err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
		}
	}

	// Normalize to a single trailing newline; empty blocks produce
	// empty files.
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	tmp, err := os.CreateTemp(parent, "."+filepath.Base(target)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing target: %w", err)
	}
	return nil
}
