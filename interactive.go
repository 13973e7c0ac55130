package main

import (
	"fmt"
	"sort"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// pickFiles lets the user narrow a walk result to a subset of files with
// a fuzzy finder before the document is rendered. Returns nil (and no
// error) when the selection is aborted.
func pickFiles(files []FileNode) ([]FileNode, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to select from")
	}

	idx, err := fuzzyfinder.FindMulti(
		files,
		func(i int) string {
			return files[i].Path
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Tab to multi-select, Enter to confirm, Esc to abort."
			}
			file := files[i]
			preview := string(file.Content)
			if lines := strings.Split(preview, "\n"); len(lines) > h {
				preview = strings.Join(lines[:h], "\n")
			}
			return fmt.Sprintf("%s (%s, %d bytes)\n\n%s", file.Path, file.Language, file.Size, preview)
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			fmt.Println("Interactive selection aborted.")
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selected := make([]FileNode, len(idx))
	for i, index := range idx {
		selected[i] = files[index]
	}
	// Selection order is user-driven; restore canonical document order.
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Path < selected[j].Path
	})
	return selected, nil
}
