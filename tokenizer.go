package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer counts tokens the way a target model would, so a generated
// document can be checked against a context window before pasting.
type Tokenizer interface {
	CountTokens(text string) int
	Close()
}

const defaultTiktokenModel = "gpt-4o"
const defaultHFModel = "gpt2"

// newTokenizer builds a tokenizer of the requested kind ("tiktoken" or
// "huggingface"). model may be empty, falling back to a per-kind default;
// tokenizerFile loads a local HuggingFace tokenizer.json instead of
// fetching one.
func newTokenizer(kind, model, tokenizerFile string) (Tokenizer, error) {
	switch strings.ToLower(kind) {
	case "tiktoken":
		return loadTiktoken(model)
	case "huggingface":
		return loadHuggingFace(model, tokenizerFile)
	default:
		return nil, fmt.Errorf("unsupported tokenizer type %q (use tiktoken or huggingface)", kind)
	}
}

type tiktokenWrapper struct {
	ttk *tiktoken.Tiktoken
}

func (w *tiktokenWrapper) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	return len(w.ttk.EncodeOrdinary(text))
}

func (w *tiktokenWrapper) Close() {}

func loadTiktoken(model string) (Tokenizer, error) {
	if model == "" {
		model = defaultTiktokenModel
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tiktoken model %q not found, falling back to %q: %v\n", model, defaultTiktokenModel, err)
		tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding for %q: %w", defaultTiktokenModel, err)
		}
	}
	return &tiktokenWrapper{ttk: tke}, nil
}

type hfTokenizerWrapper struct {
	htk *hf.Tokenizer
}

func (w *hfTokenizerWrapper) CountTokens(text string) int {
	if w.htk == nil {
		return 0
	}
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tokenizer failed to encode text: %v\n", err)
		return 0
	}
	return len(en.Tokens)
}

func (w *hfTokenizerWrapper) Close() {}

func loadHuggingFace(model, tokenizerFile string) (Tokenizer, error) {
	if tokenizerFile == "" {
		if model == "" {
			model = defaultHFModel
		}
		cached, err := hf.CachedPath(model, "tokenizer.json")
		if err != nil {
			return nil, fmt.Errorf("failed to locate tokenizer for model %q: %w", model, err)
		}
		tokenizerFile = cached
	}
	htk, err := pretrained.FromFile(tokenizerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer from %s: %w", tokenizerFile, err)
	}
	return &hfTokenizerWrapper{htk: htk}, nil
}

// countFileTokens counts tokens per file across a worker pool. The walk
// result is read-only, so files fan out to workers freely; results are
// re-keyed by path afterwards so callers see deterministic order.
func countFileTokens(tk Tokenizer, files []FileNode, workers int) map[string]int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan FileNode, len(files))
	type result struct {
		path   string
		tokens int
	}
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				results <- result{path: file.Path, tokens: tk.CountTokens(string(file.Content))}
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)
	wg.Wait()
	close(results)

	counts := make(map[string]int, len(files))
	for res := range results {
		counts[res.path] = res.tokens
	}
	return counts
}

// formatTokenReport renders a per-file token table plus the total, in
// path order.
func formatTokenReport(counts map[string]int) string {
	paths := make([]string, 0, len(counts))
	for p := range counts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var sb strings.Builder
	total := 0
	for _, p := range paths {
		fmt.Fprintf(&sb, "%8d  %s\n", counts[p], p)
		total += counts[p]
	}
	fmt.Fprintf(&sb, "%8d  total\n", total)
	return sb.String()
}
