package main

import (
	"bytes"
	"path/filepath"
	"strings"
)

// LanguageProfile describes how a language is detected and how its
// comments and docstrings are delimited. Profiles are static; the
// registry is built once and never mutated.
type LanguageProfile struct {
	Name         string
	Tag          string // fence language tag, e.g. "python"
	Extensions   []string
	Filenames    []string
	Interpreters []string // shebang interpreter names, e.g. "python3"

	LineComment string // "" if the language has none
	BlockOpen   string
	BlockClose  string

	// Extract projects content to its doc/comment spans for docs-only
	// mode. nil means extraction is a no-op and content passes through.
	Extract func(content []byte) []string
}

// LanguageRegistry resolves files to profiles via filename, extension and
// shebang lookup tables, mirroring the precedence used by linguist-style
// classifiers.
type LanguageRegistry struct {
	profiles       []*LanguageProfile
	extensionMap   map[string]*LanguageProfile
	filenameMap    map[string]*LanguageProfile
	interpreterMap map[string]*LanguageProfile
	fallback       *LanguageProfile
}

func newLanguageRegistry() *LanguageRegistry {
	textProfile := &LanguageProfile{Name: "Text", Tag: "text"}

	profiles := []*LanguageProfile{
		{
			Name:         "Python",
			Tag:          "python",
			Extensions:   []string{".py", ".pyw"},
			Interpreters: []string{"python", "python2", "python3"},
			LineComment:  "#",
			Extract:      extractPythonDocs,
		},
		{
			Name:        "Go",
			Tag:         "go",
			Extensions:  []string{".go"},
			LineComment: "//",
			BlockOpen:   "/*",
			BlockClose:  "*/",
		},
		{
			Name:        "Rust",
			Tag:         "rust",
			Extensions:  []string{".rs"},
			LineComment: "//",
			BlockOpen:   "/*",
			BlockClose:  "*/",
		},
		{
			Name:         "JavaScript",
			Tag:          "javascript",
			Extensions:   []string{".js", ".mjs", ".cjs", ".jsx"},
			Interpreters: []string{"node"},
			LineComment:  "//",
			BlockOpen:    "/*",
			BlockClose:   "*/",
		},
		{
			Name:        "TypeScript",
			Tag:         "typescript",
			Extensions:  []string{".ts", ".tsx"},
			LineComment: "//",
			BlockOpen:   "/*",
			BlockClose:  "*/",
		},
		{
			Name:        "C",
			Tag:         "c",
			Extensions:  []string{".c", ".h"},
			LineComment: "//",
			BlockOpen:   "/*",
			BlockClose:  "*/",
		},
		{
			Name:        "C++",
			Tag:         "cpp",
			Extensions:  []string{".cc", ".cpp", ".cxx", ".hpp", ".hh"},
			LineComment: "//",
			BlockOpen:   "/*",
			BlockClose:  "*/",
		},
		{
			Name:        "Java",
			Tag:         "java",
			Extensions:  []string{".java"},
			LineComment: "//",
			BlockOpen:   "/*",
			BlockClose:  "*/",
		},
		{
			Name:         "Ruby",
			Tag:          "ruby",
			Extensions:   []string{".rb"},
			Filenames:    []string{"Rakefile", "Gemfile"},
			Interpreters: []string{"ruby"},
			LineComment:  "#",
		},
		{
			Name:         "Shell",
			Tag:          "bash",
			Extensions:   []string{".sh", ".bash", ".zsh"},
			Interpreters: []string{"sh", "bash", "zsh", "dash"},
			LineComment:  "#",
		},
		{
			Name:       "Markdown",
			Tag:        "markdown",
			Extensions: []string{".md", ".markdown"},
		},
		{
			Name:        "YAML",
			Tag:         "yaml",
			Extensions:  []string{".yml", ".yaml"},
			LineComment: "#",
		},
		{
			Name:        "TOML",
			Tag:         "toml",
			Extensions:  []string{".toml"},
			Filenames:   []string{"Cargo.lock"},
			LineComment: "#",
		},
		{
			Name:       "JSON",
			Tag:        "json",
			Extensions: []string{".json"},
		},
		{
			Name:       "Jupyter Notebook",
			Tag:        "python",
			Extensions: []string{".ipynb"},
		},
		{
			Name:       "HTML",
			Tag:        "html",
			Extensions: []string{".html", ".htm"},
			BlockOpen:  "<!--",
			BlockClose: "-->",
		},
		{
			Name:       "CSS",
			Tag:        "css",
			Extensions: []string{".css"},
			BlockOpen:  "/*",
			BlockClose: "*/",
		},
		{
			Name:        "SQL",
			Tag:         "sql",
			Extensions:  []string{".sql"},
			LineComment: "--",
			BlockOpen:   "/*",
			BlockClose:  "*/",
		},
		{
			Name:        "Makefile",
			Tag:         "makefile",
			Filenames:   []string{"Makefile", "makefile", "GNUmakefile"},
			LineComment: "#",
		},
		{
			Name:        "Dockerfile",
			Tag:         "dockerfile",
			Filenames:   []string{"Dockerfile"},
			LineComment: "#",
		},
		textProfile,
	}

	reg := &LanguageRegistry{
		profiles:       profiles,
		extensionMap:   make(map[string]*LanguageProfile),
		filenameMap:    make(map[string]*LanguageProfile),
		interpreterMap: make(map[string]*LanguageProfile),
		fallback:       textProfile,
	}

	for _, p := range profiles {
		for _, ext := range p.Extensions {
			lowerExt := strings.ToLower(ext)
			if _, taken := reg.extensionMap[lowerExt]; !taken {
				reg.extensionMap[lowerExt] = p
			}
		}
		for _, fname := range p.Filenames {
			if _, taken := reg.filenameMap[fname]; !taken {
				reg.filenameMap[fname] = p
			}
		}
		for _, interp := range p.Interpreters {
			if _, taken := reg.interpreterMap[interp]; !taken {
				reg.interpreterMap[interp] = p
			}
		}
	}

	return reg
}

// ProfileForFile resolves a profile for the given path and (optionally)
// its content. Exact filename match wins over extension; extensionless
// files fall back to shebang detection; everything else gets the generic
// text profile.
func (reg *LanguageRegistry) ProfileForFile(path string, content []byte) *LanguageProfile {
	baseName := filepath.Base(path)

	if p, ok := reg.filenameMap[baseName]; ok {
		return p
	}

	ext := strings.ToLower(filepath.Ext(baseName))
	if ext != "" {
		if p, ok := reg.extensionMap[ext]; ok {
			return p
		}
		return reg.fallback
	}

	if interp := shebangInterpreter(content); interp != "" {
		if p, ok := reg.interpreterMap[interp]; ok {
			return p
		}
	}

	return reg.fallback
}

// ProfileForTag returns the profile registered for a language name or
// fence tag, matched case-insensitively.
func (reg *LanguageRegistry) ProfileForTag(tag string) (*LanguageProfile, bool) {
	lower := strings.ToLower(tag)
	for _, p := range reg.profiles {
		if strings.ToLower(p.Name) == lower || p.Tag == lower {
			return p, true
		}
	}
	return nil, false
}

// shebangInterpreter extracts the interpreter name from a leading
// "#!" line, handling the common "/usr/bin/env python3" indirection.
func shebangInterpreter(content []byte) string {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return ""
	}
	line := content[2:]
	if idx := bytes.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(strings.TrimSpace(string(line)))
	if len(fields) == 0 {
		return ""
	}
	interp := filepath.Base(fields[0])
	if interp == "env" && len(fields) > 1 {
		interp = filepath.Base(fields[1])
	}
	return interp
}
