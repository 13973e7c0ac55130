package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileForFileByExtension(t *testing.T) {
	reg := newLanguageRegistry()

	assert.Equal(t, "python", reg.ProfileForFile("pkg/main.py", nil).Tag)
	assert.Equal(t, "go", reg.ProfileForFile("walker.go", nil).Tag)
	assert.Equal(t, "rust", reg.ProfileForFile("src/lib.rs", nil).Tag)
	assert.Equal(t, "markdown", reg.ProfileForFile("README.MD", nil).Tag)
}

func TestProfileForFileByFilename(t *testing.T) {
	reg := newLanguageRegistry()

	assert.Equal(t, "makefile", reg.ProfileForFile("Makefile", nil).Tag)
	assert.Equal(t, "dockerfile", reg.ProfileForFile("build/Dockerfile", nil).Tag)
	// Filename match outranks extension lookup.
	assert.Equal(t, "toml", reg.ProfileForFile("Cargo.lock", nil).Tag)
}

func TestProfileForFileByShebang(t *testing.T) {
	reg := newLanguageRegistry()

	assert.Equal(t, "python", reg.ProfileForFile("bin/tool", []byte("#!/usr/bin/env python3\nprint(1)\n")).Tag)
	assert.Equal(t, "bash", reg.ProfileForFile("install", []byte("#!/bin/sh\necho hi\n")).Tag)
	assert.Equal(t, "text", reg.ProfileForFile("LICENSE", []byte("MIT License\n")).Tag)
}

func TestProfileForFileUnknownExtensionFallsBack(t *testing.T) {
	reg := newLanguageRegistry()

	p := reg.ProfileForFile("data.xyz", nil)
	assert.Equal(t, "text", p.Tag)
	assert.Nil(t, p.Extract)
	assert.Empty(t, p.LineComment)
}

func TestProfileForTag(t *testing.T) {
	reg := newLanguageRegistry()

	p, ok := reg.ProfileForTag("Python")
	require.True(t, ok)
	assert.Equal(t, "python", p.Tag)

	_, ok = reg.ProfileForTag("cobol")
	assert.False(t, ok)
}

func TestShebangInterpreter(t *testing.T) {
	assert.Equal(t, "python3", shebangInterpreter([]byte("#!/usr/bin/env python3\n")))
	assert.Equal(t, "bash", shebangInterpreter([]byte("#!/bin/bash -e\nset -u\n")))
	assert.Equal(t, "", shebangInterpreter([]byte("plain text")))
	assert.Equal(t, "", shebangInterpreter(nil))
}
