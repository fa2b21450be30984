// Package source reads analyzed files into immutable line arrays and provides
// the lexical helpers the line-oriented checks share.
package source

import (
	"bytes"
	"os"
	"strings"
)

// File is a source file split into lines. It is never mutated after Read.
type File struct {
	Path  string
	Lines []string
}

// Read loads path and splits it on newlines, dropping carriage returns.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(path, data), nil
}

// FromBytes builds a File from in-memory content.
func FromBytes(path string, data []byte) *File {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	text := strings.TrimSuffix(string(data), "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	return &File{Path: path, Lines: lines}
}

// Line returns the zero-based line idx, or "" when out of range.
func (f *File) Line(idx int) string {
	if idx < 0 || idx >= len(f.Lines) {
		return ""
	}
	return f.Lines[idx]
}
