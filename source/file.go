package source

import "strings"

// FileID identifies a source file within a single analysis run. Spans carry
// a FileID so two spans are comparable only when they share one.
type FileID uint32

// Kind distinguishes the origin of a File's bytes.
type Kind int

const (
	// KindPath is an on-disk source file supplied by the host.
	KindPath Kind = iota
	// KindStub is a bundled stub file (spec §1, §6): plain PHP text
	// describing built-ins or third-party symbols with docblocks, bodies
	// omitted, consumed through the same pipeline as ordinary source.
	KindStub
	// KindBuffer is an in-memory buffer, e.g. supplied by an IDE consumer
	// for a file that hasn't been saved to disk.
	KindBuffer
)

// File owns the UTF-8 bytes of one input and a precomputed line-offset
// table for fast offset -> line/column conversion.
type File struct {
	ID   FileID
	Path string
	Kind Kind
	Text string

	// lineStarts[i] is the byte offset of the first byte of line i+1
	// (lines are 1-based; lineStarts[0] == 0).
	lineStarts []int
}

// NewFile builds a File and its line-offset index.
func NewFile(id FileID, path string, kind Kind, text string) *File {
	f := &File{ID: id, Path: path, Kind: kind, Text: text}
	f.lineStarts = append(f.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// LineCol converts a byte offset into a 1-based (line, column) pair. Column
// is a byte count within the line, matching the lexer's own column
// bookkeeping.
func (f *File) LineCol(offset int) (line, col int) {
	// Binary search over lineStarts for the last start <= offset.
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - f.lineStarts[lo] + 1
}

// Slice returns the raw bytes between [start, end), clamped to the file's
// bounds. Used to render "good/bad example" style context around a span.
func (f *File) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(f.Text) {
		end = len(f.Text)
	}
	if start >= end {
		return ""
	}
	return f.Text[start:end]
}

// LineText returns the full text of the 1-based line containing offset,
// with any trailing newline trimmed. Used by baseline hashing (spec §6).
func (f *File) LineText(offset int) string {
	line, _ := f.LineCol(offset)
	start := f.lineStarts[line-1]
	end := len(f.Text)
	if line < len(f.lineStarts) {
		end = f.lineStarts[line]
	}
	return strings.TrimRight(f.Text[start:end], "\r\n")
}

// Set is a small read-mostly registry of Files keyed by FileID, owned by an
// analysis run. It is built once during the scan phase and never mutated
// afterward (mirrors the reflection store's freeze discipline, spec §4.5).
type Set struct {
	files []*File
}

// NewSet creates an empty file set.
func NewSet() *Set { return &Set{} }

// Add registers f under its own ID, which must equal the set's current
// length (files are always added in ID order by the host's file list).
func (s *Set) Add(f *File) { s.files = append(s.files, f) }

// Get returns the file with the given ID.
func (s *Set) Get(id FileID) *File { return s.files[id] }

// Len reports how many files are registered.
func (s *Set) Len() int { return len(s.files) }

// All returns every registered file in ID order.
func (s *Set) All() []*File { return s.files }
