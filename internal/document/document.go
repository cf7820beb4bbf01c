// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package document models a whole NREL-style input file as an ordered list
// of parsed lines.
//
// A Document provides key based access to values, including duplicate keys
// (nth occurrence), blade-indexed keys such as `BlPitch(2)`, and dotted keys
// such as `EDFile.NacYaw` that read and write inside a linked input file. The
// linked file is opened lazily on first use and owned by the outer document.
//
// File path values are made absolute once, when the document is built, using
// the path policy of the document's Kind. Writing a document back produces
// the original bytes except for the values that were edited.
//
// A Document is not safe for concurrent use. Independent variants of an
// input are produced with Clone, which copies the linked documents too.
package document

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/spawnwind/internal/fsutil"
	"github.com/vk/spawnwind/internal/inputline"
)

// DefaultSeparator splits a dotted key into its outer and inner parts.
const DefaultSeparator = "."

// Document is an ordered collection of input lines.
type Document struct {
	lines   []*inputline.Line
	rootDir string
	kind    Kind
	sep     string

	// nested holds linked documents opened through dotted keys, by outer key.
	nested map[string]*Document
}

// Option configures a Document at construction.
type Option func(*Document)

// WithSeparator sets the separator used for dotted keys.
func WithSeparator(sep string) Option {
	return func(d *Document) {
		if sep != "" {
			d.sep = sep
		}
	}
}

// New builds a document from already parsed lines. rootDir is the directory
// relative path values are resolved against; path values selected by the
// kind are made absolute here.
func New(lines []*inputline.Line, rootDir string, kind Kind, opts ...Option) (*Document, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory %q: %w", rootDir, err)
	}

	d := &Document{
		lines:   lines,
		rootDir: absRoot,
		kind:    kind,
		sep:     DefaultSeparator,
		nested:  make(map[string]*Document),
	}
	for _, opt := range opts {
		opt(d)
	}

	indices, err := kind.pathIndices(d)
	if err != nil {
		return nil, fmt.Errorf("failed to locate path lines of %s input: %w", kind.Name, err)
	}
	if err := d.absolutisePaths(indices); err != nil {
		return nil, err
	}
	return d, nil
}

// Read parses a document from r.
func Read(r io.Reader, rootDir string, kind Kind, opts ...Option) (*Document, error) {
	var lines []*inputline.Line
	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			lines = append(lines, inputline.Parse(raw))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
	}
	return New(lines, rootDir, kind, opts...)
}

// FromFile loads a document from path. The directory containing the file
// becomes the root directory.
func FromFile(path string, kind Kind, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	d, err := Read(f, filepath.Dir(path), kind, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return d, nil
}

// WriteTo writes every line in order.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, l := range d.lines {
		n, err := bw.WriteString(l.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// ToFile writes the document to path and returns the path. The parent
// directory must exist.
func (d *Document) ToFile(path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// String returns the document text.
func (d *Document) String() string {
	var sb strings.Builder
	for _, l := range d.lines {
		sb.WriteString(l.String())
	}
	return sb.String()
}

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// Line returns the line at index i.
func (d *Document) Line(i int) *inputline.Line { return d.lines[i] }

// RootDir returns the absolute directory path values are resolved against.
func (d *Document) RootDir() string { return d.rootDir }

// Kind returns the kind the document was built with.
func (d *Document) Kind() Kind { return d.kind }

// Separator returns the separator that splits dotted keys.
func (d *Document) Separator() string { return d.sep }

// Lines returns the lines of the document. The slice is shared with the
// document; edits through it are visible to the document.
func (d *Document) Lines() []*inputline.Line {
	return d.lines
}

// IndexOf returns the index of the first line carrying key.
func (d *Document) IndexOf(key string) (int, error) {
	for i, l := range d.lines {
		if l.IsPresent() && l.Key() == key {
			return i, nil
		}
	}
	return -1, &NotFoundError{Key: key}
}

// IndicesWhere returns the indices of all lines whose key satisfies pred.
func (d *Document) IndicesWhere(pred func(key string) bool) []int {
	var indices []int
	for i, l := range d.lines {
		if pred(l.Key()) {
			indices = append(indices, i)
		}
	}
	return indices
}

// absolutisePaths rewrites the relative path values at indices into absolute
// paths under the root directory. Empty values stay empty.
func (d *Document) absolutisePaths(indices []int) error {
	for _, i := range indices {
		l := d.lines[i]
		rel := l.Value()
		if rel == "" {
			continue
		}
		if err := l.SetValue(d.resolve(rel)); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

// resolve turns a path value into an absolute path under the root directory.
func (d *Document) resolve(p string) string {
	return fsutil.ResolvePath(d.rootDir, strings.Trim(p, `"`))
}

// Clone returns a deep copy of the document, including every linked document
// opened so far. The copy shares nothing with the original.
func (d *Document) Clone() *Document {
	c := &Document{
		lines:   make([]*inputline.Line, len(d.lines)),
		rootDir: d.rootDir,
		kind:    d.kind,
		sep:     d.sep,
		nested:  make(map[string]*Document, len(d.nested)),
	}
	for i, l := range d.lines {
		c.lines[i] = l.Clone()
	}
	for k, n := range d.nested {
		c.nested[k] = n.Clone()
	}
	return c
}
