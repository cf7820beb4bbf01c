// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package inputline parses and edits single lines of NREL-style input files.
//
// Every meaningful line of such a file carries a value followed by a key,
// optionally followed by free-form comment text:
//
//	4                 NumBl       - Number of blades (-)
//	"AeroData/Cyl1.dat"  FoilNm   - Names of the airfoil files
//
// A Line remembers where its value and key live inside the raw text so the
// value can be replaced without touching any other byte of the line.
package inputline

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// ErrNoValue is returned when replacing the value of a line that has none,
// such as a comment or a section divider.
var ErrNoValue = errors.New("line has no value")

// keyRegex matches a key. Parentheses are allowed so blade-indexed keys such
// as `BlPitch(1)` are read as a single key.
var keyRegex = regexp.MustCompile(`[a-zA-Z0-9_()]+`)

// span is a half-open interval [start, end) into the raw line text.
type span struct {
	start, end int
	ok         bool
}

func (s span) text(raw string) string {
	if !s.ok {
		return ""
	}
	return raw[s.start:s.end]
}

// Line is a single parsed line.
type Line struct {
	raw   string
	value span
	key   span
}

// Parse builds a Line from raw text. It never fails: blank lines, comment
// lines (`- ...`, `--...`) and section dividers (`=...`) produce a Line without
// a value or key.
func Parse(raw string) *Line {
	l := &Line{raw: raw}

	offset := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	trimmed := raw[offset:]
	if isBlankOrComment(trimmed) {
		return l
	}

	l.value = findValue(trimmed)
	l.value.start += offset
	l.value.end += offset

	// The closing quote of a quoted value is skipped along with everything
	// else between the value and the key.
	if k, ok := findKey(raw, l.value.end); ok {
		l.key = k
	}
	return l
}

func isBlankOrComment(trimmed string) bool {
	return trimmed == "" ||
		strings.HasPrefix(trimmed, "- ") ||
		strings.HasPrefix(trimmed, "--") ||
		trimmed[0] == '='
}

// findValue locates the value within a left-trimmed, non-empty line.
func findValue(trimmed string) span {
	if trimmed[0] == '"' {
		if closing := strings.IndexByte(trimmed[1:], '"'); closing >= 0 {
			return span{start: 1, end: closing + 1, ok: true}
		}
	}
	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end < 0 {
		end = len(trimmed)
	}
	return span{start: 0, end: end, ok: true}
}

func findKey(raw string, from int) (span, bool) {
	loc := keyRegex.FindStringIndex(raw[from:])
	if loc == nil {
		return span{}, false
	}
	return span{start: from + loc[0], end: from + loc[1], ok: true}, true
}

// Value returns the line's value. Quoted values are returned without their
// quotes. An empty string is returned when the line has no value.
func (l *Line) Value() string {
	return l.value.text(l.raw)
}

// Key returns the line's key, or an empty string if there is none.
func (l *Line) Key() string {
	return l.key.text(l.raw)
}

// HasValue reports whether the line has a value span.
func (l *Line) HasValue() bool {
	return l.value.ok
}

// IsPresent reports whether the line carries data, meaning both a key and a
// value were found.
func (l *Line) IsPresent() bool {
	return l.key.ok && l.value.ok
}

// SetValue replaces the value verbatim. Quotes are not added: when the old
// value was quoted the new one lands between the existing quotes. The key
// span moves by the length difference between the new and old values.
func (l *Line) SetValue(v string) error {
	if !l.value.ok {
		return ErrNoValue
	}
	delta := len(v) - (l.value.end - l.value.start)
	l.raw = l.raw[:l.value.start] + v + l.raw[l.value.end:]
	l.value.end += delta
	if l.key.ok {
		l.key.start += delta
		l.key.end += delta
	}
	return nil
}

// String returns the text of the line as it should be written to a file. An
// empty line is written as a single newline.
func (l *Line) String() string {
	if l.raw == "" {
		return "\n"
	}
	return l.raw
}

// Clone returns an independent copy of the line.
func (l *Line) Clone() *Line {
	c := *l
	return &c
}
