package document

import (
	"slices"
	"strings"

	"github.com/vk/spawnwind/internal/inputline"
)

// Get returns the value of the first line carrying key, without quotes.
//
// A key containing the separator, such as `EDFile.NacYaw`, reads NacYaw from
// the document whose path is the value of EDFile.
func (d *Document) Get(key string) (string, error) {
	return d.GetNth(key, 1)
}

// GetNth returns the value of the nth (1-indexed) line carrying key.
func (d *Document) GetNth(key string, n int) (string, error) {
	if outer, rest, ok := d.splitKey(key); ok {
		nested, err := d.Nested(outer)
		if err != nil {
			return "", err
		}
		return nested.GetNth(rest, n)
	}

	l, err := d.line(key, n)
	if err != nil {
		return "", err
	}
	return strings.Trim(l.Value(), `"`), nil
}

// Set replaces the value of the first line carrying key. value must be a
// scalar: a string, a number, a bool or a fmt.Stringer. Surrounding quotes
// are trimmed from the formatted value; when the line's value is quoted the
// new value lands between the existing quotes.
//
// Nothing is modified when the key cannot be found. Setting an outer key
// drops the linked document opened through it.
func (d *Document) Set(key string, value any) error {
	s, err := formatScalar(value)
	if err != nil {
		return err
	}

	if outer, rest, ok := d.splitKey(key); ok {
		nested, err := d.Nested(outer)
		if err != nil {
			return err
		}
		return nested.Set(rest, s)
	}

	l, err := d.line(key, 1)
	if err != nil {
		return err
	}
	if err := l.SetValue(strings.Trim(s, `"`)); err != nil {
		return err
	}
	// The linked document opened from the old path is stale now.
	delete(d.nested, key)
	return nil
}

// Nested returns the linked document whose path is the value of outerKey,
// opening it on first use. The kind of the linked document comes from the
// links of this document's kind.
func (d *Document) Nested(outerKey string) (*Document, error) {
	if n, ok := d.nested[outerKey]; ok {
		return n, nil
	}

	l, err := d.line(outerKey, 1)
	if err != nil {
		return nil, &ReferenceError{Key: outerKey, Err: err}
	}
	p := l.Value()
	if strings.TrimSpace(strings.Trim(p, `"`)) == "" {
		return nil, &ReferenceError{Key: outerKey, Err: ErrNotFound}
	}
	p = d.resolve(p)

	n, err := FromFile(p, d.kind.linkedKind(outerKey), WithSeparator(d.sep))
	if err != nil {
		return nil, &ReferenceError{Key: outerKey, Path: p, Err: err}
	}
	d.nested[outerKey] = n
	return n, nil
}

// Linked returns the outer keys whose linked documents have been opened, in
// document order.
func (d *Document) Linked() []string {
	var keys []string
	for _, l := range d.lines {
		if !l.IsPresent() {
			continue
		}
		if _, ok := d.nested[l.Key()]; ok && !slices.Contains(keys, l.Key()) {
			keys = append(keys, l.Key())
		}
	}
	return keys
}

// splitKey splits key on the first separator.
func (d *Document) splitKey(key string) (outer, rest string, ok bool) {
	return strings.Cut(key, d.sep)
}

// line finds the nth line whose key is key.
func (d *Document) line(key string, n int) (*inputline.Line, error) {
	if key == "" || n < 1 {
		return nil, &NotFoundError{Key: key, Occurrence: n}
	}
	seen := 0
	for _, l := range d.lines {
		if l.Key() != key {
			continue
		}
		seen++
		if seen == n {
			return l, nil
		}
	}
	return nil, &NotFoundError{Key: key, Occurrence: n}
}
