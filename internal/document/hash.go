package document

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Hash returns a digest of the document's keys and values. Comments and
// whitespace do not contribute, so two inputs that configure the same values
// hash the same even when their layout differs.
func (d *Document) Hash() string {
	var keys, values []string
	for _, l := range d.lines {
		if k := l.Key(); k != "" {
			keys = append(keys, k)
		}
		if v := l.Value(); v != "" {
			values = append(values, v)
		}
	}
	sum := blake2b.Sum256([]byte(strings.Join(append(keys, values...), "\n")))
	return hex.EncodeToString(sum[:])
}
