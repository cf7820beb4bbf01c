package plan

import (
	"github.com/hashicorp/hcl/v2"
)

// Plan is the set of inputs and variants loaded from one or more files.
type Plan struct {
	Inputs   []*Input
	Variants []*Variant
}

// Input is a simulation input file variants start from.
type Input struct {
	Name string
	// Kind names a document kind; empty means generic.
	Kind   string
	Source string
	// Separator splits dotted keys; empty means the document default.
	Separator string

	DeclRange hcl.Range
}

// Edit assigns Value to the parameter Key. Value is a string, int64, float64
// or bool.
type Edit struct {
	Key   string
	Value any
}

// BladeEdit assigns Value to Base(1) through Base(Count).
type BladeEdit struct {
	Base  string
	Count int
	Value any
}

// WindEdit selects the wind type and wind file of a variant.
type WindEdit struct {
	Type string
	File string
}

// Variant describes one output file derived from an input.
type Variant struct {
	Name   string
	Input  string
	Output string

	// WriteLinked writes the edited linked documents next to Output and
	// points the output at them.
	WriteLinked bool
	// Memoize writes to <dir>/<hash>/<file> and skips hashes already written.
	Memoize bool

	Set    []Edit
	Blades []BladeEdit
	Wind   *WindEdit

	DeclRange hcl.Range
}

// Input returns the input declared with name.
func (p *Plan) Input(name string) (*Input, bool) {
	for _, in := range p.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return nil, false
}

// Variant returns the variant declared with name.
func (p *Plan) Variant(name string) (*Variant, bool) {
	for _, v := range p.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}
