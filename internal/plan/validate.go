package plan

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/spawnwind/internal/document"
)

// windKinds are the input kinds a wind block can be applied to.
var windKinds = []string{
	document.Fast7.Name,
	document.Fast8.Name,
	document.AeroDyn14.Name,
	document.InflowWind.Name,
}

// Validate checks the plan as a whole: names are unique, variants reference
// declared inputs, kinds and wind types are known and outputs do not clash.
// Edits that reach into linked documents require write_linked.
// All problems are reported together as hcl.Diagnostics.
func (p *Plan) Validate() error {
	var diags hcl.Diagnostics

	inputs := make(map[string]*Input, len(p.Inputs))
	for _, in := range p.Inputs {
		if prev, ok := inputs[in.Name]; ok {
			diags = append(diags, duplicateDiag("input", in.Name, prev.DeclRange, in.DeclRange))
			continue
		}
		inputs[in.Name] = in

		if _, err := document.KindByName(in.Kind); err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown input kind",
				Detail: fmt.Sprintf("Input %q has kind %q. Supported kinds are: %s.",
					in.Name, in.Kind, strings.Join(document.KindNames(), ", ")),
				Subject: rangePtr(in.DeclRange),
			})
		}
		if in.Source == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing input source",
				Detail:   fmt.Sprintf("Input %q must name a source file.", in.Name),
				Subject:  rangePtr(in.DeclRange),
			})
		}
	}

	variants := make(map[string]*Variant, len(p.Variants))
	outputs := make(map[string]*Variant, len(p.Variants))
	linkedStems := make(map[string]*Variant)
	for _, v := range p.Variants {
		if prev, ok := variants[v.Name]; ok {
			diags = append(diags, duplicateDiag("variant", v.Name, prev.DeclRange, v.DeclRange))
			continue
		}
		variants[v.Name] = v

		in, ok := inputs[v.Input]
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Reference to undeclared input",
				Detail:   fmt.Sprintf("Variant %q uses input %q, which is not declared.", v.Name, v.Input),
				Subject:  rangePtr(v.DeclRange),
			})
		}

		if v.Output == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing variant output",
				Detail:   fmt.Sprintf("Variant %q must name an output file.", v.Name),
				Subject:  rangePtr(v.DeclRange),
			})
		} else if !v.Memoize {
			// Memoized variants land in per-hash directories, so only plain
			// outputs can collide.
			if prev, ok := outputs[v.Output]; ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Conflicting variant outputs",
					Detail:   fmt.Sprintf("Variants %q and %q both write %s.", prev.Name, v.Name, v.Output),
					Subject:  rangePtr(v.DeclRange),
				})
			} else {
				outputs[v.Output] = v
			}
		}

		for _, b := range v.Blades {
			if b.Count < 1 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid blade count",
					Detail:   fmt.Sprintf("Blade edit %q of variant %q must cover at least one blade, got %d.", b.Base, v.Name, b.Count),
					Subject:  rangePtr(v.DeclRange),
				})
			}
		}

		if v.Wind != nil && in != nil {
			diags = append(diags, validateWind(v, in)...)
		}

		if in != nil && !v.WriteLinked {
			if keys := linkedEdits(v, in); len(keys) > 0 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Linked edits need write_linked",
					Detail: fmt.Sprintf("Variant %q edits linked documents through %s but does not set write_linked = true, so those edits would be lost.",
						v.Name, strings.Join(keys, ", ")),
					Subject: rangePtr(v.DeclRange),
				})
			}
		} else if v.WriteLinked && !v.Memoize && v.Output != "" {
			stem := linkedStem(v.Output)
			if prev, ok := linkedStems[stem]; ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Conflicting linked outputs",
					Detail:   fmt.Sprintf("Variants %q and %q would write linked documents under the same name %s_*.", prev.Name, v.Name, stem),
					Subject:  rangePtr(v.DeclRange),
				})
			} else {
				linkedStems[stem] = v
			}
		}
	}

	if diags.HasErrors() {
		return diags
	}
	return nil
}

func validateWind(v *Variant, in *Input) hcl.Diagnostics {
	var diags hcl.Diagnostics
	kind, err := document.KindByName(in.Kind)
	if err != nil {
		return nil
	}

	if !slices.Contains(windKinds, kind.Name) {
		return diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Wind is not supported for this input",
			Detail: fmt.Sprintf("Variant %q sets wind on a %s input; wind can be set on %s inputs.",
				v.Name, kind.Name, strings.Join(windKinds, ", ")),
			Subject: rangePtr(v.DeclRange),
		})
	}

	if v.Wind.Type == "" && v.Wind.File == "" {
		diags = diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Empty wind block",
			Detail:   fmt.Sprintf("The wind block of variant %q must set a type, a file or both.", v.Name),
			Subject:  rangePtr(v.DeclRange),
		})
	}

	if v.Wind.Type == "" {
		return diags
	}
	// AeroDyn v14 inputs only reference a wind file.
	if kind.Name == document.Fast7.Name || kind.Name == document.AeroDyn14.Name {
		return diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Wind type is not supported for this input",
			Detail:   fmt.Sprintf("Variant %q sets a wind type on a %s input, which only accepts a wind file.", v.Name, kind.Name),
			Subject:  rangePtr(v.DeclRange),
		})
	}
	if !slices.Contains(document.WindTypeNames(), v.Wind.Type) {
		diags = diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown wind type",
			Detail: fmt.Sprintf("Variant %q has wind type %q. Supported types are: %s.",
				v.Name, v.Wind.Type, strings.Join(document.WindTypeNames(), ", ")),
			Subject: rangePtr(v.DeclRange),
		})
	}
	return diags
}

// linkedEdits returns the edits of v that land in a linked document of in:
// dotted set and blade keys, and wind edits routed from a primary input.
func linkedEdits(v *Variant, in *Input) []string {
	sep := in.Separator
	if sep == "" {
		sep = document.DefaultSeparator
	}

	var keys []string
	for _, e := range v.Set {
		if strings.Contains(e.Key, sep) {
			keys = append(keys, e.Key)
		}
	}
	for _, b := range v.Blades {
		if strings.Contains(b.Base, sep) {
			keys = append(keys, b.Base)
		}
	}
	if v.Wind != nil && (in.Kind == document.Fast7.Name || in.Kind == document.Fast8.Name) {
		keys = append(keys, "wind")
	}
	return keys
}

// linkedStem is the output path without its extension; linked documents are
// written next to it as <stem>_<key><ext>.
func linkedStem(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output))
}

func duplicateDiag(blockType, name string, first, second hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %q block", blockType),
		Detail:   fmt.Sprintf("A %s named %q was already declared at %s.", blockType, name, first),
		Subject:  rangePtr(second),
	}
}

// rangePtr returns nil for the zero range of plans built in code.
func rangePtr(r hcl.Range) *hcl.Range {
	if r.Filename == "" {
		return nil
	}
	return &r
}
