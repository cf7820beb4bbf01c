package plan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/spawnwind/internal/ctxlog"
	"github.com/vk/spawnwind/internal/fsutil"
)

// FileExtension is the extension of plan files discovered in a directory.
const FileExtension = ".hcl"

// hclPlanFile is the top-level structure of a plan file for decoding.
type hclPlanFile struct {
	Inputs   []*hclInput   `hcl:"input,block"`
	Variants []*hclVariant `hcl:"variant,block"`
}

type hclInput struct {
	Name      string    `hcl:"name,label"`
	Kind      *string   `hcl:"kind,optional"`
	Source    string    `hcl:"source"`
	Separator *string   `hcl:"separator,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type hclVariant struct {
	Name        string         `hcl:"name,label"`
	Input       string         `hcl:"input"`
	Output      string         `hcl:"output"`
	WriteLinked *bool          `hcl:"write_linked,optional"`
	Memoize     *bool          `hcl:"memoize,optional"`
	Set         hcl.Expression `hcl:"set,optional"`
	Blades      []*hclBlade    `hcl:"blade,block"`
	Winds       []*hclWind     `hcl:"wind,block"`
	DeclRange   hcl.Range      `hcl:",def_range"`
}

type hclBlade struct {
	Base      string         `hcl:"base,label"`
	Count     int            `hcl:"count"`
	Value     hcl.Expression `hcl:"value"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

type hclWind struct {
	Type      *string   `hcl:"type,optional"`
	File      *string   `hcl:"file,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

// Load reads a plan from a single file or from every .hcl file under a
// directory, then validates it. Relative paths are resolved against the
// directory of the file that declares them.
func Load(ctx context.Context, path string, vars map[string]string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan.", "path", path)

	files, err := planFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s plan files found in %s", FileExtension, path)
	}

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(vars)
	p := &Plan{}
	for _, file := range files {
		if err := p.loadFile(parser, evalCtx, file); err != nil {
			return nil, err
		}
		logger.Debug("Plan file loaded.", "file", file)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Plan loaded.", "inputs", len(p.Inputs), "variants", len(p.Variants))
	return p, nil
}

func planFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := fsutil.FindFilesByExtension(path, FileExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to find plan files in %s: %w", path, err)
	}
	return files, nil
}

// loadFile parses and decodes one plan file into p.
func (p *Plan) loadFile(parser *hclparse.Parser, evalCtx *hcl.EvalContext, filePath string) error {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse plan file %s: %w", filePath, diags)
	}

	var parsed hclPlanFile
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &parsed)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode plan file %s: %w", filePath, diags)
	}

	baseDir, err := filepath.Abs(filepath.Dir(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve directory of %s: %w", filePath, err)
	}

	for _, in := range parsed.Inputs {
		p.Inputs = append(p.Inputs, newInput(in, baseDir))
	}
	for _, v := range parsed.Variants {
		variant, diags := newVariant(v, evalCtx, baseDir)
		if diags.HasErrors() {
			return fmt.Errorf("error decoding variant in file %s: %w", filePath, diags)
		}
		p.Variants = append(p.Variants, variant)
	}
	return nil
}

func newInput(in *hclInput, baseDir string) *Input {
	input := &Input{
		Name:      in.Name,
		Source:    fsutil.ResolvePath(baseDir, in.Source),
		DeclRange: in.DeclRange,
	}
	if in.Kind != nil {
		input.Kind = *in.Kind
	}
	if in.Separator != nil {
		input.Separator = *in.Separator
	}
	return input
}

func newVariant(v *hclVariant, evalCtx *hcl.EvalContext, baseDir string) (*Variant, hcl.Diagnostics) {
	variant := &Variant{
		Name:      v.Name,
		Input:     v.Input,
		Output:    fsutil.ResolvePath(baseDir, v.Output),
		DeclRange: v.DeclRange,
	}
	if v.WriteLinked != nil {
		variant.WriteLinked = *v.WriteLinked
	}
	if v.Memoize != nil {
		variant.Memoize = *v.Memoize
	}

	set, diags := decodeSet(v.Set, evalCtx)
	variant.Set = set

	for _, b := range v.Blades {
		value, valDiags := exprScalar(b.Value, evalCtx, "blade value")
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		variant.Blades = append(variant.Blades, BladeEdit{Base: b.Base, Count: b.Count, Value: value})
	}

	if len(v.Winds) > 1 {
		diags = diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Duplicate \"wind\" block",
			Detail:   "Only one \"wind\" block is allowed per variant.",
			Subject:  &v.Winds[1].DeclRange,
		})
	}
	if len(v.Winds) > 0 {
		w := v.Winds[0]
		variant.Wind = &WindEdit{}
		if w.Type != nil {
			variant.Wind.Type = *w.Type
		}
		if w.File != nil && *w.File != "" {
			variant.Wind.File = fsutil.ResolvePath(baseDir, *w.File)
		}
	}
	return variant, diags
}
