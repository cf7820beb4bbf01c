package plan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePlan writes content to a plan file in a fresh directory.
func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const fullPlan = `
input "fast" {
  kind      = "fast8"
  source    = "models/NREL5MW.fst"
  separator = "/"
}

variant "yaw_10" {
  input        = "fast"
  output       = "runs/yaw_10/NREL5MW.fst"
  write_linked = true

  set = {
    TMax            = 60
    "EDFile/NacYaw" = 10.5
    Echo            = false
    AbortLevel      = upper("severe")
    OutFile         = format("%s_%d.out", var.prefix, 10)
  }

  blade "BlPitch" {
    count = 3
    value = 2.5
  }

  wind {
    type = "turbsim"
    file = "wind/turb.bts"
  }
}
`

func TestLoad_FullPlan(t *testing.T) {
	// Arrange
	path := writePlan(t, fullPlan)
	dir := filepath.Dir(path)

	// Act
	p, err := Load(context.Background(), path, map[string]string{"prefix": "yaw"})

	// Assert
	require.NoError(t, err)
	require.Len(t, p.Inputs, 1)
	require.Len(t, p.Variants, 1)

	in := p.Inputs[0]
	assert.Equal(t, "fast", in.Name)
	assert.Equal(t, "fast8", in.Kind)
	assert.Equal(t, filepath.Join(dir, "models", "NREL5MW.fst"), in.Source)
	assert.Equal(t, "/", in.Separator)

	v := p.Variants[0]
	assert.Equal(t, "yaw_10", v.Name)
	assert.Equal(t, "fast", v.Input)
	assert.Equal(t, filepath.Join(dir, "runs", "yaw_10", "NREL5MW.fst"), v.Output)
	assert.True(t, v.WriteLinked)
	assert.False(t, v.Memoize)

	assert.Equal(t, []Edit{
		{Key: "TMax", Value: int64(60)},
		{Key: "EDFile/NacYaw", Value: 10.5},
		{Key: "Echo", Value: false},
		{Key: "AbortLevel", Value: "SEVERE"},
		{Key: "OutFile", Value: "yaw_10.out"},
	}, v.Set)

	assert.Equal(t, []BladeEdit{{Base: "BlPitch", Count: 3, Value: 2.5}}, v.Blades)
	require.NotNil(t, v.Wind)
	assert.Equal(t, "turbsim", v.Wind.Type)
	assert.Equal(t, filepath.Join(dir, "wind", "turb.bts"), v.Wind.File)

	byName, ok := p.Variant("yaw_10")
	assert.True(t, ok)
	assert.Same(t, v, byName)
	_, ok = p.Input("missing")
	assert.False(t, ok)
}

func TestLoad_Directory(t *testing.T) {
	p, err := Load(context.Background(), filepath.Join("testdata", "multi"), nil)
	require.NoError(t, err)

	dir, err := filepath.Abs(filepath.Join("testdata", "multi"))
	require.NoError(t, err)

	require.Len(t, p.Inputs, 2)
	assert.Equal(t, filepath.Join(dir, "..", "models", "NREL5MW.fst"), p.Inputs[0].Source)
	assert.Equal(t, filepath.FromSlash("/data/wind/TurbSim.inp"), p.Inputs[1].Source)

	require.Len(t, p.Variants, 2)
	assert.Equal(t, "short", p.Variants[0].Name)
	assert.Equal(t, "gusty", p.Variants[1].Name)
	assert.True(t, p.Variants[1].Memoize)
	assert.Equal(t, []Edit{
		{Key: "URef", Value: 18.5},
		{Key: "IECturbc", Value: "A"},
	}, p.Variants[1].Set)
	assert.Nil(t, p.Variants[1].Wind)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		vars        map[string]string
		errContains string
	}{
		{
			name:        "syntax error",
			content:     `input "fast" {`,
			errContains: "failed to parse plan file",
		},
		{
			name:        "missing source",
			content:     `input "fast" { kind = "fast8" }`,
			errContains: "Missing required argument",
		},
		{
			name:        "unknown block",
			content:     `sweep "x" {}`,
			errContains: "Unsupported block type",
		},
		{
			name: "undefined variable",
			content: `
input "fast" { source = "a.fst" }
variant "v" {
  input  = "fast"
  output = "out.fst"
  set    = { TMax = var.tmax }
}`,
			errContains: "Unsupported attribute",
		},
		{
			name: "non-scalar value",
			content: `
input "fast" { source = "a.fst" }
variant "v" {
  input  = "fast"
  output = "out.fst"
  set    = { TMax = [1, 2] }
}`,
			errContains: "Invalid parameter value",
		},
		{
			name: "set is not an object",
			content: `
input "fast" { source = "a.fst" }
variant "v" {
  input  = "fast"
  output = "out.fst"
  set    = "TMax"
}`,
			errContains: "error decoding variant",
		},
		{
			name: "two wind blocks",
			content: `
input "wind" {
  kind   = "inflowwind"
  source = "InflowWind.dat"
}
variant "v" {
  input  = "wind"
  output = "out.dat"
  wind { type = "uniform" }
  wind { type = "turbsim" }
}`,
			errContains: `Duplicate "wind" block`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(context.Background(), writePlan(t, tc.content), tc.vars)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl plan files found")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		plan     *Plan
		summary  string
		detailIn string
	}{
		{
			name: "duplicate input",
			plan: &Plan{Inputs: []*Input{
				{Name: "fast", Source: "/a.fst"},
				{Name: "fast", Source: "/b.fst"},
			}},
			summary: `Duplicate "input" block`,
		},
		{
			name: "unknown kind",
			plan: &Plan{Inputs: []*Input{
				{Name: "fast", Kind: "fast9", Source: "/a.fst"},
			}},
			summary:  "Unknown input kind",
			detailIn: "fast8",
		},
		{
			name: "undeclared input",
			plan: &Plan{Variants: []*Variant{
				{Name: "v", Input: "ghost", Output: "/out.fst"},
			}},
			summary: "Reference to undeclared input",
		},
		{
			name: "duplicate variant",
			plan: &Plan{
				Inputs: []*Input{{Name: "fast", Source: "/a.fst"}},
				Variants: []*Variant{
					{Name: "v", Input: "fast", Output: "/one.fst"},
					{Name: "v", Input: "fast", Output: "/two.fst"},
				},
			},
			summary: `Duplicate "variant" block`,
		},
		{
			name: "conflicting outputs",
			plan: &Plan{
				Inputs: []*Input{{Name: "fast", Source: "/a.fst"}},
				Variants: []*Variant{
					{Name: "a", Input: "fast", Output: "/out.fst"},
					{Name: "b", Input: "fast", Output: "/out.fst"},
				},
			},
			summary: "Conflicting variant outputs",
		},
		{
			name: "blade count",
			plan: &Plan{
				Inputs: []*Input{{Name: "ed", Kind: "elastodyn", Source: "/ed.dat"}},
				Variants: []*Variant{
					{Name: "v", Input: "ed", Output: "/out.dat", Blades: []BladeEdit{{Base: "BlPitch", Count: 0, Value: 1}}},
				},
			},
			summary: "Invalid blade count",
		},
		{
			name: "wind on turbsim input",
			plan: &Plan{
				Inputs: []*Input{{Name: "ts", Kind: "turbsim", Source: "/ts.inp"}},
				Variants: []*Variant{
					{Name: "v", Input: "ts", Output: "/out.inp", Wind: &WindEdit{File: "/w.bts"}},
				},
			},
			summary: "Wind is not supported for this input",
		},
		{
			name: "wind type on fast7",
			plan: &Plan{
				Inputs: []*Input{{Name: "f7", Kind: "fast7", Source: "/f7.fst"}},
				Variants: []*Variant{
					{Name: "v", Input: "f7", Output: "/out.fst", Wind: &WindEdit{Type: "turbsim", File: "/w.wnd"}},
				},
			},
			summary: "Wind type is not supported for this input",
		},
		{
			name: "unknown wind type",
			plan: &Plan{
				Inputs: []*Input{{Name: "f8", Kind: "fast8", Source: "/f8.fst"}},
				Variants: []*Variant{
					{Name: "v", Input: "f8", Output: "/out.fst", Wind: &WindEdit{Type: "gale"}},
				},
			},
			summary:  "Unknown wind type",
			detailIn: "uniform",
		},
		{
			name: "empty wind",
			plan: &Plan{
				Inputs: []*Input{{Name: "f8", Kind: "fast8", Source: "/f8.fst"}},
				Variants: []*Variant{
					{Name: "v", Input: "f8", Output: "/out.fst", Wind: &WindEdit{}},
				},
			},
			summary: "Empty wind block",
		},
		{
			name: "linked edit without write_linked",
			plan: &Plan{
				Inputs: []*Input{{Name: "f8", Kind: "fast8", Source: "/f8.fst"}},
				Variants: []*Variant{
					{Name: "v", Input: "f8", Output: "/out.fst", Set: []Edit{{Key: "EDFile.NacYaw", Value: 10}}},
				},
			},
			summary:  "Linked edits need write_linked",
			detailIn: "EDFile.NacYaw",
		},
		{
			name: "linked blade edit with custom separator",
			plan: &Plan{
				Inputs: []*Input{{Name: "f8", Kind: "fast8", Source: "/f8.fst", Separator: "/"}},
				Variants: []*Variant{
					{Name: "v", Input: "f8", Output: "/out.fst", Blades: []BladeEdit{{Base: "EDFile/BlPitch", Count: 3, Value: 1}}},
				},
			},
			summary:  "Linked edits need write_linked",
			detailIn: "EDFile/BlPitch",
		},
		{
			name: "wind on fast7 without write_linked",
			plan: &Plan{
				Inputs: []*Input{{Name: "f7", Kind: "fast7", Source: "/f7.fst"}},
				Variants: []*Variant{
					{Name: "v", Input: "f7", Output: "/out.fst", Wind: &WindEdit{File: "/w.wnd"}},
				},
			},
			summary:  "Linked edits need write_linked",
			detailIn: "wind",
		},
		{
			name: "conflicting linked outputs",
			plan: &Plan{
				Inputs: []*Input{{Name: "f8", Kind: "fast8", Source: "/f8.fst"}},
				Variants: []*Variant{
					{Name: "a", Input: "f8", Output: "/runs/a.fst", WriteLinked: true},
					{Name: "b", Input: "f8", Output: "/runs/a.inp", WriteLinked: true},
				},
			},
			summary: "Conflicting linked outputs",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate()
			require.Error(t, err)

			var diags hcl.Diagnostics
			require.ErrorAs(t, err, &diags)
			require.NotEmpty(t, diags)
			assert.Equal(t, tc.summary, diags[0].Summary)
			if tc.detailIn != "" {
				assert.Contains(t, diags[0].Detail, tc.detailIn)
			}
		})
	}
}

func TestValidate_MemoizedOutputsMayRepeat(t *testing.T) {
	p := &Plan{
		Inputs: []*Input{{Name: "ts", Kind: "turbsim", Source: "/ts.inp"}},
		Variants: []*Variant{
			{Name: "a", Input: "ts", Output: "/wind/TurbSim.inp", Memoize: true},
			{Name: "b", Input: "ts", Output: "/wind/TurbSim.inp", Memoize: true},
		},
	}
	assert.NoError(t, p.Validate())
}

func TestValidate_LinkedEditsWithWriteLinked(t *testing.T) {
	p := &Plan{
		Inputs: []*Input{
			{Name: "f8", Kind: "fast8", Source: "/f8.fst"},
			{Name: "inflow", Kind: "inflowwind", Source: "/inflow.dat"},
		},
		Variants: []*Variant{
			{Name: "a", Input: "f8", Output: "/runs/a.fst", WriteLinked: true,
				Set: []Edit{{Key: "EDFile.NacYaw", Value: 10}}, Wind: &WindEdit{Type: "bladed"}},
			{Name: "b", Input: "f8", Output: "/runs/b.fst", WriteLinked: true,
				Set: []Edit{{Key: "EDFile.NacYaw", Value: 20}}},
			{Name: "c", Input: "inflow", Output: "/runs/c.dat", Wind: &WindEdit{Type: "uniform"}},
		},
	}
	assert.NoError(t, p.Validate())
}

func TestStarter_LoadsAsValidPlan(t *testing.T) {
	starter := Starter()
	assert.True(t, strings.HasPrefix(string(starter), `input "fast" {`))

	p, err := Load(context.Background(), writePlan(t, string(starter)), nil)
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)

	v := p.Variants[0]
	assert.True(t, v.WriteLinked)
	assert.ElementsMatch(t, []Edit{
		{Key: "TMax", Value: int64(60)},
		{Key: "EDFile.NacYaw", Value: int64(10)},
	}, v.Set)
	assert.Equal(t, []BladeEdit{{Base: "BlPitch", Count: 3, Value: 2.5}}, v.Blades)
	assert.Equal(t, "turbsim", v.Wind.Type)
}
