package plan

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Starter renders an example plan that edits an OpenFAST v8 model. It is
// printed by `spawnwind -init`.
func Starter() []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	input := root.AppendNewBlock("input", []string{"fast"}).Body()
	input.SetAttributeValue("kind", cty.StringVal("fast8"))
	input.SetAttributeValue("source", cty.StringVal("models/NREL5MW.fst"))
	root.AppendNewline()

	variant := root.AppendNewBlock("variant", []string{"yaw_10"}).Body()
	variant.SetAttributeValue("input", cty.StringVal("fast"))
	variant.SetAttributeValue("output", cty.StringVal("runs/yaw_10/NREL5MW.fst"))
	variant.SetAttributeValue("write_linked", cty.True)
	variant.SetAttributeValue("set", cty.ObjectVal(map[string]cty.Value{
		"TMax":          cty.NumberIntVal(60),
		"EDFile.NacYaw": cty.NumberIntVal(10),
	}))
	variant.AppendNewline()

	blade := variant.AppendNewBlock("blade", []string{"BlPitch"}).Body()
	blade.SetAttributeValue("count", cty.NumberIntVal(3))
	blade.SetAttributeValue("value", cty.NumberFloatVal(2.5))

	wind := variant.AppendNewBlock("wind", nil).Body()
	wind.SetAttributeValue("type", cty.StringVal("turbsim"))
	wind.SetAttributeValue("file", cty.StringVal("wind/90m_12mps_twr.bts"))

	return hclwrite.Format(f.Bytes())
}
