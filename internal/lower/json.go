package lower

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"
)

// ToJSON renders mod as a JSON document suitable for golden-file tests and
// for feeding a separate codegen backend. Each instruction is marshaled to
// its natural field layout and spliced in at its block-relative path with
// sjson, rather than built through one big struct tree, since instrs.go's
// node types don't share a common exported field set.
func ToJSON(mod *Module) (string, error) {
	doc := "{}"
	var err error
	for fi, fn := range mod.Functions {
		base := fmt.Sprintf("functions.%d", fi)
		if doc, err = sjson.Set(doc, base+".name", fn.Name); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, base+".params", fn.Params); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, base+".errorSet", fn.ErrorSet); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, base+".isGen", fn.IsGen); err != nil {
			return "", err
		}
		for bi, b := range fn.Blocks {
			bbase := fmt.Sprintf("%s.blocks.%d", base, bi)
			if doc, err = sjson.Set(doc, bbase+".label", b.Label); err != nil {
				return "", err
			}
			for ii, instr := range b.Instrs {
				raw, err := instrJSON(instr)
				if err != nil {
					return "", err
				}
				if doc, err = sjson.SetRaw(doc, fmt.Sprintf("%s.instrs.%d", bbase, ii), raw); err != nil {
					return "", err
				}
			}
			term, err := instrJSON(b.Terminator)
			if err != nil {
				return "", err
			}
			if doc, err = sjson.SetRaw(doc, bbase+".terminator", term); err != nil {
				return "", err
			}
		}
	}
	return doc, nil
}

// instrJSON marshals an Instr with an added "op" discriminator so the JSON
// form is self-describing without relying on Go's own type names.
func instrJSON(i Instr) (string, error) {
	op := fmt.Sprintf("%T", i)
	body, err := json.Marshal(i)
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(string(body), "op", fmt.Sprintf("%q", op))
}
