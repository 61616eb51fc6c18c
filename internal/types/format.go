package types

import (
	"strconv"
	"strings"
)

// String renders the compact representation: "float32[5,?]".
func (t TensorType) String() string {
	if len(t.Shape) == 0 {
		return string(t.DType)
	}
	dims := make([]string, len(t.Shape))
	for i, d := range t.Shape {
		if d == UnknownDim {
			dims[i] = "?"
		} else {
			dims[i] = strconv.FormatInt(d, 10)
		}
	}
	return string(t.DType) + "[" + strings.Join(dims, ",") + "]"
}

// String renders the compact representation: "<a=int32,float32>".
func (s StructType) String() string {
	var b strings.Builder
	b.WriteByte('<')
	for i, e := range s.Elements {
		if i > 0 {
			b.WriteByte(',')
		}
		if e.Name != "" {
			b.WriteString(e.Name)
			b.WriteByte('=')
		}
		b.WriteString(e.Type.String())
	}
	b.WriteByte('>')
	return b.String()
}

// String renders the compact representation: "(int32 -> int32)", or
// "( -> int32)" for a no-argument function.
func (f FunctionType) String() string {
	param := ""
	if f.Parameter != nil {
		param = f.Parameter.String()
	}
	return "(" + param + " -> " + f.Result.String() + ")"
}

// String renders the compact representation: "int32@SERVER" for all-equal
// values, "{int32}@CLIENTS" otherwise.
func (f FederatedType) String() string {
	placement := strings.ToUpper(string(f.Placement))
	if f.AllEqual {
		return f.Member.String() + "@" + placement
	}
	return "{" + f.Member.String() + "}@" + placement
}

// String renders the compact representation: "int32*".
func (s SequenceType) String() string {
	return s.Element.String() + "*"
}

// String renders the compact representation of the placement type.
func (PlacementType) String() string {
	return "placement"
}
