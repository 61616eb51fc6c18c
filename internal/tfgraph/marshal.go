package tfgraph

import (
	"bytes"
	"encoding/json"
)

func unmarshalGraph(data []byte) (*GraphDef, error) {
	var g GraphDef
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}
