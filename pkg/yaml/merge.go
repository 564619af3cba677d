package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
)

// SetRootKeys writes the fields of v into the root mapping of the document in
// data. Keys present in v replace existing keys, while comments and the order
// of untouched keys are kept. An empty document is replaced by v.
func SetRootKeys(data []byte, v any) ([]byte, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		b, err := Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return b, nil
	}

	node, err := yaml.ValueToNode(v, encodeOptions...)
	if err != nil {
		return nil, fmt.Errorf("convert value to node: %w", err)
	}

	root, err := yaml.PathString("$")
	if err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}

	err = root.MergeFromNode(file, node)
	if err != nil {
		return nil, fmt.Errorf("merge yaml: %w", err)
	}

	return []byte(file.String()), nil
}
