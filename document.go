// File: conf/document.go
package conf

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Doc is a document value layer: raw string values keyed by dotted field
// path, applied at priority below the environment and above hard defaults.
// It carries parsed document content handed over by the caller; reading
// files from disk is the caller's concern, not this package's.
type Doc map[string]string

func (d Doc) lookup(path string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d[path]
	return v, ok
}

// DocFromTOML builds a document layer from TOML bytes. Tables become path
// segments; leaf values are stringified and later go through each option's
// value parser like any other raw occurrence.
func DocFromTOML(data []byte) (Doc, error) {
	nested := make(map[string]any)
	if err := toml.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("failed to parse TOML document: %w", err)
	}
	return DocFromMap(nested), nil
}

// DocFromMap builds a document layer from an already parsed nested map,
// flattening tables into dot-notation paths.
func DocFromMap(nested map[string]any) Doc {
	doc := make(Doc)
	flattenInto(doc, nested, "")
	return doc
}

// flattenInto converts a nested map to flat dot-notation paths with
// stringified leaf values.
func flattenInto(doc Doc, nested map[string]any, prefix string) {
	for key, value := range nested {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if sub, isMap := value.(map[string]any); isMap {
			flattenInto(doc, sub, path)
			continue
		}
		doc[path] = stringifyDocValue(value)
	}
}

func stringifyDocValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
