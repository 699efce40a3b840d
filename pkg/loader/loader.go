// Package loader reads structured input into document trees. JSON and YAML
// decode through the YAML node API so object keys keep their document order
// instead of Go's randomized map order. Delimited and spreadsheet inputs
// become Table values with the header row kept verbatim.
//
// Format detection honours the file extension first and falls back to
// content heuristics for extension-less input such as stdin.
package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Object is a string-keyed mapping that remembers insertion order. Decoded
// documents use it instead of map[string]any so iteration is deterministic
// and matches the order keys appear in the source document.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty ordered mapping.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores a value under key. Re-setting an existing key overwrites the
// value but keeps the key's original position.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Load reads the file at path and parses it according to its extension,
// falling back to content detection for unknown extensions.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses raw input data. The name is used only for its extension;
// pass an empty string for stdin or other unnamed sources to force content
// detection. The result is one of *Object, []any, *Table, or a scalar
// (string, int64, float64, bool, or nil).
func LoadBytes(data []byte, name string) (any, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ReadCSV(bytes.NewReader(data))
	case ".xlsx":
		return ReadXLSX(bytes.NewReader(data))
	case ".toml":
		return decodeTOML(data)
	case ".ndjson", ".jsonl":
		return decodeNDJSON(data)
	case ".json":
		return DecodeDocument(data)
	case ".yaml", ".yml":
		return decodeYAMLDocuments(data)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch {
	case looksLikeCSV(data):
		return ReadCSV(bytes.NewReader(data))
	case isLikelyNDJSON(trimmed):
		return decodeNDJSON(data)
	case isLikelyTOML(trimmed):
		return decodeTOML(data)
	case bytes.Contains(data, []byte("\n---")):
		return decodeYAMLDocuments(data)
	}
	return DecodeDocument(data)
}

// DecodeDocument parses a single JSON or YAML document into an ordered tree.
// JSON is a subset of YAML, so both formats go through the same node walk.
// Empty input decodes to nil.
func DecodeDocument(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse input as JSON or YAML: %w", err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return nodeValue(&root)
}

// nodeValue converts a parsed YAML node into *Object, []any, or a scalar,
// recursing through nested structures.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return scalarValue(n), nil
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	}
	return nil, fmt.Errorf("unsupported node kind %d at line %d", n.Kind, n.Line)
}

// scalarValue resolves a scalar node to a Go value using the node's resolved
// tag. Unquoted integers that overflow int64 degrade to float64 and then to
// the literal string. Timestamps keep their source text since the literal
// reads better than Go's formatting.
func scalarValue(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if n.Decode(&b) == nil {
			return b
		}
	case "!!int":
		var i int64
		if n.Decode(&i) == nil {
			return i
		}
		var f float64
		if n.Decode(&f) == nil {
			return f
		}
	case "!!float":
		var f float64
		if n.Decode(&f) == nil {
			return f
		}
	}
	return n.Value
}

// decodeYAMLDocuments parses input that may contain multiple documents
// separated by "---". A single document is returned directly; multiple
// documents come back as a slice.
func decodeYAMLDocuments(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML document %d: %w", len(docs)+1, err)
		}
		value, err := nodeValue(&node)
		if err != nil {
			return nil, err
		}
		docs = append(docs, value)
	}
	switch len(docs) {
	case 0:
		return nil, nil
	case 1:
		return docs[0], nil
	}
	return docs, nil
}

// decodeNDJSON parses newline-delimited JSON, one document per non-empty
// line, and returns the documents as a slice.
func decodeNDJSON(data []byte) (any, error) {
	var docs []any
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, err := DecodeDocument([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("failed to parse NDJSON line %d: %w", i+1, err)
		}
		docs = append(docs, value)
	}
	return docs, nil
}

// decodeTOML parses TOML input. The TOML decoder exposes no key ordering, so
// mappings come back with sorted keys to keep output deterministic.
func decodeTOML(data []byte) (any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return sortedTree(raw), nil
}

// sortedTree converts decoder output (maps, slices, scalars) into the
// loader's ordered types, sorting map keys for determinism.
func sortedTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, sortedTree(t[k]))
		}
		return obj
	case []map[string]any:
		items := make([]any, 0, len(t))
		for _, m := range t {
			items = append(items, sortedTree(m))
		}
		return items
	case []any:
		items := make([]any, 0, len(t))
		for _, item := range t {
			items = append(items, sortedTree(item))
		}
		return items
	case int:
		return int64(t)
	case nil, bool, int64, float64, string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// looksLikeCSV reports whether the input is plausibly delimited text: the
// first line splits into multiple fields and the document as a whole does
// not decode into a YAML or JSON structure.
func looksLikeCSV(data []byte) bool {
	first, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil || len(first) < 2 {
		return false
	}
	var probe any
	if yaml.Unmarshal(data, &probe) != nil {
		return true
	}
	switch probe.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

// isLikelyNDJSON reports whether the input has at least two non-empty lines
// that each parse as a standalone JSON object.
func isLikelyNDJSON(data []byte) bool {
	jsonLines := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "{") {
			return false
		}
		if !json.Valid([]byte(line)) {
			return false
		}
		jsonLines++
	}
	return jsonLines >= 2
}

var (
	tomlSectionRe  = regexp.MustCompile(`^\s*\[[^\[\]]+\]\s*$`)
	tomlKeyValueRe = regexp.MustCompile(`^\s*[A-Za-z0-9_.-]+\s*=\s*\S`)
)

// isLikelyTOML reports whether the input resembles TOML: it must not start
// like JSON and must contain a section header or key = value line.
func isLikelyTOML(data []byte) bool {
	s := string(data)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[{") {
		return false
	}
	for _, line := range strings.Split(s, "\n") {
		if tomlSectionRe.MatchString(line) || tomlKeyValueRe.MatchString(line) {
			return true
		}
	}
	return false
}
