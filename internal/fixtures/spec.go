// Package fixtures seeds files into an iOS simulator app sandbox before the
// app under test is launched.
package fixtures

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is one configured fixture as the user wrote it. Two shapes are
// accepted:
//
//	fixtures:
//	  - ./testdata/seed.json            # copied to Documents/
//	  - filePath: ./testdata/db.sqlite  # copied to Documents/config/sub/
//	    destinationDir: config/sub
//
// Specs are turned into Fixture values once, at the configuration boundary.
type Spec struct {
	FilePath       string `json:"filePath" yaml:"filePath"`
	DestinationDir string `json:"destinationDir,omitempty" yaml:"destinationDir,omitempty"`
}

// Fixture is the normalized form of a Spec.
type Fixture struct {
	SourcePath        string
	DestinationSubdir string
}

// Fixture validates the spec and returns its normalized form.
func (s Spec) Fixture() (Fixture, error) {
	if s.FilePath == "" {
		return Fixture{}, fmt.Errorf("fixture filePath is required")
	}
	return Fixture{
		SourcePath:        s.FilePath,
		DestinationSubdir: s.DestinationDir,
	}, nil
}

// UnmarshalJSON accepts either a bare path string or a record.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*s = Spec{FilePath: path}
		return nil
	}

	type record Spec
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("fixture must be a path string or {filePath, destinationDir}: %w", err)
	}
	*s = Spec(r)
	return nil
}

// UnmarshalYAML accepts either a bare path scalar or a mapping.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = Spec{FilePath: node.Value}
		return nil
	case yaml.MappingNode:
		type record Spec
		var r record
		if err := node.Decode(&r); err != nil {
			return fmt.Errorf("failed to decode fixture record: %w", err)
		}
		*s = Spec(r)
		return nil
	default:
		return fmt.Errorf("line %d: fixture must be a path string or {filePath, destinationDir}", node.Line)
	}
}

// ParseSpecs normalizes raw configuration values, as produced by koanf or
// encoding/json into []any, into fixtures. Nil input yields nil.
func ParseSpecs(raw []any) ([]Fixture, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]Fixture, 0, len(raw))
	for i, item := range raw {
		spec, err := specFromValue(item)
		if err != nil {
			return nil, fmt.Errorf("fixtures[%d]: %w", i, err)
		}
		f, err := spec.Fixture()
		if err != nil {
			return nil, fmt.Errorf("fixtures[%d]: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Normalize converts already-decoded specs into fixtures.
func Normalize(specs []Spec) ([]Fixture, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]Fixture, 0, len(specs))
	for i, s := range specs {
		f, err := s.Fixture()
		if err != nil {
			return nil, fmt.Errorf("fixtures[%d]: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func specFromValue(v any) (Spec, error) {
	switch val := v.(type) {
	case string:
		return Spec{FilePath: val}, nil
	case Spec:
		return val, nil
	case map[string]any:
		return specFromMap(val)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			key, ok := k.(string)
			if !ok {
				return Spec{}, fmt.Errorf("unexpected key %v in fixture record", k)
			}
			m[key] = v
		}
		return specFromMap(m)
	default:
		return Spec{}, fmt.Errorf("unsupported fixture value of type %T", v)
	}
}

// specFromMap reads a record. Config files in this repo use snake_case keys,
// so both spellings are accepted.
func specFromMap(m map[string]any) (Spec, error) {
	var s Spec
	var err error
	if s.FilePath, err = stringField(m, "filePath", "file_path"); err != nil {
		return Spec{}, err
	}
	if s.DestinationDir, err = stringField(m, "destinationDir", "destination_dir"); err != nil {
		return Spec{}, err
	}
	return s, nil
}

func stringField(m map[string]any, keys ...string) (string, error) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%s must be a string, got %T", k, v)
		}
		return s, nil
	}
	return "", nil
}
