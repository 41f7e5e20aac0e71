// Package seed loads default-state overrides and action scripts from
// TOML, YAML or JSON files. The format follows the file extension.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/value"
)

// Format is a seed file encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf picks the format from path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

// LoadDefaults reads a document whose top-level keys are domain keys and
// returns each domain's state as a value tree.
func LoadDefaults(path string) (map[string]any, error) {
	format, data, err := read(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDefaults(format, data)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return doc, nil
}

// ParseDefaults decodes a defaults document.
func ParseDefaults(format Format, data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := decode(format, data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		conv, err := value.FromNative(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = conv
	}
	return out, nil
}

// Apply returns a copy of defs whose default states are replaced by the
// matching overrides. Overrides for unknown domains are reported.
func Apply(defs actions.Definitions, overrides map[string]any) (actions.Definitions, error) {
	out := make(actions.Definitions, len(defs))
	for k, d := range defs {
		out[k] = d
	}
	var unknown []string
	for k, v := range overrides {
		d, ok := out[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		d.DefaultState = v
		out[k] = d
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return out, fmt.Errorf("seed names unknown domains: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// script is the TOML shape of an action script: [[actions]] tables.
type script struct {
	Actions []map[string]any `toml:"actions"`
}

// LoadScript reads a list of actions.
func LoadScript(path string) ([]actions.Action, error) {
	format, data, err := read(path)
	if err != nil {
		return nil, err
	}
	list, err := ParseScript(format, data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return list, nil
}

// ParseScript decodes a script. YAML and JSON scripts are a top-level
// list of {type, payload}; TOML scripts use [[actions]] tables.
func ParseScript(format Format, data []byte) ([]actions.Action, error) {
	var items []map[string]any
	if format == TOML {
		var s script
		if err := decode(format, data, &s); err != nil {
			return nil, err
		}
		items = s.Actions
	} else if err := decode(format, data, &items); err != nil {
		return nil, err
	}

	list := make([]actions.Action, 0, len(items))
	for i, item := range items {
		typ, _ := item["type"].(string)
		if strings.TrimSpace(typ) == "" {
			return nil, fmt.Errorf("action %d: missing type", i)
		}
		if !strings.Contains(typ, actions.Separator) {
			return nil, fmt.Errorf("action %d: type %q is not <domain>%s<name>", i, typ, actions.Separator)
		}
		payload, err := value.FromNative(item["payload"])
		if err != nil {
			return nil, fmt.Errorf("action %d: payload: %w", i, err)
		}
		list = append(list, actions.Action{Type: typ, Payload: payload})
	}
	return list, nil
}

func read(path string) (Format, []byte, error) {
	format, err := FormatOf(path)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	return format, data, nil
}

func decode(format Format, data []byte, target any) error {
	switch format {
	case TOML:
		if err := toml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	case JSON:
		v, err := value.ParseJSON(data)
		if err != nil {
			return err
		}
		return assignJSON(v, target)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// assignJSON stores a parsed JSON tree into the decode targets used here.
func assignJSON(v any, target any) error {
	native := value.ToNative(v)
	switch t := target.(type) {
	case *map[string]any:
		m, ok := native.(map[string]any)
		if !ok {
			return fmt.Errorf("want a JSON object, got %T", native)
		}
		*t = m
	case *[]map[string]any:
		list, ok := native.([]any)
		if !ok {
			return fmt.Errorf("want a JSON array, got %T", native)
		}
		out := make([]map[string]any, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("item %d: want an object, got %T", i, item)
			}
			out[i] = m
		}
		*t = out
	default:
		return fmt.Errorf("unsupported decode target %T", target)
	}
	return nil
}
