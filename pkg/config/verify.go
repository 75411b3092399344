package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema.
// It checks that every config key is known to the schema and that enum values are allowed.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	defs, _ := schema["$defs"].(map[string]any)
	root, err := resolveRef(schema, defs)
	if err != nil {
		return err
	}
	if err := checkObject("", configMap, root, defs); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func resolveRef(node, defs map[string]any) (map[string]any, error) {
	ref, ok := node["$ref"].(string)
	if !ok {
		return node, nil
	}
	name := strings.TrimPrefix(ref, "#/$defs/")
	res, ok := defs[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema reference %q not found", ref)
	}
	return res, nil
}

func checkObject(path string, value map[string]any, node, defs map[string]any) error {
	props, _ := node["properties"].(map[string]any)
	keys := make([]string, 0, len(value))
	for k := range value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		full := strings.TrimPrefix(path+"."+k, ".")
		prop, ok := props[k].(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not defined in schema", full)
		}
		prop, err := resolveRef(prop, defs)
		if err != nil {
			return err
		}
		switch v := value[k].(type) {
		case map[string]any:
			if err := checkObject(full, v, prop, defs); err != nil {
				return err
			}
		case string:
			if enum, ok := prop["enum"].([]any); ok && !inEnum(v, enum) {
				return fmt.Errorf("%s value %q is not one of %v", full, v, enum)
			}
		}
	}
	return nil
}

func inEnum(v string, enum []any) bool {
	for _, e := range enum {
		if s, ok := e.(string); ok && s == v {
			return true
		}
	}
	return false
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Fetch.Timeout == 0 {
		return fmt.Errorf("fetch.timeout is required")
	}
	if cfg.Fetch.UserAgent == "" {
		return fmt.Errorf("fetch.user_agent is required")
	}
	if cfg.Output.Format == "" {
		return fmt.Errorf("output.format is required")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
