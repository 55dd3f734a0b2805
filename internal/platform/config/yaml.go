package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes the YAML file at path into target. Unknown keys are
// rejected.
func LoadYAML(path string, target any) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("yaml path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeYAML(data, target)
}

// DecodeYAML decodes YAML bytes into target with strict field checking.
func DecodeYAML(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}
