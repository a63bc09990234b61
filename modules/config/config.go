package config

import (
	"bytes"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"os"
)

// FromYamlFile decodes the YAML document at path into out. Unknown keys are an error.
func FromYamlFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(out)
	if errors.Is(err, io.EOF) {
		// An empty file keeps every default.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	return nil
}
