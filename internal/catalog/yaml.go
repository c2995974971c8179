package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeYAML reads and validates a catalog document.
func DecodeYAML(r io.Reader) (*Catalog, error) {
	var spec Spec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("failed to decode catalog YAML: %w", err)
	}
	return New(spec)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	c, err := DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// EncodeYAML writes the catalog in the same layout DecodeYAML reads.
func EncodeYAML(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Spec()); err != nil {
		return fmt.Errorf("failed to encode catalog YAML: %w", err)
	}
	return enc.Close()
}

// WriteFile saves the catalog as YAML.
func WriteFile(path string, c *Catalog) error {
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, c); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file %s: %w", path, err)
	}
	return nil
}
