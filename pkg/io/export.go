package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

// EncodeDefinition writes def to w in the given format.
func EncodeDefinition(w io.Writer, def Definition, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(def)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(def)
	}
	return errs.New(errs.ErrCodeInvalidDefinition, "unsupported definition format: %q", string(format))
}

// WriteLayoutJSON encodes a laid-out diagram as indented JSON.
func WriteLayoutJSON(d *diagram.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayoutJSON writes a laid-out diagram to a JSON file at path.
// This is a convenience wrapper around [WriteLayoutJSON] for file-based output.
func ExportLayoutJSON(d *diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayoutJSON(d, f)
}

// ReadLayoutJSON decodes a diagram written by [WriteLayoutJSON].
func ReadLayoutJSON(r io.Reader) (*diagram.Diagram, error) {
	var d diagram.Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &d, nil
}
