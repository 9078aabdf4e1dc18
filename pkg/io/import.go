package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

// Format is a definition file encoding.
type Format string

// Supported definition encodings.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidDefinition,
		"cannot infer definition format from %q (use .toml, .yaml, .yml or .json)", filepath.Base(path))
}

// DecodeDefinition reads one definition from r. Unknown keys are an error.
// DecodeDefinition does not close r.
func DecodeDefinition(r io.Reader, format Format) (Definition, error) {
	var def Definition
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&def)
		if err != nil {
			return Definition{}, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Definition{}, errs.New(errs.ErrCodeInvalidDefinition, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			if errors.Is(err, io.EOF) {
				return Definition{}, errs.New(errs.ErrCodeInvalidDefinition, "empty definition")
			}
			return Definition{}, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			if errors.Is(err, io.EOF) {
				return Definition{}, errs.New(errs.ErrCodeInvalidDefinition, "empty definition")
			}
			return Definition{}, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode json")
		}
	default:
		return Definition{}, errs.New(errs.ErrCodeInvalidDefinition, "unsupported definition format: %q", string(format))
	}
	return def, nil
}

// ReadDefinition reads the definition file at path, choosing the decoder
// from the file extension.
func ReadDefinition(path string) (Definition, error) {
	if err := errs.ValidatePath(path); err != nil {
		return Definition{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Definition{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Definition{}, errs.New(errs.ErrCodeFileNotFound, "definition file not found: %s", path)
	}
	if err != nil {
		return Definition{}, fmt.Errorf("read %s: %w", path, err)
	}

	def, err := DecodeDefinition(bytes.NewReader(data), format)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
