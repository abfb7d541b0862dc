package address

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the on-disk shape of a dataset.
type Format string

const (
	// FormatAuto picks a format from the source name and content.
	FormatAuto Format = ""
	// FormatJSONRecords is an ordered list of province records with nested
	// district and sub-district records carrying zip codes.
	FormatJSONRecords Format = "json"
	// FormatJSONNested maps province → district → sub-district names.
	// It carries no zip codes.
	FormatJSONNested Format = "json-nested"
	// FormatYAMLRecords is FormatJSONRecords written as YAML.
	FormatYAMLRecords Format = "yaml"
)

// ParseFormat maps a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatJSONRecords, FormatJSONNested, FormatYAMLRecords:
		return f, nil
	case "yml":
		return FormatYAMLRecords, nil
	default:
		return "", fmt.Errorf("unknown dataset format %q", s)
	}
}

var errEmptyDataset = errors.New("dataset is empty")

// Decode parses raw dataset bytes. name is used only to sniff the format
// when f is FormatAuto.
func Decode(data []byte, name string, f Format) ([]Province, error) {
	if f == FormatAuto {
		f = sniff(data, name)
	}

	switch f {
	case FormatJSONRecords:
		var provinces []Province
		if err := json.Unmarshal(data, &provinces); err != nil {
			return nil, err
		}
		return provinces, nil
	case FormatJSONNested:
		var nested Override
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, err
		}
		return nested.records(), nil
	case FormatYAMLRecords:
		var provinces []Province
		if err := yaml.Unmarshal(data, &provinces); err != nil {
			return nil, err
		}
		return provinces, nil
	default:
		return nil, fmt.Errorf("unknown dataset format %q", f)
	}
}

func sniff(data []byte, name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAMLRecords
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSONNested
	}
	return FormatJSONRecords
}
