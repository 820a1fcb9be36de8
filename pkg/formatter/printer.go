// File: pkg/formatter/printer.go
package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// Parses a --format value. An empty value means table output
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of table, json, yaml", ErrUnsupportedFormat, s)
	}
}

// Encodes v as JSON or YAML
func marshal(v any, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error encoding JSON: %w", err)
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("error encoding YAML: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}
