package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects how command results are written.
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTree, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTree, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want tree, json or yaml)", s)
	}
}

// Encode writes v as JSON or YAML. The tree format has no generic encoding
// and is rendered by ConsoleFormatter instead.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot be encoded", format)
	}
}
