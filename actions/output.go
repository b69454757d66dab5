package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"
)

const (
	OutputYaml = "yaml"
	OutputJson = "json"
)

// printOutput writes v to w as YAML or JSON. An empty format prints nothing.
func printOutput(w io.Writer, format string, v interface{}) error {
	var data []byte
	var err error
	switch strings.ToLower(format) {
	case "":
		return nil
	case OutputYaml:
		data, err = yaml.Marshal(v)
	case OutputJson:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported output format %q: use %q or %q", format, OutputYaml, OutputJson)
	}
	if err != nil {
		return fmt.Errorf("unable to marshal output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
