// Package content renders objects to the searchable text stored in the
// default full-text field.
package content

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encoder turns an object into text. The output only has to tokenize well;
// it is never parsed back.
type Encoder interface {
	Name() string
	Encode(obj any) (string, error)
}

// New returns the encoder for format. An empty format selects JSON.
func New(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return JSONEncoder{}, nil
	case FormatYAML:
		return YAMLEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown content format %q (expected %s or %s)", format, FormatJSON, FormatYAML)
	}
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{FormatJSON, FormatYAML}
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONEncoder renders exported fields as JSON.
type JSONEncoder struct{}

// Name implements Encoder.
func (JSONEncoder) Name() string { return FormatJSON }

// Encode implements Encoder.
func (JSONEncoder) Encode(obj any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encode %T as json: %w", obj, err)
	}
	return string(data), nil
}

// YAMLEncoder renders objects as YAML. Keys come out lowercased.
type YAMLEncoder struct{}

// Name implements Encoder.
func (YAMLEncoder) Name() string { return FormatYAML }

// Encode implements Encoder. yaml.v3 panics on some unsupported kinds, so
// the panic is turned into an error.
func (YAMLEncoder) Encode(obj any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode %T as yaml: %v", obj, r)
		}
	}()

	data, err := yaml.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encode %T as yaml: %w", obj, err)
	}
	return string(data), nil
}
