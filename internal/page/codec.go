package page

import (
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/blocklang/designer/internal/errors"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is the serialization of a page model file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension. Anything but .yaml and
// .yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and validates a page model file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.WrapIO(err, derrors.ErrCodeFileNotFound, "page model not found").
				WithContext("path", path)
		}
		return nil, derrors.WrapIO(err, derrors.ErrCodeInternalError, "failed to read page model").
			WithContext("path", path)
	}

	model, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Parse decodes and validates a page model.
func Parse(data []byte, format Format) (*Model, error) {
	model := &Model{}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, model)
	default:
		err = json.Unmarshal(data, model)
	}
	if err != nil {
		return nil, derrors.WrapValidation(err, derrors.ErrCodeInvalidPageModel, "failed to decode page model")
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// Encode serializes the model.
func Encode(model *Model, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(model)
	}
	return json.MarshalIndent(model, "", "  ")
}

// Save writes the model to path in the format its extension implies.
func Save(path string, model *Model) error {
	data, err := Encode(model, FormatOf(path))
	if err != nil {
		return derrors.WrapIO(err, derrors.ErrCodeInternalError, "failed to encode page model")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return derrors.WrapIO(err, derrors.ErrCodeInternalError, "failed to write page model").
			WithContext("path", path)
	}
	return nil
}
