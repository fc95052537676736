// Package utils contains small helpers shared across the module.
package utils

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// An AttributeMap is a convenience wrapper for pulling typed information out
// of an untyped bag of configuration attributes.
type AttributeMap map[string]interface{}

// Has returns whether the given name is in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// TransformAttributeMapToStruct decodes an attribute map into the given
// struct, matching attribute names against the struct's json tags.
func TransformAttributeMapToStruct(to interface{}, attributes AttributeMap) (interface{}, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   to,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return nil, errors.Wrap(err, "cannot decode attribute map")
	}
	return to, nil
}
