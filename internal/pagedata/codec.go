package pagedata

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses the stored page data shape: a JSON array of items.
func Decode(data []byte) ([]Item, error) {
	items := make([]Item, 0)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Encode writes items back to the stored JSON shape.
func Encode(items []Item) ([]byte, error) {
	return json.Marshal(items)
}

// EncodeValue marshals a value produced by Resolve.
func EncodeValue(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}
