// Package pagedata resolves page data items, the flat parent-pointer tree a
// page model carries for its data, into access paths and materialized values.
//
// Access paths follow a JSONPath-like notation: the root name verbatim, then
// ".name" for object members and "[rank]" for array elements, where rank is
// the element's sibling rank. A root named "$" with an object member "foo"
// holding an array "bar" addresses its first element as "$.foo.bar[0]".
package pagedata

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/blocklang/designer/internal/tree"
)

// DataType is the declared type of a data item.
type DataType string

const (
	TypeString  DataType = "String"
	TypeNumber  DataType = "Number"
	TypeBoolean DataType = "Boolean"
	TypeObject  DataType = "Object"
	TypeArray   DataType = "Array"
)

// Item is one node of the page data tree. Empty Value and DefaultValue are
// treated as unset.
type Item struct {
	ID           string   `json:"id" yaml:"id"`
	ParentID     string   `json:"parentId" yaml:"parentId"`
	Name         string   `json:"name" yaml:"name"`
	Type         DataType `json:"type" yaml:"type"`
	Value        string   `json:"value,omitempty" yaml:"value,omitempty"`
	DefaultValue string   `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Open         bool     `json:"open" yaml:"open"`
}

// NodeID implements tree.Node.
func (i Item) NodeID() string { return i.ID }

// NodeParentID implements tree.Node.
func (i Item) NodeParentID() string { return i.ParentID }

// RawValue returns Value, falling back to DefaultValue.
func (i Item) RawValue() string {
	if i.Value != "" {
		return i.Value
	}
	return i.DefaultValue
}

// AccessPath converts a data item id into its access path. A blank or
// unknown id yields "".
func AccessPath(items []Item, itemID string) string {
	if strings.TrimSpace(itemID) == "" {
		return ""
	}

	index := tree.IndexOf(items, itemID)
	if index == -1 {
		return ""
	}

	path := tree.NodePath(items, index)
	var b strings.Builder
	for i, entry := range path {
		if i == 0 {
			b.WriteString(entry.Node.Name)
			continue
		}
		if path[i-1].Node.Type == TypeArray {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(entry.Rank))
			b.WriteString("]")
		} else {
			b.WriteString(".")
			b.WriteString(entry.Node.Name)
		}
	}

	return b.String()
}

// Resolve materializes the value of the data item with the given id. The
// boolean is false when the id is blank or unknown.
//
// Numbers resolve to float64 (nil when unparsable), booleans to bool,
// objects to map[string]interface{} keyed by child name and arrays to
// []interface{} in list order. Every other type resolves to the raw string.
func Resolve(items []Item, itemID string) (interface{}, bool) {
	if strings.TrimSpace(itemID) == "" {
		return nil, false
	}

	index := tree.IndexOf(items, itemID)
	if index == -1 {
		return nil, false
	}

	r := &resolver{items: items, visiting: make(map[string]struct{})}
	return r.value(items[index]), true
}

type resolver struct {
	items    []Item
	visiting map[string]struct{}
}

func (r *resolver) value(item Item) interface{} {
	switch item.Type {
	case TypeNumber:
		return toNumber(item.RawValue())
	case TypeBoolean:
		return toBoolean(item.RawValue())
	case TypeObject:
		result := make(map[string]interface{})
		r.eachChild(item, func(child Item) {
			result[child.Name] = r.value(child)
		})
		return result
	case TypeArray:
		result := make([]interface{}, 0)
		r.eachChild(item, func(child Item) {
			result = append(result, r.value(child))
		})
		return result
	default:
		return item.RawValue()
	}
}

func (r *resolver) eachChild(item Item, fn func(child Item)) {
	// malformed data may point back at an ancestor
	if _, ok := r.visiting[item.ID]; ok {
		return
	}
	r.visiting[item.ID] = struct{}{}
	defer delete(r.visiting, item.ID)

	for _, candidate := range r.items {
		if candidate.ParentID == item.ID {
			fn(candidate)
		}
	}
}

func toNumber(raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return float64(0)
	}
	n, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	return n
}

// toBoolean parses the stored text, so "false" and "0" are false. Text that
// does not parse is true when non-empty.
func toBoolean(raw string) bool {
	b, err := cast.ToBoolE(strings.TrimSpace(raw))
	if err != nil {
		return raw != ""
	}
	return b
}
