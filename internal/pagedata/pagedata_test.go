package pagedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func root() Item {
	return Item{ID: "1", ParentID: "-1", Name: "$", Type: TypeObject, Open: true}
}

func TestAccessPath(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		id    string
		want  string
	}{
		{
			name:  "blank id",
			items: []Item{root(), {ID: "2", ParentID: "1", Name: "foo", Type: TypeString, Value: "bar"}},
			id:    "  ",
			want:  "",
		},
		{
			name:  "empty page data",
			items: []Item{},
			id:    "1",
			want:  "",
		},
		{
			name:  "unknown id",
			items: []Item{root(), {ID: "2", ParentID: "1", Name: "foo", Type: TypeString}},
			id:    "3",
			want:  "",
		},
		{
			name:  "root",
			items: []Item{root()},
			id:    "1",
			want:  "$",
		},
		{
			name:  "object member",
			items: []Item{root(), {ID: "2", ParentID: "1", Name: "foo", Type: TypeString, Value: "a"}},
			id:    "2",
			want:  "$.foo",
		},
		{
			name: "nested object member",
			items: []Item{
				root(),
				{ID: "2", ParentID: "1", Name: "foo", Type: TypeObject},
				{ID: "3", ParentID: "2", Name: "bar", Type: TypeString, Value: "a"},
			},
			id:   "3",
			want: "$.foo.bar",
		},
		{
			name: "first array element",
			items: []Item{
				root(),
				{ID: "2", ParentID: "1", Name: "foo", Type: TypeArray},
				{ID: "3", ParentID: "2", Name: "0", Type: TypeString, Value: "a"},
			},
			id:   "3",
			want: "$.foo[0]",
		},
		{
			name: "second array element",
			items: []Item{
				root(),
				{ID: "2", ParentID: "1", Name: "foo", Type: TypeArray},
				{ID: "3", ParentID: "2", Name: "0", Type: TypeString, Value: "a"},
				{ID: "4", ParentID: "2", Name: "1", Type: TypeString, Value: "b"},
			},
			id:   "4",
			want: "$.foo[1]",
		},
		{
			name: "array rank ignores the element subtree",
			items: []Item{
				root(),
				{ID: "2", ParentID: "1", Name: "foo", Type: TypeArray},
				{ID: "3", ParentID: "2", Name: "0", Type: TypeObject},
				{ID: "31", ParentID: "3", Name: "x", Type: TypeString},
				{ID: "4", ParentID: "2", Name: "1", Type: TypeObject},
				{ID: "41", ParentID: "4", Name: "y", Type: TypeString},
			},
			id:   "41",
			want: "$.foo[1].y",
		},
		{
			name: "array nested in object nested in array",
			items: []Item{
				root(),
				{ID: "2", ParentID: "1", Name: "foo", Type: TypeObject},
				{ID: "3", ParentID: "2", Name: "bar", Type: TypeArray},
				{ID: "4", ParentID: "3", Name: "0", Type: TypeString, Value: "a"},
			},
			id:   "4",
			want: "$.foo.bar[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccessPath(tt.items, tt.id))
		})
	}
}

func TestResolve_Missing(t *testing.T) {
	value, ok := Resolve([]Item{}, "")
	assert.False(t, ok)
	assert.Nil(t, value)

	value, ok = Resolve([]Item{}, "1")
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestResolve_Primitives(t *testing.T) {
	items := []Item{
		root(),
		{ID: "2", ParentID: "1", Name: "s", Type: TypeString, Value: "a"},
		{ID: "3", ParentID: "1", Name: "n", Type: TypeNumber, Value: "1"},
		{ID: "4", ParentID: "1", Name: "b", Type: TypeBoolean, Value: "true"},
		{ID: "5", ParentID: "1", Name: "d", Type: TypeString, DefaultValue: "fallback"},
		{ID: "6", ParentID: "1", Name: "nd", Type: TypeNumber, DefaultValue: "2.5"},
		{ID: "7", ParentID: "1", Name: "bf", Type: TypeBoolean, Value: "false"},
		{ID: "8", ParentID: "1", Name: "bad", Type: TypeNumber, Value: "abc"},
		{ID: "9", ParentID: "1", Name: "truthy", Type: TypeBoolean, Value: "yes"},
		{ID: "10", ParentID: "1", Name: "empty", Type: TypeNumber},
	}

	tests := []struct {
		id   string
		want interface{}
	}{
		{"2", "a"},
		{"3", float64(1)},
		{"4", true},
		{"5", "fallback"},
		{"6", 2.5},
		{"7", false},
		{"8", nil},
		{"9", true},
		{"10", float64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			value, ok := Resolve(items, tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

// Boolean items hold the text a property editor wrote, so "false" and "0"
// read as false rather than as non-empty strings.
func TestResolve_BooleanText(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"False", false},
		{"0", false},
		{" false ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			items := []Item{root(), {ID: "2", ParentID: "1", Name: "flag", Type: TypeBoolean, Value: tt.raw}}
			value, ok := Resolve(items, "2")
			require.True(t, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestResolve_Object(t *testing.T) {
	items := []Item{
		root(),
		{ID: "2", ParentID: "1", Name: "foo", Type: TypeString, Value: "a"},
		{ID: "3", ParentID: "1", Name: "bar", Type: TypeString, Value: "b"},
	}

	value, ok := Resolve(items, "1")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"foo": "a", "bar": "b"}, value)
}

func TestResolve_NestedObject(t *testing.T) {
	items := []Item{
		root(),
		{ID: "2", ParentID: "1", Name: "foo", Type: TypeObject},
		{ID: "3", ParentID: "2", Name: "bar", Type: TypeString, Value: "a"},
	}

	value, ok := Resolve(items, "1")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"foo": map[string]interface{}{"bar": "a"}}, value)
}

func TestResolve_Array(t *testing.T) {
	items := []Item{
		root(),
		{ID: "2", ParentID: "1", Name: "foo", Type: TypeArray, Value: "ignored"},
		{ID: "3", ParentID: "2", Name: "0", Type: TypeString, Value: "a"},
		{ID: "4", ParentID: "2", Name: "1", Type: TypeString, Value: "b"},
	}

	value, ok := Resolve(items, "2")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b"}, value)
}

func TestResolve_ArrayOfObjectsKeepsListOrder(t *testing.T) {
	items := []Item{
		root(),
		{ID: "2", ParentID: "1", Name: "array", Type: TypeArray},
		{ID: "3", ParentID: "2", Name: "9", Type: TypeObject},
		{ID: "4", ParentID: "3", Name: "foo", Type: TypeString, Value: "bar"},
		{ID: "5", ParentID: "2", Name: "0", Type: TypeObject},
		{ID: "6", ParentID: "5", Name: "foo", Type: TypeString, Value: "baz"},
	}

	value, ok := Resolve(items, "2")
	require.True(t, ok)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"foo": "bar"},
		map[string]interface{}{"foo": "baz"},
	}, value)
}

func TestResolve_EmptyContainers(t *testing.T) {
	items := []Item{
		root(),
		{ID: "2", ParentID: "1", Name: "list", Type: TypeArray},
	}

	value, ok := Resolve(items, "2")
	require.True(t, ok)
	assert.Equal(t, []interface{}{}, value)

	value, ok = Resolve([]Item{root()}, "1")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{}, value)
}

func TestResolve_CycleTerminates(t *testing.T) {
	items := []Item{
		{ID: "1", ParentID: "2", Name: "a", Type: TypeObject},
		{ID: "2", ParentID: "1", Name: "b", Type: TypeObject},
	}

	value, ok := Resolve(items, "1")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{
		"b": map[string]interface{}{"a": map[string]interface{}{}},
	}, value)
}

func TestCodec(t *testing.T) {
	raw := []byte(`[
		{"id":"1","parentId":"-1","name":"$","type":"Object","open":true},
		{"id":"2","parentId":"1","name":"foo","type":"Number","value":"3","open":false}
	]`)

	items, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, TypeNumber, items[1].Type)
	assert.Equal(t, "$.foo", AccessPath(items, "2"))

	value, ok := Resolve(items, "1")
	require.True(t, ok)
	encoded, err := EncodeValue(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"foo":3}`, string(encoded))

	_, err = Decode([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
}
