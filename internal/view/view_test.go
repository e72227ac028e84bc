package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	groupRead  Group = "owner:read"
	groupChild Group = "child:read"
)

type owner struct {
	id     int
	name   string
	secret string
}

var ownerTable = Table[*owner]{
	{Name: "id", Groups: []Group{groupRead, groupChild}, Value: func(o *owner) any { return o.id }},
	{Name: "name", Groups: []Group{groupRead, groupChild}, Value: func(o *owner) any { return o.name }},
	{Name: "secret", Groups: []Group{"owner:write"}, Value: func(o *owner) any { return o.secret }},
}

func (o *owner) Project(g Group) *Object { return ownerTable.Project(o, g) }

type child struct {
	label string
	owner *owner
}

var childTable = Table[*child]{
	{Name: "label", Groups: []Group{groupChild}, Value: func(c *child) any { return c.label }},
	{Name: "owner", Groups: []Group{groupChild}, Value: func(c *child) any {
		if c.owner == nil {
			return nil
		}
		return c.owner
	}},
}

func (c *child) Project(g Group) *Object { return childTable.Project(c, g) }

func TestTable_ProjectKeepsDeclaredOrder(t *testing.T) {
	o := &owner{id: 7, name: "Fruits", secret: "x"}

	data, err := json.Marshal(o.Project(groupRead))
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"name":"Fruits"}`, string(data))
	assert.Equal(t, []string{"id", "name"}, ownerTable.Fields(groupRead))
}

func TestTable_NestedRecordsUseSameGroup(t *testing.T) {
	c := &child{label: "Pomme", owner: &owner{id: 3, name: "Fruits", secret: "x"}}

	data, err := json.Marshal(c.Project(groupChild))
	require.NoError(t, err)
	assert.Equal(t, `{"label":"Pomme","owner":{"id":3,"name":"Fruits"}}`, string(data))

	orphan := &child{label: "Poire"}
	data, err = json.Marshal(orphan.Project(groupChild))
	require.NoError(t, err)
	assert.Equal(t, `{"label":"Poire","owner":null}`, string(data))
}

func TestProjectAll_EmptyIsArray(t *testing.T) {
	data, err := json.Marshal(ProjectAll([]*owner(nil), groupRead))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestObject_SetReplacesInPlace(t *testing.T) {
	obj := &Object{}
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, ok := obj.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, string(data))
}
