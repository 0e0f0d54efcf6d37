package schema

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentKey(t *testing.T) {
	a := Document{"id": 1, "name": "Alice"}
	b := Document{"name": "Alice", "id": 1}

	key := ContentKey(a, 0)
	_, err := uuid.Parse(key)
	require.NoError(t, err)

	assert.Equal(t, key, ContentKey(b, 7), "key ignores position and map order")
	assert.NotEqual(t, key, ContentKey(Document{"id": 2, "name": "Alice"}, 0))
}

func TestContentKey_UnencodableValues(t *testing.T) {
	row := Document{"ch": make(chan int), "name": "x"}
	k1 := ContentKey(row, 0)
	k2 := ContentKey(Document{"name": "x", "ch": row["ch"]}, 3)
	assert.Equal(t, k1, k2)
}

func TestIndexKey(t *testing.T) {
	assert.Equal(t, "3", IndexKey(Document{"a": 1}, 3))
	assert.Equal(t, "-1", IndexKey(nil, -1))
}

func TestFieldKey(t *testing.T) {
	byID := FieldKey("id")
	assert.Equal(t, "42", byID(Document{"id": 42}, 0))
	assert.Equal(t, "u-1", byID(Document{"id": "u-1"}, 5))

	missing := Document{"name": "no id"}
	assert.Equal(t, ContentKey(missing, 0), byID(missing, 0))
}
