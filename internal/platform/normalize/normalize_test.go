package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(nil))
	assert.Nil(t, Optional(ptr("   ")))
	assert.Equal(t, "abc", *Optional(ptr("  abc ")))
}

func TestOptionalUpper(t *testing.T) {
	assert.Equal(t, "GOMA800101HDFXXX01", *OptionalUpper(ptr(" goma800101hdfxxx01")))
	assert.Nil(t, OptionalUpper(ptr("")))
}

func TestCleared(t *testing.T) {
	v, sent := Cleared(nil)
	assert.Nil(t, v)
	assert.False(t, sent)

	v, sent = Cleared(ptr(""))
	assert.Nil(t, v)
	assert.True(t, sent)

	v, sent = Cleared(ptr("x"))
	assert.Equal(t, "x", *v)
	assert.True(t, sent)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "Juan Pérez López", Join("Juan", " Pérez", "", "López "))
	assert.Equal(t, "", Join())
}
