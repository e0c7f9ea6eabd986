package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "REF001", *nullable("REF001"))
	assert.Equal(t, "", deref(nil))
	assert.Equal(t, "SCB", deref(nullable("SCB")))
}
