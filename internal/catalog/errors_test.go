package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ValidationError_Keeps_First_Message_Per_Field(t *testing.T) {
	verr := &ValidationError{}
	verr.add("price", "first")
	verr.add("price", "second")
	verr.add("name", "missing")

	assert.Equal(t, "first", verr.Fields["price"])
	assert.Equal(t, "validation failed: name: missing price: first", verr.Error())
}
