package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutationTypeNames(t *testing.T) {
	seen := map[string]bool{}
	for _, op := range MutationTypes {
		name := op.String()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "create_index", MutationTCreateIndex.String())
}
