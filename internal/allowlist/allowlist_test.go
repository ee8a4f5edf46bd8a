package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsAndChainMethods(t *testing.T) {
	assert.True(t, IsConstructor("object"), "object should be a constructor")
	assert.False(t, IsConstructor("min"), "min is a chain method, not a constructor")
	assert.True(t, IsChainMethod("refine"), "refine should be a chain method")
	assert.False(t, IsAllowed("banana"), "banana should not be allowed anywhere")
}

func TestRefineAndPipeAppearOnlyAsChainMethods(t *testing.T) {
	for _, name := range []string{"refine", "transform", "pipe", "regex"} {
		assert.True(t, IsChainMethod(name), "%s should be an allowed chain method", name)
		assert.False(t, IsConstructor(name), "%s should not be a constructor", name)
	}
}
