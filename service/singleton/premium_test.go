package singleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPremiumLifecycle(t *testing.T) {
	testSetup(t)

	assert.False(t, IsPremium(42))
	assert.Empty(t, ListPremium())

	assert.True(t, AddPremium(42))
	assert.False(t, AddPremium(42)) // already present
	assert.True(t, AddPremium(7))
	assert.True(t, IsPremium(42))

	// sorted ascending regardless of insertion order
	assert.Equal(t, []int64{7, 42}, ListPremium())

	assert.True(t, RemovePremium(42))
	assert.False(t, RemovePremium(42)) // already gone
	assert.False(t, IsPremium(42))
	assert.Equal(t, []int64{7}, ListPremium())
}
