package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-wallet/internal/util"
)

type component struct{}

type container struct {
	Skipped  *component `wire:"-"`
	Required *component
	Name     string
}

func TestIsStructInitialized(t *testing.T) {
	err := util.IsStructInitialized(&container{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Required")

	require.NoError(t, util.IsStructInitialized(&container{Required: &component{}}))
	require.NoError(t, util.IsStructInitialized(container{Required: &component{}}))

	var nilContainer *container
	require.Error(t, util.IsStructInitialized(nilContainer))
	require.Error(t, util.IsStructInitialized(42))
}
