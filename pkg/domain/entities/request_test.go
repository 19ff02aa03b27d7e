package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validation(t *testing.T) {
	tiers := TierSelection{"assembler": 3}
	req, err := NewRequest("gear", d("30"), tiers, BoostMk3)
	require.NoError(t, err)
	assert.Equal(t, ItemName("gear"), req.Item)

	tiers["assembler"] = 1
	assert.Equal(t, 3, req.Tiers["assembler"])

	_, err = NewRequest("", d("1"), nil, BoostNone)
	assert.EqualError(t, err, "item name cannot be empty")

	_, err = NewRequest("gear", d("0"), nil, BoostNone)
	assert.EqualError(t, err, "desired flow must be positive, got 0")

	_, err = NewRequest("gear", d("1"), nil, BoostLevel(7))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBoostLevel))
}
