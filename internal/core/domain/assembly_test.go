package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParametersEqual(t *testing.T) {
	a := Parameters{"brick_length": float64(215), "bond_pattern": "flemish"}

	// Same values in a different Go numeric type compare equal.
	b := Parameters{"brick_length": 215, "bond_pattern": "flemish"}
	assert.True(t, a.Equal(b))

	changed := Parameters{"brick_length": float64(230), "bond_pattern": "flemish"}
	assert.False(t, a.Equal(changed))

	extra := Parameters{"brick_length": float64(215), "bond_pattern": "flemish", "tile_width": float64(4)}
	assert.False(t, a.Equal(extra))

	assert.True(t, Parameters(nil).Equal(nil))
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindBrick.Valid())
	assert.True(t, KindWall.Valid())
	assert.False(t, Kind("gazebo").Valid())
	assert.False(t, Kind("").Valid())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("step")
	assert.NoError(t, err)
	assert.Equal(t, FormatSTEP, f)

	_, err = ParseFormat("obj")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
