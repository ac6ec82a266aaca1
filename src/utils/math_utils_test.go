package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 22.5, RoundFloat(22.4999999, 2))
	assert.Equal(t, 10.0, RoundFloat(10.004, 2))
	assert.Equal(t, 33.33, RoundFloat(33.3333333, 2))
	assert.Equal(t, -3.0, RoundFloat(-2.999999, 2))
	assert.Equal(t, 0.0, RoundFloat(0, 2))
}
