package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

func TestParsePriority(t *testing.T) {
	p, err := domain.ParsePriority(" P1 ")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityP1, p)

	_, err = domain.ParsePriority("p5")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestPriority_BaseScore(t *testing.T) {
	assert.Equal(t, 100, domain.PriorityP1.BaseScore())
	assert.Equal(t, 75, domain.PriorityP2.BaseScore())
	assert.Equal(t, 50, domain.PriorityP3.BaseScore())
	assert.Equal(t, 25, domain.PriorityP4.BaseScore())
}

func TestParseEnergy(t *testing.T) {
	e, err := domain.ParseEnergy("HIGH")
	require.NoError(t, err)
	assert.Equal(t, domain.EnergyHigh, e)

	_, err = domain.ParseEnergy("extreme")
	assert.ErrorIs(t, err, domain.ErrInvalidEnergy)
}

func TestParseWindow(t *testing.T) {
	w, err := domain.ParseWindow("Evening")
	require.NoError(t, err)
	assert.Equal(t, domain.WindowEvening, w)

	_, err = domain.ParseWindow("night")
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}
