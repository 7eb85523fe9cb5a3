package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothFirstRunPassesThrough(t *testing.T) {
	got, notes := Smooth(4.2, nil, DefaultAlpha)
	assert.Equal(t, 4.2, got)
	assert.Empty(t, notes)
}

func TestSmoothBlends(t *testing.T) {
	prev := 3.0
	got, notes := Smooth(9.0, &prev, DefaultAlpha)
	assert.InDelta(t, 6.3, got, 1e-9)
	// moved by more than a point, so the damping is noted
	assert.NotEmpty(t, notes)
}

func TestSmoothSmallMoveNoNote(t *testing.T) {
	prev := 4.0
	got, notes := Smooth(4.5, &prev, DefaultAlpha)
	assert.InDelta(t, 4.28, got, 1e-9)
	assert.Empty(t, notes)
}

func TestSmoothClamps(t *testing.T) {
	prev := 12.0
	got, _ := Smooth(20.0, &prev, DefaultAlpha)
	assert.Equal(t, TotalScoreCap, got)

	got, _ = Smooth(-30.0, nil, DefaultAlpha)
	assert.Equal(t, -TotalScoreCap, got)
}
