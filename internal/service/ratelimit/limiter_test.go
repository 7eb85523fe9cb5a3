package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("polygon", 3, 0))
	}
	assert.False(t, l.Allow("polygon", 3, 0))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("polygon", 1, 0))
	assert.False(t, l.Allow("polygon", 1, 0))
	assert.True(t, l.Allow("yahoo", 1, 0))
}
