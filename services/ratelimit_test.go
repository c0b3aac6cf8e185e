package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimiter(t *testing.T) {
	now := time.Now()
	l := NewMemoryRateLimiter(time.Minute, 3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("k"), "hit %d", i)
	}
	assert.False(t, l.Allow("k"))

	// Other keys are independent.
	assert.True(t, l.Allow("other"))

	// The window slides: once the first hits age out, it opens again.
	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("k"))
}
