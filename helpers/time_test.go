package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntDurationDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7*time.Second, IntSecondDefault(0, 7*time.Second))
	assert.Equal(t, 7*time.Second, IntSecondDefault(-3, 7*time.Second))
	assert.Equal(t, 3*time.Second, IntSecondDefault(3, 7*time.Second))
	assert.Equal(t, 150*time.Millisecond, IntMillisecondDefault(0, 150*time.Millisecond))
	assert.Equal(t, 40*time.Millisecond, IntMillisecondDefault(40, 150*time.Millisecond))
}
