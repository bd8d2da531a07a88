package clock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual(1000)
	assert.Equal(t, uint32(1000), c.Micros())

	c.Advance(500)
	assert.Equal(t, uint32(1500), c.Micros())

	c.Set(math.MaxUint32 - 10)
	c.Advance(20)
	assert.Equal(t, uint32(9), c.Micros(), "advance should wrap like the hardware counter")
}

func TestSystemIsMonotonic(t *testing.T) {
	src := System()
	first := src.Micros()
	time.Sleep(2 * time.Millisecond)
	second := src.Micros()

	assert.GreaterOrEqual(t, second-first, uint32(2000))
}

func TestFunc(t *testing.T) {
	var src Source = Func(func() uint32 { return 42 })
	assert.Equal(t, uint32(42), src.Micros())
}
