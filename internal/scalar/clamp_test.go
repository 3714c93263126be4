package scalar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		lo   float64
		hi   float64
		want float64
	}{
		{"inside", 0.4, 0, 1, 0.4},
		{"below", -0.2, 0, 1, 0},
		{"above", 1.3, 0, 1, 1},
		{"at lower edge", -1, -1, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestUnitAndSigned(t *testing.T) {
	assert.Equal(t, 1.0, Unit(1.05))
	assert.Equal(t, float32(0), Unit(float32(-0.1)))
	assert.Equal(t, -1.0, Signed(-1.02))
	assert.Equal(t, 0.5, Signed(0.5))
}
