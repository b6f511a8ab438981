package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("SamePoint", func(t *testing.T) {
		assert.Zero(t, HaversineMeters(-6.2000, 106.8166, -6.2000, 106.8166))
	})

	t.Run("SmallOffset", func(t *testing.T) {
		// 0.0002 degrees of latitude is about 22 meters anywhere on Earth
		d := HaversineMeters(-6.2000, 106.8166, -6.1998, 106.8166)
		assert.InDelta(t, 22.2, d, 0.5)
	})

	t.Run("JakartaToBandung", func(t *testing.T) {
		d := HaversineMeters(-6.2088, 106.8456, -6.9175, 107.6191)
		assert.InDelta(t, 116_000, d, 3_000)
	})

	t.Run("Symmetry", func(t *testing.T) {
		a := HaversineMeters(-6.2088, 106.8456, -6.9175, 107.6191)
		b := HaversineMeters(-6.9175, 107.6191, -6.2088, 106.8456)
		assert.Equal(t, a, b)
	})

	t.Run("AcrossEquator", func(t *testing.T) {
		// one degree of latitude is about 111.2 km with the mean radius
		d := HaversineMeters(-0.5, 100, 0.5, 100)
		assert.InDelta(t, 111_195, d, 100)
	})
}
