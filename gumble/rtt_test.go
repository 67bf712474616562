package gumble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRTTStats_EmptyIsZero(t *testing.T) {
	var s RTTStats
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.Variance())
}

func TestRTTStats_SingleSampleIsMeanWithZeroVariance(t *testing.T) {
	var s RTTStats
	s.Add(50)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 50.0, s.Mean())
	assert.Equal(t, 0.0, s.Variance())
}

func TestRTTStats_MeanAndVarianceMatchDirectComputation(t *testing.T) {
	samples := []float64{10, 20, 30, 40, 50}
	var s RTTStats
	for _, v := range samples {
		s.Add(v)
	}

	var sum float64
	for _, v := range samples {
		sum += v
	}
	wantMean := sum / float64(len(samples))

	var sq float64
	for _, v := range samples {
		sq += (v - wantMean) * (v - wantMean)
	}
	wantVariance := sq / float64(len(samples))

	assert.InDelta(t, wantMean, s.Mean(), 1e-9)
	assert.InDelta(t, wantVariance, s.Variance(), 1e-9)
	assert.Equal(t, len(samples), s.Count())
}
