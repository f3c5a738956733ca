package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHours(t *testing.T) {
	override := 2.5

	tests := []struct {
		name     string
		count    int
		override *float64
		want     float64
	}{
		{"single task gets the full budget", 1, nil, 4.0},
		{"two tasks split evenly", 2, nil, 2.0},
		{"three tasks round to two decimals", 3, nil, 1.33},
		{"full slot", 4, nil, 1.0},
		{"overbooked slot keeps splitting", 5, nil, 0.8},
		{"zero count yields zero", 0, nil, 0},
		{"negative count yields zero", -1, nil, 0},
		{"override wins regardless of count", 4, &override, 2.5},
		{"override wins even for empty count", 0, &override, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeHours(tt.count, tt.override))
		})
	}
}
