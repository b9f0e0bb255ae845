package mppi

import (
	"slices"
	"testing"
)

func TestControlSequence_Shift(t *testing.T) {
	tests := []struct {
		policy    ShiftPolicy
		expectedV []float64
		expectedW []float64
	}{
		{ShiftDuplicateLast, []float64{2, 3, 3}, []float64{-2, -3, -3}},
		{ShiftZeroFill, []float64{2, 3, 0}, []float64{-2, -3, 0}},
		{ShiftNone, []float64{1, 2, 3}, []float64{-1, -2, -3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			seq := ControlSequence{V: []float64{1, 2, 3}, W: []float64{-1, -2, -3}}
			seq.Shift(tt.policy)

			if !slices.Equal(seq.V, tt.expectedV) {
				t.Errorf("expected v %v, got %v", tt.expectedV, seq.V)
			}
			if !slices.Equal(seq.W, tt.expectedW) {
				t.Errorf("expected w %v, got %v", tt.expectedW, seq.W)
			}
		})
	}
}

func TestControlSequence_CloneAndReset(t *testing.T) {
	seq := ControlSequence{V: []float64{1, 2}, W: []float64{3, 4}}
	clone := seq.Clone()
	seq.Reset()

	if !slices.Equal(clone.V, []float64{1, 2}) {
		t.Errorf("expected clone untouched, got %v", clone.V)
	}
	if seq.At(1) != (Twist{}) {
		t.Errorf("expected zero twist after reset, got %+v", seq.At(1))
	}
}
