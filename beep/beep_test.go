package beep

import (
	"math"
	"testing"
)

func TestGenerateToneDecays(t *testing.T) {
	samples := generateTone(1200, 0.2, 0.5, 60)
	if len(samples) != int(sampleRate*0.2) {
		t.Fatalf("len = %d", len(samples))
	}
	var headPeak, tailPeak float64
	head, tail := samples[:len(samples)/10], samples[len(samples)-len(samples)/10:]
	for _, s := range head {
		headPeak = math.Max(headPeak, math.Abs(float64(s)))
	}
	for _, s := range tail {
		tailPeak = math.Max(tailPeak, math.Abs(float64(s)))
	}
	if tailPeak >= headPeak/10 {
		t.Errorf("envelope should decay: head %f tail %f", headPeak, tailPeak)
	}
}

func TestGenerateDoubleTone(t *testing.T) {
	one := generateTone(350, 0.12, 0.6, 30)
	double := generateDoubleTone(350, 0.12, 0.6, 30)
	if len(double) != 2*len(one)+sampleRate/20 {
		t.Errorf("double tone length = %d", len(double))
	}
	gap := double[len(one) : len(one)+sampleRate/20]
	for i, s := range gap {
		if s != 0 {
			t.Fatalf("gap sample %d = %d, want silence", i, s)
		}
	}
}
