package lunar

import (
	"testing"
)

func TestShapeFromElongation(t *testing.T) {
	tests := []struct {
		elongation float64
		want       Shape
	}{
		{0, New},
		{22.4999, New},
		{22.5, WaxingCrescent},
		{67.4999, WaxingCrescent},
		{67.5, FirstQuarter},
		{90, FirstQuarter},
		{112.5, WaxingGibbous},
		{157.5, Full},
		{180, Full},
		{202.5, WaningGibbous},
		{247.5, LastQuarter},
		{270, LastQuarter},
		{292.5, WaningCrescent},
		{337.4999, WaningCrescent},
		{337.5, New},
		{359.9999, New},
		{360, New},
		{-45, WaningCrescent},
		{405, WaxingCrescent},
	}

	for _, tt := range tests {
		if got := ShapeFromElongation(tt.elongation); got != tt.want {
			t.Errorf("ShapeFromElongation(%v) = %v, want %v", tt.elongation, got, tt.want)
		}
	}
}

// Every elongation falls in exactly one shape's [low, high) interval.
func TestShapesPartitionCircle(t *testing.T) {
	inBounds := func(s Shape, e float64) bool {
		low, high := s.Bounds()
		if low > high {
			return e >= low || e < high
		}
		return e >= low && e < high
	}

	for i := 0; i < 360*20; i++ {
		e := float64(i) / 20
		matches := 0
		var matched Shape
		for _, s := range Shapes() {
			if inBounds(s, e) {
				matches++
				matched = s
			}
		}
		if matches != 1 {
			t.Fatalf("elongation %.2f matched %d shapes", e, matches)
		}
		if got := ShapeFromElongation(e); got != matched {
			t.Fatalf("elongation %.2f: classifier says %v, bounds say %v", e, got, matched)
		}
	}
}

func TestShapeLabels(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Shapes() {
		if s.Name() == "" || s.English() == "" || s.Emoji() == "" {
			t.Errorf("shape %d has an empty label", s)
		}
		if seen[s.Name()] {
			t.Errorf("duplicate name %q", s.Name())
		}
		seen[s.Name()] = true
	}

	if FirstQuarter.Name() != "上弦月" || FirstQuarter.Emoji() != "🌓" {
		t.Errorf("FirstQuarter labels = %q %q", FirstQuarter.Name(), FirstQuarter.Emoji())
	}
	if Shape(42).Name() != "" {
		t.Error("out-of-range shape should have no name")
	}
}

func TestShapeWaxing(t *testing.T) {
	waxing := map[Shape]bool{WaxingCrescent: true, FirstQuarter: true, WaxingGibbous: true}
	for _, s := range Shapes() {
		if s.Waxing() != waxing[s] {
			t.Errorf("%v.Waxing() = %v", s, s.Waxing())
		}
	}
}
