package dynamo

import (
	"math"
	"sync/atomic"
	"testing"
)

func TestVec2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"zero", Vec2{}, true},
		{"normal", Vec2{1.5, -2}, true},
		{"with NaN", Vec2{1, math.NaN()}, false},
		{"with +Inf", Vec2{math.Inf(1), 0}, false},
		{"with -Inf", Vec2{0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec2_Norm(t *testing.T) {
	tests := []struct {
		v        Vec2
		expected float64
	}{
		{Vec2{3, 4}, 5.0},
		{Vec2{1, 0}, 1.0},
		{Vec2{0, 0}, 0.0},
		{Vec2{-6, -8}, 10.0},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{4, 6}

	if sum := a.Add(b); sum != (Vec2{5, 8}) {
		t.Errorf("Add failed: got %v", sum)
	}
	if diff := b.Sub(a); diff != (Vec2{3, 4}) {
		t.Errorf("Sub failed: got %v", diff)
	}
	if scaled := a.Scale(-2); scaled != (Vec2{-2, -4}) {
		t.Errorf("Scale failed: got %v", scaled)
	}
	if d := a.Dist(b); d != 5 {
		t.Errorf("Dist failed: got %v", d)
	}
	if dot := a.Dot(b); dot != 16 {
		t.Errorf("Dot failed: got %v", dot)
	}
	if c := a.Cross(b); c != -2 {
		t.Errorf("Cross failed: got %v", c)
	}

	// operands are untouched
	if a != (Vec2{1, 2}) || b != (Vec2{4, 6}) {
		t.Errorf("operands mutated: a=%v b=%v", a, b)
	}
}

func TestVec2_Normalize(t *testing.T) {
	n := Vec2{3, 4}.Normalize()
	if math.Abs(n.X-0.6) > 1e-12 || math.Abs(n.Y-0.8) > 1e-12 {
		t.Errorf("Normalize failed: got %v", n)
	}
	if math.Abs(n.Norm()-1) > 1e-12 {
		t.Errorf("expected unit length, got %v", n.Norm())
	}

	zero := Vec2{}.Normalize()
	if !zero.IsZero() || !zero.IsValid() {
		t.Errorf("zero vector should normalize to zero, got %v", zero)
	}
}

func TestParallelFor(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		workers  int
		minChunk int
	}{
		{"serial", 10, 1, 1},
		{"below min chunk", 3, 4, 8},
		{"even split", 100, 4, 1},
		{"uneven split", 101, 3, 1},
		{"more workers than items", 5, 16, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]int32, tt.n)
			var calls int32
			ParallelFor(tt.n, tt.workers, tt.minChunk, func(start, end int) {
				atomic.AddInt32(&calls, 1)
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i, c := range seen {
				if c != 1 {
					t.Fatalf("index %d visited %d times", i, c)
				}
			}
			if calls < 1 {
				t.Error("fn never called")
			}
		})
	}
}
