// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestDivideVec3ReturnsOneWhenDivisorHasZeroComponent(t *testing.T) {
	dividend := NewVec3(2, 4, 6)

	for _, divisor := range []Vec3{
		NewVec3(0, 1, 1),
		NewVec3(1, 0, 1),
		NewVec3(1, 1, 0),
		ZeroVec3(),
	} {
		result := DivideVec3(dividend, divisor)
		if !result.NearEquals(OneVec3(), 1e-12) {
			t.Fatalf("zero divisor should fall back to one vector: divisor=%v result=%v", divisor, result)
		}
	}
}

func TestDivideVec3ReturnsComponentWiseQuotient(t *testing.T) {
	result := DivideVec3(NewVec3(2, 9, -8), NewVec3(4, 3, 2))
	if !result.NearEquals(NewVec3(0.5, 3, -4), 1e-12) {
		t.Fatalf("component-wise division mismatch: result=%v", result)
	}
}

func TestVec3LerpInterpolatesLinearly(t *testing.T) {
	from := NewVec3(0, 0, 0)
	to := NewVec3(2, 4, -6)

	if !from.Lerp(to, 0).NearEquals(from, 1e-12) {
		t.Fatalf("t=0 should keep start position")
	}
	if !from.Lerp(to, 1).NearEquals(to, 1e-12) {
		t.Fatalf("t=1 should reach end position")
	}
	if !from.Lerp(to, 0.5).NearEquals(NewVec3(1, 2, -3), 1e-12) {
		t.Fatalf("t=0.5 should reach midpoint")
	}
}

func TestVec3IsFiniteDetectsInvalidComponents(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Fatalf("finite vector should be finite")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Fatalf("NaN component should not be finite")
	}
	if NewVec3(0, math.Inf(1), 0).IsFinite() {
		t.Fatalf("Inf component should not be finite")
	}
}

func TestNormalizedHandlesZeroVector(t *testing.T) {
	if !ZeroVec3().Normalized().NearEquals(ZeroVec3(), 1e-12) {
		t.Fatalf("zero vector normalization should stay zero")
	}
	unit := NewVec3(3, 0, 4).Normalized()
	if !NearEquals(unit.Length(), 1.0, 1e-12) {
		t.Fatalf("normalized length should be 1: length=%f", unit.Length())
	}
}
