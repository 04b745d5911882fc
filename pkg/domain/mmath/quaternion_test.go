// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestQuaternionSlerpEndpoints(t *testing.T) {
	from := QuaternionIdent()
	to := NewQuaternionFromDegrees(0, 90, 0)

	if !from.Slerp(to, 0).NearEquals(from, 1e-9) {
		t.Fatalf("t=0 should keep start rotation")
	}
	if !from.Slerp(to, 1).NearEquals(to, 1e-9) {
		t.Fatalf("t=1 should reach end rotation")
	}
}

func TestNewQuaternionRotateAlignsVectors(t *testing.T) {
	from := NewVec3(1, 0, 0)
	to := NewVec3(0, 0, 1)

	rotated := NewQuaternionRotate(from, to).MulVec3(from)
	if !rotated.NearEquals(to, 1e-9) {
		t.Fatalf("rotation should align from onto to: rotated=%v", rotated)
	}
}

func TestNewQuaternionAxisAngleRotatesAroundAxis(t *testing.T) {
	q := NewQuaternionAxisAngle(UnitYVec3(), math.Pi/2)

	rotated := q.MulVec3(NewVec3(1, 0, 0))
	if !rotated.NearEquals(NewVec3(0, 0, -1), 1e-9) {
		t.Fatalf("Y axis 90 degree rotation mismatch: rotated=%v", rotated)
	}
	if !NearEquals(rotated.Y, 0, 1e-9) {
		t.Fatalf("rotation around Y should keep Y component: rotated=%v", rotated)
	}
}

func TestToAxisAngleRoundTrip(t *testing.T) {
	axis := NewVec3(0, 1, 0)
	angle := math.Pi / 3

	gotAxis, gotAngle := NewQuaternionAxisAngle(axis, angle).ToAxisAngle()
	if !NearEquals(gotAngle, angle, 1e-9) {
		t.Fatalf("angle mismatch: got=%f want=%f", gotAngle, angle)
	}
	if !gotAxis.NearEquals(axis, 1e-9) {
		t.Fatalf("axis mismatch: got=%v want=%v", gotAxis, axis)
	}

	identAxis, identAngle := QuaternionIdent().ToAxisAngle()
	if identAngle != 0 {
		t.Fatalf("identity should decompose to zero angle: angle=%f", identAngle)
	}
	if !identAxis.NearEquals(UnitYVec3(), 1e-12) {
		t.Fatalf("identity should decompose to Y axis: axis=%v", identAxis)
	}
}
